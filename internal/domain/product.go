package domain

import "github.com/shopspring/decimal"

// Product — товар каталога.
type Product struct {
	id    string
	name  string
	price decimal.Decimal
}

// NewProduct создаёт товар и проверяет инварианты.
func NewProduct(id, name string, price decimal.Decimal) (*Product, error) {
	p := &Product{id: id, name: name, price: price}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) Validate() error {
	switch {
	case p.id == "":
		return ErrProductIDRequired
	case p.name == "":
		return ErrProductNameRequired
	case p.price.IsNegative():
		return ErrProductPriceInvalid
	}
	return nil
}

func (p *Product) ID() string             { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) Price() decimal.Decimal { return p.price }

func (p *Product) ChangeName(name string) error {
	if name == "" {
		return ErrProductNameRequired
	}
	p.name = name
	return nil
}

func (p *Product) ChangePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrProductPriceInvalid
	}
	p.price = price
	return nil
}
