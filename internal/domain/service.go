package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrCustomerRequired — заказ нельзя оформить без клиента.
	ErrCustomerRequired = errors.New("customer is required")
	// ErrPercentInvalid — процент изменения цены не может быть отрицательным.
	ErrPercentInvalid = errors.New("percent must be non-negative")
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// PlaceOrder оформляет заказ для клиента и начисляет ему бонусные баллы
// в размере половины суммы заказа (с округлением вниз).
func PlaceOrder(customer *Customer, orderID string, items []OrderItem) (*Order, error) {
	if customer == nil {
		return nil, ErrCustomerRequired
	}
	order, err := NewOrder(orderID, customer.ID(), items)
	if err != nil {
		return nil, err
	}
	if err := customer.AddRewardPoints(int(order.Total().Div(two).IntPart())); err != nil {
		return nil, err
	}
	return order, nil
}

// TotalOf суммирует итоги нескольких заказов.
func TotalOf(orders []*Order) decimal.Decimal {
	total := decimal.Zero
	for _, order := range orders {
		total = total.Add(order.Total())
	}
	return total
}

// IncreasePrices поднимает цену каждого товара на percent процентов.
func IncreasePrices(products []*Product, percent decimal.Decimal) error {
	if percent.IsNegative() {
		return ErrPercentInvalid
	}
	factor := decimal.NewFromInt(1).Add(percent.Div(hundred))
	for _, p := range products {
		if err := p.ChangePrice(p.Price().Mul(factor)); err != nil {
			return err
		}
	}
	return nil
}
