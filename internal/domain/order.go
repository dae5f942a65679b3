package domain

import "github.com/shopspring/decimal"

// OrderItem представляет одну позицию заказа.
// Позиция неизменяема: цена и название копируются из товара в момент заказа.
type OrderItem struct {
	id        string
	productID string
	name      string
	unitPrice decimal.Decimal
	quantity  int
}

// NewOrderItem создаёт позицию и проверяет её инварианты.
func NewOrderItem(id, name string, unitPrice decimal.Decimal, productID string, quantity int) (OrderItem, error) {
	item := OrderItem{
		id:        id,
		productID: productID,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
	}
	if err := item.validate(); err != nil {
		return OrderItem{}, err
	}
	return item, nil
}

func (i OrderItem) validate() error {
	switch {
	case i.id == "":
		return ErrItemIDRequired
	case i.productID == "":
		return ErrItemProductRequired
	case i.quantity <= 0:
		return ErrItemQtyInvalid
	case i.unitPrice.IsNegative():
		return ErrItemPriceInvalid
	}
	return nil
}

// ID возвращает идентификатор позиции.
func (i OrderItem) ID() string { return i.id }

// ProductID возвращает идентификатор товара из каталога.
func (i OrderItem) ProductID() string { return i.productID }

// Name возвращает название товара на момент заказа.
func (i OrderItem) Name() string { return i.name }

// UnitPrice возвращает цену за единицу на момент заказа.
func (i OrderItem) UnitPrice() decimal.Decimal { return i.unitPrice }

// Quantity возвращает количество единиц товара.
func (i OrderItem) Quantity() int { return i.quantity }

// Price возвращает стоимость позиции: unitPrice * quantity.
func (i OrderItem) Price() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

// Equal сравнивает позиции по значению (цены сравниваются численно).
func (i OrderItem) Equal(other OrderItem) bool {
	return i.id == other.id &&
		i.productID == other.productID &&
		i.name == other.name &&
		i.quantity == other.quantity &&
		i.unitPrice.Equal(other.unitPrice)
}

// Order агрегирует заказ клиента и его позиции.
type Order struct {
	id         string
	customerID string
	items      []OrderItem
}

// NewOrder создаёт заказ. Заказ без позиций недопустим.
func NewOrder(id, customerID string, items []OrderItem) (*Order, error) {
	order := &Order{
		id:         id,
		customerID: customerID,
		items:      append([]OrderItem(nil), items...),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate проверяет инварианты заказа.
func (o *Order) Validate() error {
	if o.id == "" {
		return ErrOrderIDRequired
	}
	if o.customerID == "" {
		return ErrCustomerIDRequired
	}
	if len(o.items) == 0 {
		return ErrItemsRequired
	}
	return validateItems(o.items)
}

// validateItems проверяет каждую позицию: нулевое значение OrderItem
// собирается без конструктора и не должно попасть в заказ.
func validateItems(items []OrderItem) error {
	for _, item := range items {
		if err := item.validate(); err != nil {
			return err
		}
	}
	return nil
}

// ID возвращает идентификатор заказа.
func (o *Order) ID() string { return o.id }

// CustomerID возвращает идентификатор клиента, оформившего заказ.
func (o *Order) CustomerID() string { return o.customerID }

// Items возвращает копию позиций в порядке добавления.
func (o *Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}

// AddItems дописывает позиции в конец заказа. Дубликаты по ID не отсекаются.
// При невалидной позиции заказ не меняется.
func (o *Order) AddItems(items ...OrderItem) error {
	if err := validateItems(items); err != nil {
		return err
	}
	o.items = append(o.items, items...)
	return o.Validate()
}

// Total пересчитывает сумму заказа при каждом вызове.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.items {
		total = total.Add(item.Price())
	}
	return total
}

// Equal сравнивает заказы структурно, без учёта идентичности указателей.
func (o *Order) Equal(other *Order) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.id != other.id || o.customerID != other.customerID || len(o.items) != len(other.items) {
		return false
	}
	for i := range o.items {
		if !o.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}
