package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// Name — тип события и одновременно ключ таблицы обработчиков.
type Name string

const (
	NameProductCreated         Name = "ProductCreatedEvent"
	NameCustomerCreated        Name = "CustomerCreatedEvent"
	NameCustomerAddressChanged Name = "CustomerAddressChangedEvent"
	NameOrderPlaced            Name = "OrderPlacedEvent"
)

// Names перечисляет все известные типы событий.
func Names() []Name {
	return []Name{
		NameProductCreated,
		NameCustomerCreated,
		NameCustomerAddressChanged,
		NameOrderPlaced,
	}
}

// Event — доменное событие. Набор реализаций закрыт: новые события
// объявляются только в этом пакете.
type Event interface {
	Name() Name
	OccurredAt() time.Time
	AggregateID() string

	sealed()
}

// ProductCreated публикуется после создания товара.
type ProductCreated struct {
	ID          string          `json:"id"`
	ProductName string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	At          time.Time       `json:"occurred_at"`
}

func (e ProductCreated) Name() Name            { return NameProductCreated }
func (e ProductCreated) OccurredAt() time.Time { return e.At }
func (e ProductCreated) AggregateID() string   { return e.ID }
func (ProductCreated) sealed()                 {}

// CustomerCreated публикуется после регистрации клиента.
type CustomerCreated struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"name"`
	At           time.Time `json:"occurred_at"`
}

func (e CustomerCreated) Name() Name            { return NameCustomerCreated }
func (e CustomerCreated) OccurredAt() time.Time { return e.At }
func (e CustomerCreated) AggregateID() string   { return e.ID }
func (CustomerCreated) sealed()                 {}

// CustomerAddressChanged публикуется после смены адреса клиента.
type CustomerAddressChanged struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"name"`
	Address      string    `json:"address"`
	At           time.Time `json:"occurred_at"`
}

func (e CustomerAddressChanged) Name() Name            { return NameCustomerAddressChanged }
func (e CustomerAddressChanged) OccurredAt() time.Time { return e.At }
func (e CustomerAddressChanged) AggregateID() string   { return e.ID }
func (CustomerAddressChanged) sealed()                 {}

// OrderPlaced публикуется после сохранения нового заказа.
type OrderPlaced struct {
	OrderID    string          `json:"order_id"`
	CustomerID string          `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	Items      int             `json:"items"`
	At         time.Time       `json:"occurred_at"`
}

func (e OrderPlaced) Name() Name            { return NameOrderPlaced }
func (e OrderPlaced) OccurredAt() time.Time { return e.At }
func (e OrderPlaced) AggregateID() string   { return e.OrderID }
func (OrderPlaced) sealed()                 {}
