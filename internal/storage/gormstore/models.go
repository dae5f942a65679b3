package gormstore

import (
	"time"

	"github.com/shopspring/decimal"
)

type customerModel struct {
	ID           string `gorm:"primaryKey;size:64"`
	Name         string `gorm:"not null"`
	Street       *string
	Number       *int
	Zipcode      *string
	City         *string
	Active       bool `gorm:"not null;default:false"`
	RewardPoints int  `gorm:"not null;default:0"`
}

func (customerModel) TableName() string { return "customers" }

type productModel struct {
	ID    string          `gorm:"primaryKey;size:64"`
	Name  string          `gorm:"not null"`
	Price decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (productModel) TableName() string { return "products" }

type orderModel struct {
	ID         string           `gorm:"primaryKey;size:64"`
	CustomerID string           `gorm:"size:64;not null;index"`
	Total      decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Items      []orderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (orderModel) TableName() string { return "orders" }

type orderItemModel struct {
	ID        string          `gorm:"primaryKey;size:64"`
	Name      string          `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity  int             `gorm:"not null"`
	OrderID   string          `gorm:"size:64;not null;index:idx_order_items_order,priority:1"`
	ProductID string          `gorm:"size:64;not null"`
	Position  int             `gorm:"not null;index:idx_order_items_order,priority:2"`
}

func (orderItemModel) TableName() string { return "order_items" }

type journalModel struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;not null;index"`
	EventName   string    `gorm:"not null"`
	Payload     []byte    `gorm:"not null"`
	OccurredAt  time.Time `gorm:"not null"`
}

func (journalModel) TableName() string { return "journal_events" }
