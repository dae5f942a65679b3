package gormstore

import (
	"fmt"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
)

func fromDomainOrder(order *domain.Order) orderModel {
	items := order.Items()
	model := orderModel{
		ID:         order.ID(),
		CustomerID: order.CustomerID(),
		Total:      order.Total(),
		Items:      make([]orderItemModel, 0, len(items)),
	}
	for i, item := range items {
		model.Items = append(model.Items, orderItemModel{
			ID:        item.ID(),
			Name:      item.Name(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity(),
			OrderID:   order.ID(),
			ProductID: item.ProductID(),
			Position:  i,
		})
	}
	return model
}

// toDomainOrder ожидает позиции, уже упорядоченные по Position.
func toDomainOrder(model orderModel) (*domain.Order, error) {
	items := make([]domain.OrderItem, 0, len(model.Items))
	for _, m := range model.Items {
		item, err := domain.NewOrderItem(m.ID, m.Name, m.UnitPrice, m.ProductID, m.Quantity)
		if err != nil {
			return nil, fmt.Errorf("restore order item %s: %w", m.ID, err)
		}
		items = append(items, item)
	}
	order, err := domain.NewOrder(model.ID, model.CustomerID, items)
	if err != nil {
		return nil, fmt.Errorf("restore order %s: %w", model.ID, err)
	}
	return order, nil
}

func fromDomainCustomer(c *domain.Customer) customerModel {
	model := customerModel{
		ID:           c.ID(),
		Name:         c.Name(),
		Active:       c.IsActive(),
		RewardPoints: c.RewardPoints(),
	}
	if addr, ok := c.Address(); ok {
		street, number, zip, city := addr.Street(), addr.Number(), addr.Zip(), addr.City()
		model.Street, model.Number, model.Zipcode, model.City = &street, &number, &zip, &city
	}
	return model
}

func toDomainCustomer(model customerModel) (*domain.Customer, error) {
	customer, err := domain.NewCustomer(model.ID, model.Name)
	if err != nil {
		return nil, fmt.Errorf("restore customer %s: %w", model.ID, err)
	}
	if model.Street != nil && model.Number != nil && model.Zipcode != nil && model.City != nil {
		addr, err := domain.NewAddress(*model.Street, *model.Number, *model.Zipcode, *model.City)
		if err != nil {
			return nil, fmt.Errorf("restore customer %s address: %w", model.ID, err)
		}
		customer.ChangeAddress(addr)
	}
	if model.Active {
		if err := customer.Activate(); err != nil {
			return nil, fmt.Errorf("restore customer %s: %w", model.ID, err)
		}
	}
	if err := customer.AddRewardPoints(model.RewardPoints); err != nil {
		return nil, fmt.Errorf("restore customer %s: %w", model.ID, err)
	}
	return customer, nil
}

func fromDomainProduct(p *domain.Product) productModel {
	return productModel{ID: p.ID(), Name: p.Name(), Price: p.Price()}
}

func toDomainProduct(model productModel) (*domain.Product, error) {
	product, err := domain.NewProduct(model.ID, model.Name, model.Price)
	if err != nil {
		return nil, fmt.Errorf("restore product %s: %w", model.ID, err)
	}
	return product, nil
}
