// Package order оформляет заказы: собирает позиции из каталога, начисляет
// клиенту бонусные баллы, сохраняет заказ и публикует OrderPlaced.
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
	"github.com/vladislavdragonenkov/ordering/internal/event"
)

// ErrNoItems: запрос без позиций.
var ErrNoItems = errors.New("at least one item is required")

// Notifier публикует доменные события.
type Notifier interface {
	Notify(e event.Event) error
}

// ItemRequest: позиция запроса: товар из каталога и количество.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// Repositories: хранилища, нужные сервису заказов.
type Repositories struct {
	Orders    domain.OrderRepository
	Customers domain.CustomerRepository
	Products  domain.ProductRepository
}

type Service struct {
	orders    domain.OrderRepository
	customers domain.CustomerRepository
	products  domain.ProductRepository
	events    Notifier
	logger    *log.Entry
	newID     func() string
	now       func() time.Time
}

func NewService(repos Repositories, events Notifier, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "order_service")
	}
	return &Service{
		orders:    repos.Orders,
		customers: repos.Customers,
		products:  repos.Products,
		events:    events,
		logger:    logger,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Place оформляет заказ клиента. Заказ и обновлённые баллы клиента сохраняются
// до публикации события.
func (s *Service) Place(customerID string, requests []ItemRequest) (*domain.Order, error) {
	if len(requests) == 0 {
		return nil, ErrNoItems
	}
	customer, err := s.customers.Find(customerID)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	items, err := s.buildItems(requests)
	if err != nil {
		return nil, err
	}

	order, err := domain.PlaceOrder(customer, s.newID(), items)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if err := s.customers.Update(customer); err != nil {
		return nil, fmt.Errorf("update customer reward points: %w", err)
	}

	logger := s.logger.WithFields(log.Fields{
		"order_id":    order.ID(),
		"customer_id": customerID,
		"total":       order.Total().String(),
	})
	logger.Info("order placed")

	if s.events == nil {
		return order, nil
	}
	e := event.OrderPlaced{
		OrderID:    order.ID(),
		CustomerID: customerID,
		Total:      order.Total(),
		Items:      len(items),
		At:         s.now(),
	}
	if err := s.events.Notify(e); err != nil {
		logger.WithError(err).Warn("event delivery failed")
		return order, fmt.Errorf("notify %s: %w", e.Name(), err)
	}
	return order, nil
}

// AddItems дописывает позиции в существующий заказ и сохраняет его через Update.
func (s *Service) AddItems(orderID string, requests []ItemRequest) (*domain.Order, error) {
	if len(requests) == 0 {
		return nil, ErrNoItems
	}
	order, err := s.orders.Find(orderID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	items, err := s.buildItems(requests)
	if err != nil {
		return nil, err
	}
	if err := order.AddItems(items...); err != nil {
		return nil, err
	}
	if err := s.orders.Update(order); err != nil {
		return nil, err
	}

	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"added":    len(items),
		"total":    order.Total().String(),
	}).Info("order items added")
	return order, nil
}

func (s *Service) Get(id string) (*domain.Order, error) {
	return s.orders.Find(id)
}

func (s *Service) List() ([]*domain.Order, error) {
	return s.orders.FindAll()
}

// Revenue возвращает сумму всех сохранённых заказов.
func (s *Service) Revenue() (decimal.Decimal, error) {
	orders, err := s.orders.FindAll()
	if err != nil {
		return decimal.Zero, fmt.Errorf("list orders: %w", err)
	}
	return domain.TotalOf(orders), nil
}

// buildItems фиксирует название и цену товара на момент заказа.
func (s *Service) buildItems(requests []ItemRequest) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(requests))
	for _, req := range requests {
		product, err := s.products.Find(req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("find product %s: %w", req.ProductID, err)
		}
		item, err := domain.NewOrderItem(s.newID(), product.Name(), product.Price(), product.ID(), req.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
