// Package product содержит сценарии каталога товаров.
package product

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
	"github.com/vladislavdragonenkov/ordering/internal/event"
)

// Notifier публикует доменные события.
type Notifier interface {
	Notify(e event.Event) error
}

type Service struct {
	products domain.ProductRepository
	events   Notifier
	logger   *log.Entry
	now      func() time.Time
}

func NewService(products domain.ProductRepository, events Notifier, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "product_service")
	}
	return &Service{
		products: products,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// Create добавляет товар в каталог и публикует ProductCreated.
// Описание хранится только в событии.
func (s *Service) Create(id, name, description string, price decimal.Decimal) (*domain.Product, error) {
	product, err := domain.NewProduct(id, name, price)
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.logger.WithFields(log.Fields{
		"product_id": id,
		"price":      price.String(),
	}).Info("product created")

	if s.events == nil {
		return product, nil
	}
	e := event.ProductCreated{
		ID:          id,
		ProductName: name,
		Description: description,
		Price:       price,
		At:          s.now(),
	}
	if err := s.events.Notify(e); err != nil {
		return product, fmt.Errorf("notify %s: %w", e.Name(), err)
	}
	return product, nil
}

// IncreasePrices поднимает цены всех товаров на percent процентов.
// Товары сохраняются по одному; первая ошибка прерывает проход.
func (s *Service) IncreasePrices(percent decimal.Decimal) ([]*domain.Product, error) {
	products, err := s.products.FindAll()
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if err := domain.IncreasePrices(products, percent); err != nil {
		return nil, err
	}
	for _, p := range products {
		if err := s.products.Update(p); err != nil {
			return nil, fmt.Errorf("update product %s: %w", p.ID(), err)
		}
	}
	s.logger.WithFields(log.Fields{
		"percent":  percent.String(),
		"products": len(products),
	}).Info("prices increased")
	return products, nil
}

func (s *Service) Get(id string) (*domain.Product, error) {
	return s.products.Find(id)
}

func (s *Service) List() ([]*domain.Product, error) {
	return s.products.FindAll()
}
