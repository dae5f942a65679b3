package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
)

// orderRow повторяет строку таблицы orders вместе с её позициями.
type orderRow struct {
	customerID string
	total      decimal.Decimal
	items      []domain.OrderItem
}

// orderRepositoryInMemory: простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu     sync.RWMutex
	orders map[string]orderRow
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		orders: make(map[string]orderRow),
	}
}

// Create сохраняет новый заказ, если ID ещё не занят.
func (r *orderRepositoryInMemory) Create(order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("create order: %w", domain.ErrInvalidAggregateState)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.ID()]; exists {
		return domain.ErrOrderAlreadyExists
	}
	r.orders[order.ID()] = orderRow{
		customerID: order.CustomerID(),
		total:      order.Total(),
		items:      order.Items(),
	}
	return nil
}

// Update заменяет набор позиций и пересчитывает total в одной критической секции.
func (r *orderRepositoryInMemory) Update(order *domain.Order) error {
	if order == nil {
		return domain.UpdateFailed(domain.ErrInvalidAggregateState)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.orders[order.ID()]
	if !ok {
		return domain.UpdateFailed(domain.ErrOrderNotFound)
	}
	row.items = order.Items()
	row.total = order.Total()
	r.orders[order.ID()] = row
	return nil
}

// Find возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Find(id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return domain.NewOrder(id, row.customerID, row.items)
}

// FindAll возвращает все заказы, отсортированные по ID.
func (r *orderRepositoryInMemory) FindAll() ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		row := r.orders[id]
		order, err := domain.NewOrder(id, row.customerID, row.items)
		if err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
