package gormstore

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
)

// OrderRepository: GORM-реализация domain.OrderRepository.
type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Create(order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("create order: %w", domain.ErrInvalidAggregateState)
	}
	db, cancel := r.store.withTimeout()
	defer cancel()

	model := fromDomainOrder(order)
	// Дубликат id не проверяется заранее: ошибку возвращает само хранилище.
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %w", domain.ErrOrderAlreadyExists, err)
			}
			return fmt.Errorf("insert order: %w", err)
		}
		if err := tx.Create(&model.Items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderAlreadyExists) {
			return err
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// Update заменяет позиции и total в одной транзакции; при любой ошибке
// транзакция откатывается и хранилище остаётся прежним.
func (r *OrderRepository) Update(order *domain.Order) error {
	if order == nil {
		return domain.UpdateFailed(domain.ErrInvalidAggregateState)
	}
	db, cancel := r.store.withTimeout()
	defer cancel()

	model := fromDomainOrder(order)
	err := db.Transaction(func(tx *gorm.DB) error {
		var current orderModel
		if err := lockOrderRow(tx, model.ID, &current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("load order: %w", err)
		}

		if err := tx.Where("order_id = ?", model.ID).Delete(&orderItemModel{}).Error; err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if err := tx.Create(&model.Items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		if err := tx.Model(&orderModel{}).Where("id = ?", model.ID).Updates(map[string]any{
			"customer_id": model.CustomerID,
			"total":       model.Total,
		}).Error; err != nil {
			return fmt.Errorf("update order total: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.UpdateFailed(err)
	}
	return nil
}

// lockOrderRow читает строку заказа с FOR UPDATE: блокировка держится до конца
// транзакции замены. SQLite блокирует всю базу и клаузу игнорирует.
func lockOrderRow(tx *gorm.DB, id string, dest *orderModel) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("id").Where("id = ?", id).Take(dest)
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func (r *OrderRepository) Find(id string) (*domain.Order, error) {
	db, cancel := r.store.withTimeout()
	defer cancel()

	var model orderModel
	err := db.Preload("Items", preloadItems).Where("id = ?", id).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	return toDomainOrder(model)
}

func (r *OrderRepository) FindAll() ([]*domain.Order, error) {
	db, cancel := r.store.withTimeout()
	defer cancel()

	var models []orderModel
	if err := db.Preload("Items", preloadItems).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}

	result := make([]*domain.Order, 0, len(models))
	for _, model := range models {
		order, err := toDomainOrder(model)
		if err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, nil
}

var _ domain.OrderRepository = (*OrderRepository)(nil)
