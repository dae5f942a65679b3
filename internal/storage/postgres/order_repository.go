package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
)

// OrderRepository: PostgreSQL-реализация domain.OrderRepository.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт репозиторий заказов поверх Store.
func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{db: store.DB()}
}

func (r *OrderRepository) Create(order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("create order: %w", domain.ErrInvalidAggregateState)
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO orders (id, customer_id, total)
			VALUES ($1, $2, $3)
		`, order.ID(), order.CustomerID(), order.Total()); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %w", domain.ErrOrderAlreadyExists, err)
			}
			return fmt.Errorf("insert order: %w", err)
		}
		return insertItems(ctx, tx, order.ID(), order.Items())
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderAlreadyExists) {
			return err
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// Update заменяет позиции заказа и пересчитывает total в одной транзакции.
// Строка заказа блокируется на время замены.
func (r *OrderRepository) Update(order *domain.Order) error {
	if order == nil {
		return domain.UpdateFailed(domain.ErrInvalidAggregateState)
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		var locked string
		err := tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1 FOR UPDATE`, order.ID()).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID()); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if err := insertItems(ctx, tx, order.ID(), order.Items()); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE orders SET customer_id = $2, total = $3
			WHERE id = $1
		`, order.ID(), order.CustomerID(), order.Total())
		if err != nil {
			return fmt.Errorf("update order total: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return domain.ErrOrderNotFound
		}
		return nil
	})
	if err != nil {
		return domain.UpdateFailed(err)
	}
	return nil
}

func (r *OrderRepository) Find(id string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var customerID string
	err := r.db.QueryRowContext(ctx, `SELECT customer_id FROM orders WHERE id = $1`, id).Scan(&customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.NewOrder(id, customerID, items)
}

func (r *OrderRepository) FindAll() ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, customer_id FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}

	type header struct{ id, customerID string }
	var headers []header
	for rows.Next() {
		var h header
		if err := rows.Scan(&h.id, &h.customerID); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	_ = rows.Close()

	result := make([]*domain.Order, 0, len(headers))
	for _, h := range headers {
		items, err := r.loadItems(ctx, h.id)
		if err != nil {
			return nil, err
		}
		order, err := domain.NewOrder(h.id, h.customerID, items)
		if err != nil {
			return nil, fmt.Errorf("restore order %s: %w", h.id, err)
		}
		result = append(result, order)
	}
	return result, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, unit_price, quantity, product_id
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			id, name, productID string
			unitPrice           decimal.Decimal
			quantity            int
		)
		if err := rows.Scan(&id, &name, &unitPrice, &quantity, &productID); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item, err := domain.NewOrderItem(id, name, unitPrice, productID, quantity)
		if err != nil {
			return nil, fmt.Errorf("restore order item %s: %w", id, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}

// insertItems вставляет позиции одним multi-row INSERT, сохраняя их порядок.
func insertItems(ctx context.Context, tx *sql.Tx, orderID string, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO order_items (id, name, unit_price, quantity, order_id, product_id, position) VALUES `)
	args := make([]any, 0, len(items)*7)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 7
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args, item.ID(), item.Name(), item.UnitPrice(), item.Quantity(), orderID, item.ProductID(), i)
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

var _ domain.OrderRepository = (*OrderRepository)(nil)
