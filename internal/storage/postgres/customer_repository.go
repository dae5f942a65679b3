package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
)

// CustomerRepository: PostgreSQL-реализация domain.CustomerRepository.
type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{db: store.DB()}
}

type customerColumns struct {
	street  sql.NullString
	number  sql.NullInt64
	zipcode sql.NullString
	city    sql.NullString
}

func addressColumns(c *domain.Customer) customerColumns {
	addr, ok := c.Address()
	if !ok {
		return customerColumns{}
	}
	return customerColumns{
		street:  sql.NullString{String: addr.Street(), Valid: true},
		number:  sql.NullInt64{Int64: int64(addr.Number()), Valid: true},
		zipcode: sql.NullString{String: addr.Zip(), Valid: true},
		city:    sql.NullString{String: addr.City(), Valid: true},
	}
}

func (r *CustomerRepository) Create(customer *domain.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	cols := addressColumns(customer)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, street, number, zipcode, city, active, reward_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, customer.ID(), customer.Name(), cols.street, cols.number, cols.zipcode, cols.city,
		customer.IsActive(), customer.RewardPoints())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %w", domain.ErrCustomerAlreadyExists, err)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Update(customer *domain.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	cols := addressColumns(customer)
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET name = $2, street = $3, number = $4, zipcode = $5, city = $6, active = $7, reward_points = $8
		WHERE id = $1
	`, customer.ID(), customer.Name(), cols.street, cols.number, cols.zipcode, cols.city,
		customer.IsActive(), customer.RewardPoints())
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

const selectCustomerColumns = `SELECT id, name, street, number, zipcode, city, active, reward_points FROM customers`

func (r *CustomerRepository) Find(id string) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, selectCustomerColumns+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	return customer, err
}

func (r *CustomerRepository) FindAll() ([]*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, selectCustomerColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	defer rows.Close()

	var result []*domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var (
		id, name     string
		cols         customerColumns
		active       bool
		rewardPoints int
	)
	if err := row.Scan(&id, &name, &cols.street, &cols.number, &cols.zipcode, &cols.city, &active, &rewardPoints); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}

	customer, err := domain.NewCustomer(id, name)
	if err != nil {
		return nil, fmt.Errorf("restore customer %s: %w", id, err)
	}
	if cols.street.Valid {
		addr, err := domain.NewAddress(cols.street.String, int(cols.number.Int64), cols.zipcode.String, cols.city.String)
		if err != nil {
			return nil, fmt.Errorf("restore customer %s address: %w", id, err)
		}
		customer.ChangeAddress(addr)
	}
	if active {
		if err := customer.Activate(); err != nil {
			return nil, fmt.Errorf("restore customer %s: %w", id, err)
		}
	}
	if err := customer.AddRewardPoints(rewardPoints); err != nil {
		return nil, fmt.Errorf("restore customer %s: %w", id, err)
	}
	return customer, nil
}

var _ domain.CustomerRepository = (*CustomerRepository)(nil)
