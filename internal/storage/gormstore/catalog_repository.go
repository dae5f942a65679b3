package gormstore

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
)

// CustomerRepository: GORM-реализация domain.CustomerRepository.
type CustomerRepository struct {
	store *Store
}

func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

func (r *CustomerRepository) Create(customer *domain.Customer) error {
	db, cancel := r.store.withTimeout()
	defer cancel()

	model := fromDomainCustomer(customer)
	err := db.Create(&model).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", domain.ErrCustomerAlreadyExists, err)
	default:
		return fmt.Errorf("insert customer: %w", err)
	}
}

func (r *CustomerRepository) Update(customer *domain.Customer) error {
	db, cancel := r.store.withTimeout()
	defer cancel()

	model := fromDomainCustomer(customer)
	return db.Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &customerModel{}, model.ID)
		if err != nil {
			return fmt.Errorf("check customer: %w", err)
		}
		if !found {
			return domain.ErrCustomerNotFound
		}
		// Select("*") пишет и нулевые значения: снятый адрес, деактивацию.
		if err := tx.Model(&customerModel{}).Where("id = ?", model.ID).Select("*").Updates(&model).Error; err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
		return nil
	})
}

func (r *CustomerRepository) Find(id string) (*domain.Customer, error) {
	db, cancel := r.store.withTimeout()
	defer cancel()

	var model customerModel
	err := db.Where("id = ?", id).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select customer: %w", err)
	}
	return toDomainCustomer(model)
}

func (r *CustomerRepository) FindAll() ([]*domain.Customer, error) {
	db, cancel := r.store.withTimeout()
	defer cancel()

	var models []customerModel
	if err := db.Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	result := make([]*domain.Customer, 0, len(models))
	for _, model := range models {
		customer, err := toDomainCustomer(model)
		if err != nil {
			return nil, err
		}
		result = append(result, customer)
	}
	return result, nil
}

// ProductRepository: GORM-реализация domain.ProductRepository.
type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Create(product *domain.Product) error {
	db, cancel := r.store.withTimeout()
	defer cancel()

	model := fromDomainProduct(product)
	err := db.Create(&model).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", domain.ErrProductAlreadyExists, err)
	default:
		return fmt.Errorf("insert product: %w", err)
	}
}

func (r *ProductRepository) Update(product *domain.Product) error {
	db, cancel := r.store.withTimeout()
	defer cancel()

	model := fromDomainProduct(product)
	return db.Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &productModel{}, model.ID)
		if err != nil {
			return fmt.Errorf("check product: %w", err)
		}
		if !found {
			return domain.ErrProductNotFound
		}
		if err := tx.Model(&productModel{}).Where("id = ?", model.ID).Updates(map[string]any{
			"name":  model.Name,
			"price": model.Price,
		}).Error; err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return nil
	})
}

func (r *ProductRepository) Find(id string) (*domain.Product, error) {
	db, cancel := r.store.withTimeout()
	defer cancel()

	var model productModel
	err := db.Where("id = ?", id).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select product: %w", err)
	}
	return toDomainProduct(model)
}

func (r *ProductRepository) FindAll() ([]*domain.Product, error) {
	db, cancel := r.store.withTimeout()
	defer cancel()

	var models []productModel
	if err := db.Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	result := make([]*domain.Product, 0, len(models))
	for _, model := range models {
		product, err := toDomainProduct(model)
		if err != nil {
			return nil, err
		}
		result = append(result, product)
	}
	return result, nil
}

var (
	_ domain.CustomerRepository = (*CustomerRepository)(nil)
	_ domain.ProductRepository  = (*ProductRepository)(nil)
)
