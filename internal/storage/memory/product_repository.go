package memory

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
)

type productRow struct {
	name  string
	price decimal.Decimal
}

type productRepositoryInMemory struct {
	mu       sync.RWMutex
	products map[string]productRow
}

// NewProductRepository создаёт in-memory реализацию ProductRepository.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{products: make(map[string]productRow)}
}

func (r *productRepositoryInMemory) Create(product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID()]; exists {
		return domain.ErrProductAlreadyExists
	}
	r.products[product.ID()] = productRow{name: product.Name(), price: product.Price()}
	return nil
}

func (r *productRepositoryInMemory) Update(product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID()]; !exists {
		return domain.ErrProductNotFound
	}
	r.products[product.ID()] = productRow{name: product.Name(), price: product.Price()}
	return nil
}

func (r *productRepositoryInMemory) Find(id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return domain.NewProduct(id, row.name, row.price)
}

func (r *productRepositoryInMemory) FindAll() ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		row := r.products[id]
		product, err := domain.NewProduct(id, row.name, row.price)
		if err != nil {
			return nil, err
		}
		result = append(result, product)
	}
	return result, nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
