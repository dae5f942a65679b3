package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
)

type customerRow struct {
	name         string
	address      *domain.Address
	active       bool
	rewardPoints int
}

type customerRepositoryInMemory struct {
	mu        sync.RWMutex
	customers map[string]customerRow
}

// NewCustomerRepository создаёт in-memory реализацию CustomerRepository.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{customers: make(map[string]customerRow)}
}

func (r *customerRepositoryInMemory) Create(customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.customers[customer.ID()]; exists {
		return domain.ErrCustomerAlreadyExists
	}
	r.customers[customer.ID()] = toCustomerRow(customer)
	return nil
}

func (r *customerRepositoryInMemory) Update(customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.customers[customer.ID()]; !exists {
		return domain.ErrCustomerNotFound
	}
	r.customers[customer.ID()] = toCustomerRow(customer)
	return nil
}

func (r *customerRepositoryInMemory) Find(id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return row.restore(id)
}

func (r *customerRepositoryInMemory) FindAll() ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.customers))
	for id := range r.customers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]*domain.Customer, 0, len(ids))
	for _, id := range ids {
		customer, err := r.customers[id].restore(id)
		if err != nil {
			return nil, err
		}
		result = append(result, customer)
	}
	return result, nil
}

func toCustomerRow(c *domain.Customer) customerRow {
	row := customerRow{
		name:         c.Name(),
		active:       c.IsActive(),
		rewardPoints: c.RewardPoints(),
	}
	if addr, ok := c.Address(); ok {
		row.address = &addr
	}
	return row
}

func (row customerRow) restore(id string) (*domain.Customer, error) {
	customer, err := domain.NewCustomer(id, row.name)
	if err != nil {
		return nil, err
	}
	if row.address != nil {
		customer.ChangeAddress(*row.address)
	}
	if row.active {
		if err := customer.Activate(); err != nil {
			return nil, err
		}
	}
	if err := customer.AddRewardPoints(row.rewardPoints); err != nil {
		return nil, err
	}
	return customer, nil
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
