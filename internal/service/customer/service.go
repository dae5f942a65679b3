// Package customer содержит сценарии работы с клиентами: регистрацию,
// смену адреса и активацию. После сохранения публикуются доменные события.
package customer

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
	"github.com/vladislavdragonenkov/ordering/internal/event"
)

// Notifier публикует доменные события (обычно *event.Dispatcher).
type Notifier interface {
	Notify(e event.Event) error
}

// Service управляет клиентами.
type Service struct {
	customers domain.CustomerRepository
	events    Notifier
	logger    *log.Entry
	now       func() time.Time
}

func NewService(customers domain.CustomerRepository, events Notifier, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "customer_service")
	}
	return &Service{
		customers: customers,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// Create регистрирует клиента и публикует CustomerCreated.
func (s *Service) Create(id, name string) (*domain.Customer, error) {
	customer, err := domain.NewCustomer(id, name)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Create(customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.logger.WithField("customer_id", id).Info("customer created")
	if err := s.notify(event.CustomerCreated{ID: id, CustomerName: name, At: s.now()}); err != nil {
		return customer, err
	}
	return customer, nil
}

// ChangeAddress меняет адрес и публикует CustomerAddressChanged.
func (s *Service) ChangeAddress(id string, address domain.Address) (*domain.Customer, error) {
	customer, err := s.customers.Find(id)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	customer.ChangeAddress(address)
	if err := s.customers.Update(customer); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}

	err = s.notify(event.CustomerAddressChanged{
		ID:           customer.ID(),
		CustomerName: customer.Name(),
		Address:      address.String(),
		At:           s.now(),
	})
	return customer, err
}

// Activate включает клиента; без адреса возвращает domain.ErrCustomerAddressRequired.
func (s *Service) Activate(id string) (*domain.Customer, error) {
	customer, err := s.customers.Find(id)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if err := customer.Activate(); err != nil {
		return nil, err
	}
	if err := s.customers.Update(customer); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return customer, nil
}

func (s *Service) Get(id string) (*domain.Customer, error) {
	return s.customers.Find(id)
}

func (s *Service) List() ([]*domain.Customer, error) {
	return s.customers.FindAll()
}

// notify доставляет событие; ошибка обработчика не откатывает сохранённое состояние.
func (s *Service) notify(e event.Event) error {
	if s.events == nil {
		return nil
	}
	if err := s.events.Notify(e); err != nil {
		s.logger.WithError(err).WithField("event", e.Name()).Warn("event delivery failed")
		return fmt.Errorf("notify %s: %w", e.Name(), err)
	}
	return nil
}
