package customer_test

import (
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
	"github.com/vladislavdragonenkov/ordering/internal/event"
	"github.com/vladislavdragonenkov/ordering/internal/event/handler"
	"github.com/vladislavdragonenkov/ordering/internal/service/customer"
	"github.com/vladislavdragonenkov/ordering/internal/storage/memory"
)

func infoMessages(hook *test.Hook) []string {
	var messages []string
	for _, e := range hook.AllEntries() {
		if e.Level == log.InfoLevel && e.Data["handler"] != nil {
			messages = append(messages, e.Message)
		}
	}
	return messages
}

func TestService_CreateNotifiesHandlersInOrder(t *testing.T) {
	logger, hook := test.NewNullLogger()
	entry := log.NewEntry(logger)

	d := event.NewDispatcher(event.WithLogger(entry))
	d.Register(event.NameCustomerCreated, handler.NewLogOneWhenCustomerIsCreated(entry))
	d.Register(event.NameCustomerCreated, handler.NewLogTwoWhenCustomerIsCreated(entry))

	repo := memory.NewCustomerRepository()
	svc := customer.NewService(repo, d, entry)

	created, err := svc.Create("c1", "Customer 1")
	require.NoError(t, err)
	assert.Equal(t, "c1", created.ID())

	stored, err := repo.Find("c1")
	require.NoError(t, err)
	assert.Equal(t, "Customer 1", stored.Name())

	assert.Equal(t, []string{
		"first log line for event: CustomerCreated",
		"second log line for event: CustomerCreated",
	}, infoMessages(hook))
}

func TestService_CreateInvalidDoesNotNotify(t *testing.T) {
	d := event.NewDispatcher()
	calls := 0
	d.Register(event.NameCustomerCreated, event.On(func(event.CustomerCreated) error {
		calls++
		return nil
	}))
	svc := customer.NewService(memory.NewCustomerRepository(), d, nil)

	_, err := svc.Create("c1", "")
	require.ErrorIs(t, err, domain.ErrCustomerNameRequired)

	_, err = svc.Create("c1", "Customer 1")
	require.NoError(t, err)
	_, err = svc.Create("c1", "Customer 1")
	require.ErrorIs(t, err, domain.ErrCustomerAlreadyExists)

	assert.Equal(t, 1, calls)
}

func TestService_ChangeAddressPublishesAddress(t *testing.T) {
	logger, hook := test.NewNullLogger()
	entry := log.NewEntry(logger)

	d := event.NewDispatcher(event.WithLogger(entry))
	d.Register(event.NameCustomerAddressChanged, handler.NewLogWhenCustomerAddressIsChanged(entry))

	var got event.CustomerAddressChanged
	d.Register(event.NameCustomerAddressChanged, event.On(func(e event.CustomerAddressChanged) error {
		got = e
		return nil
	}))

	repo := memory.NewCustomerRepository()
	svc := customer.NewService(repo, d, entry)
	_, err := svc.Create("c1", "Customer 1")
	require.NoError(t, err)

	addr, err := domain.NewAddress("Street 1", 123, "13330-250", "São Paulo")
	require.NoError(t, err)
	updated, err := svc.ChangeAddress("c1", addr)
	require.NoError(t, err)

	storedAddr, ok := updated.Address()
	require.True(t, ok)
	assert.Equal(t, addr, storedAddr)
	assert.Equal(t, "c1", got.ID)
	assert.Equal(t, "Street 1, 123, 13330-250 São Paulo", got.Address)
	assert.Equal(t, []string{
		"customer address: c1, Customer 1 changed to: Street 1, 123, 13330-250 São Paulo",
	}, infoMessages(hook))

	_, err = svc.ChangeAddress("ghost", addr)
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestService_HandlerErrorIsReturnedAfterPersist(t *testing.T) {
	d := event.NewDispatcher()
	boom := errors.New("mailer down")
	d.Register(event.NameCustomerCreated, event.On(func(event.CustomerCreated) error { return boom }))

	repo := memory.NewCustomerRepository()
	svc := customer.NewService(repo, d, nil)

	created, err := svc.Create("c1", "Customer 1")
	require.ErrorIs(t, err, boom)
	require.NotNil(t, created)

	_, err = repo.Find("c1")
	require.NoError(t, err, "persisted customer must stay after handler failure")
}

func TestService_Activate(t *testing.T) {
	svc := customer.NewService(memory.NewCustomerRepository(), nil, nil)
	_, err := svc.Create("c1", "Customer 1")
	require.NoError(t, err)

	_, err = svc.Activate("c1")
	require.ErrorIs(t, err, domain.ErrCustomerAddressRequired)

	addr, err := domain.NewAddress("Street 1", 1, "00000", "City")
	require.NoError(t, err)
	_, err = svc.ChangeAddress("c1", addr)
	require.NoError(t, err)

	activated, err := svc.Activate("c1")
	require.NoError(t, err)
	assert.True(t, activated.IsActive())

	all, err := svc.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsActive())
}
