package order_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
	"github.com/vladislavdragonenkov/ordering/internal/event"
	"github.com/vladislavdragonenkov/ordering/internal/service/order"
	"github.com/vladislavdragonenkov/ordering/internal/storage/memory"
)

type fixture struct {
	repos    order.Repositories
	dispatch *event.Dispatcher
	svc      *order.Service
	placed   []event.OrderPlaced
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repos: order.Repositories{
			Orders:    memory.NewOrderRepository(),
			Customers: memory.NewCustomerRepository(),
			Products:  memory.NewProductRepository(),
		},
		dispatch: event.NewDispatcher(),
	}
	f.dispatch.Register(event.NameOrderPlaced, event.On(func(e event.OrderPlaced) error {
		f.placed = append(f.placed, e)
		return nil
	}))
	f.svc = order.NewService(f.repos, f.dispatch, nil)

	c, err := domain.NewCustomer("c1", "Customer 1")
	require.NoError(t, err)
	require.NoError(t, f.repos.Customers.Create(c))

	for id, price := range map[string]int64{"p1": 100, "p2": 150} {
		p, err := domain.NewProduct(id, "Product "+id, decimal.NewFromInt(price))
		require.NoError(t, err)
		require.NoError(t, f.repos.Products.Create(p))
	}
	return f
}

func TestService_PlaceCreditsRewardPointsAndNotifies(t *testing.T) {
	f := newFixture(t)

	placed, err := f.svc.Place("c1", []order.ItemRequest{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	})
	require.NoError(t, err)
	assert.True(t, placed.Total().Equal(decimal.NewFromInt(350)))

	items := placed.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Product p1", items[0].Name())
	assert.Equal(t, "p2", items[1].ProductID())

	stored, err := f.svc.Get(placed.ID())
	require.NoError(t, err)
	assert.True(t, stored.Equal(placed))

	customer, err := f.repos.Customers.Find("c1")
	require.NoError(t, err)
	assert.Equal(t, 175, customer.RewardPoints())

	require.Len(t, f.placed, 1)
	assert.Equal(t, placed.ID(), f.placed[0].OrderID)
	assert.Equal(t, 2, f.placed[0].Items)
	assert.True(t, f.placed[0].Total.Equal(decimal.NewFromInt(350)))
}

func TestService_PlaceFailuresDoNotPersist(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Place("c1", nil)
	require.ErrorIs(t, err, order.ErrNoItems)

	_, err = f.svc.Place("ghost", []order.ItemRequest{{ProductID: "p1", Quantity: 1}})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)

	_, err = f.svc.Place("c1", []order.ItemRequest{{ProductID: "missing", Quantity: 1}})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = f.svc.Place("c1", []order.ItemRequest{{ProductID: "p1", Quantity: 0}})
	require.ErrorIs(t, err, domain.ErrItemQtyInvalid)

	all, err := f.svc.List()
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.placed)
}

func TestService_PlaceReturnsHandlerError(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("projection failed")
	f.dispatch.Register(event.NameOrderPlaced, event.On(func(event.OrderPlaced) error { return boom }))

	placed, err := f.svc.Place("c1", []order.ItemRequest{{ProductID: "p1", Quantity: 1}})
	require.ErrorIs(t, err, boom)
	require.NotNil(t, placed)

	_, err = f.svc.Get(placed.ID())
	require.NoError(t, err, "order stays persisted when a handler fails")
}

func TestService_AddItemsUpdatesOrder(t *testing.T) {
	f := newFixture(t)

	placed, err := f.svc.Place("c1", []order.ItemRequest{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)

	updated, err := f.svc.AddItems(placed.ID(), []order.ItemRequest{{ProductID: "p2", Quantity: 2}})
	require.NoError(t, err)
	assert.True(t, updated.Total().Equal(decimal.NewFromInt(400)))

	stored, err := f.svc.Get(placed.ID())
	require.NoError(t, err)
	require.Len(t, stored.Items(), 2)
	assert.True(t, stored.Equal(updated))

	revenue, err := f.svc.Revenue()
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.NewFromInt(400)))

	_, err = f.svc.AddItems("ghost", []order.ItemRequest{{ProductID: "p2", Quantity: 1}})
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}
