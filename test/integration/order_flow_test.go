package integration

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/ordering/internal/app"
	"github.com/vladislavdragonenkov/ordering/internal/domain"
	"github.com/vladislavdragonenkov/ordering/internal/event"
	ordersvc "github.com/vladislavdragonenkov/ordering/internal/service/order"
	"github.com/vladislavdragonenkov/ordering/internal/storage/gormstore"
)

var dbSeq atomic.Int64

// OrderFlowTestSuite прогоняет сквозной сценарий через собранное приложение
// для заданного драйвера хранилища.
type OrderFlowTestSuite struct {
	suite.Suite
	cfg  app.Config
	deps *app.Dependencies
}

func (s *OrderFlowTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel)

	cfg := s.cfg
	if cfg.StorageDriver == app.StorageDriverGorm {
		cfg.GormDSN = fmt.Sprintf("file:integration_%d?mode=memory&cache=shared", dbSeq.Add(1))
	}

	deps, err := app.NewDependencies(context.Background(), cfg, baseLogger.WithField("component", "integration-test"), prometheus.NewRegistry())
	require.NoError(s.T(), err)
	s.deps = deps
}

func (s *OrderFlowTestSuite) TearDownTest() {
	require.NoError(s.T(), s.deps.Close())
}

func (s *OrderFlowTestSuite) seedCatalog() {
	_, err := s.deps.ProductService.Create("p1", "Product 1", "first", decimal.NewFromInt(100))
	require.NoError(s.T(), err)
	_, err = s.deps.ProductService.Create("p2", "Product 2", "second", decimal.NewFromInt(150))
	require.NoError(s.T(), err)
}

func (s *OrderFlowTestSuite) activeCustomer(id string) {
	_, err := s.deps.CustomerService.Create(id, "Customer "+id)
	require.NoError(s.T(), err)
	addr, err := domain.NewAddress("Street 1", 123, "13330-250", "São Paulo")
	require.NoError(s.T(), err)
	_, err = s.deps.CustomerService.ChangeAddress(id, addr)
	require.NoError(s.T(), err)
	_, err = s.deps.CustomerService.Activate(id)
	require.NoError(s.T(), err)
}

func (s *OrderFlowTestSuite) TestPlaceOrderAwardsPointsAndJournals() {
	s.seedCatalog()
	s.activeCustomer("c1")

	order, err := s.deps.OrderService.Place("c1", []ordersvc.ItemRequest{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	})
	require.NoError(s.T(), err)
	require.True(s.T(), order.Total().Equal(decimal.NewFromInt(350)))

	customer, err := s.deps.CustomerService.Get("c1")
	require.NoError(s.T(), err)
	require.Equal(s.T(), 175, customer.RewardPoints())
	require.True(s.T(), customer.IsActive())

	stored, err := s.deps.OrderService.Get(order.ID())
	require.NoError(s.T(), err)
	require.True(s.T(), order.Equal(stored))

	records, err := s.deps.Journal.List(order.ID())
	require.NoError(s.T(), err)
	require.Len(s.T(), records, 1)
	require.Equal(s.T(), string(event.NameOrderPlaced), records[0].EventName)

	customerRecords, err := s.deps.Journal.List("c1")
	require.NoError(s.T(), err)
	names := make([]string, 0, len(customerRecords))
	for _, record := range customerRecords {
		names = append(names, record.EventName)
	}
	require.ElementsMatch(s.T(), []string{
		string(event.NameCustomerCreated),
		string(event.NameCustomerAddressChanged),
	}, names)
}

func (s *OrderFlowTestSuite) TestAddItemsAndRevenue() {
	s.seedCatalog()
	s.activeCustomer("c1")

	order, err := s.deps.OrderService.Place("c1", []ordersvc.ItemRequest{{ProductID: "p1", Quantity: 1}})
	require.NoError(s.T(), err)

	updated, err := s.deps.OrderService.AddItems(order.ID(), []ordersvc.ItemRequest{{ProductID: "p2", Quantity: 2}})
	require.NoError(s.T(), err)
	require.Len(s.T(), updated.Items(), 2)

	stored, err := s.deps.OrderService.Get(order.ID())
	require.NoError(s.T(), err)
	require.Len(s.T(), stored.Items(), 2)
	require.Equal(s.T(), "p1", stored.Items()[0].ProductID())
	require.Equal(s.T(), "p2", stored.Items()[1].ProductID())

	revenue, err := s.deps.OrderService.Revenue()
	require.NoError(s.T(), err)
	require.True(s.T(), revenue.Equal(decimal.NewFromInt(400)), "revenue=%s", revenue)
}

func (s *OrderFlowTestSuite) TestPriceIncreaseKeepsOrderSnapshot() {
	s.seedCatalog()
	s.activeCustomer("c1")

	order, err := s.deps.OrderService.Place("c1", []ordersvc.ItemRequest{{ProductID: "p1", Quantity: 1}})
	require.NoError(s.T(), err)

	products, err := s.deps.ProductService.IncreasePrices(decimal.NewFromInt(10))
	require.NoError(s.T(), err)
	require.Len(s.T(), products, 2)

	p1, err := s.deps.ProductService.Get("p1")
	require.NoError(s.T(), err)
	require.True(s.T(), p1.Price().Equal(decimal.NewFromInt(110)), "price=%s", p1.Price())

	stored, err := s.deps.OrderService.Get(order.ID())
	require.NoError(s.T(), err)
	require.True(s.T(), stored.Total().Equal(decimal.NewFromInt(100)))
}

func (s *OrderFlowTestSuite) TestFailures() {
	s.seedCatalog()

	_, err := s.deps.OrderService.Place("missing", []ordersvc.ItemRequest{{ProductID: "p1", Quantity: 1}})
	require.ErrorIs(s.T(), err, domain.ErrCustomerNotFound)

	_, err = s.deps.CustomerService.Create("c2", "Customer 2")
	require.NoError(s.T(), err)
	_, err = s.deps.CustomerService.Activate("c2")
	require.ErrorIs(s.T(), err, domain.ErrCustomerAddressRequired)

	_, err = s.deps.OrderService.Place("c2", []ordersvc.ItemRequest{{ProductID: "nope", Quantity: 1}})
	require.ErrorIs(s.T(), err, domain.ErrProductNotFound)

	_, err = s.deps.OrderService.AddItems("missing-order", []ordersvc.ItemRequest{{ProductID: "p1", Quantity: 1}})
	require.ErrorIs(s.T(), err, domain.ErrOrderNotFound)

	_, err = s.deps.ProductService.Create("p1", "Duplicate", "", decimal.NewFromInt(1))
	require.ErrorIs(s.T(), err, domain.ErrProductAlreadyExists)

	orders, err := s.deps.OrderService.List()
	require.NoError(s.T(), err)
	require.Empty(s.T(), orders)
}

func TestOrderFlowInMemory(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.StorageDriver = app.StorageDriverMemory
	suite.Run(t, &OrderFlowTestSuite{cfg: cfg})
}

func TestOrderFlowGormSQLite(t *testing.T) {
	cfg := app.DefaultConfig()
	cfg.StorageDriver = app.StorageDriverGorm
	cfg.GormDialect = gormstore.DialectSQLite
	suite.Run(t, &OrderFlowTestSuite{cfg: cfg})
}
