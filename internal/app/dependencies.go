package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
	"github.com/vladislavdragonenkov/ordering/internal/event"
	"github.com/vladislavdragonenkov/ordering/internal/event/handler"
	healthcheck "github.com/vladislavdragonenkov/ordering/internal/health"
	"github.com/vladislavdragonenkov/ordering/internal/metrics"
	customersvc "github.com/vladislavdragonenkov/ordering/internal/service/customer"
	ordersvc "github.com/vladislavdragonenkov/ordering/internal/service/order"
	productsvc "github.com/vladislavdragonenkov/ordering/internal/service/product"
	"github.com/vladislavdragonenkov/ordering/internal/storage/gormstore"
	"github.com/vladislavdragonenkov/ordering/internal/storage/memory"
	"github.com/vladislavdragonenkov/ordering/internal/storage/postgres"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Orders    domain.OrderRepository
	Customers domain.CustomerRepository
	Products  domain.ProductRepository
	Journal   domain.JournalRepository

	Dispatcher *event.Dispatcher

	CustomerService *customersvc.Service
	ProductService  *productsvc.Service
	OrderService    *ordersvc.Service

	StorageChecker healthcheck.Checker
	Logger         *log.Entry

	closeFn func() error
}

type storageBundle struct {
	orders    domain.OrderRepository
	customers domain.CustomerRepository
	products  domain.ProductRepository
	journal   domain.JournalRepository
	checker   healthcheck.Checker
	closeFn   func() error
}

// NewDependencies собирает хранилище, диспетчер событий с обработчиками и сервисы.
// registerer=nil означает prometheus.DefaultRegisterer.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry, registerer prometheus.Registerer) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	dispatcher := event.NewDispatcher(
		event.WithLogger(logger.WithField("component", "event_dispatcher")),
		event.WithObserver(metrics.NewDispatcherMetricsWithRegisterer(registerer)),
	)
	registerHandlers(dispatcher, storage.journal, logger)

	return &Dependencies{
		Orders:     storage.orders,
		Customers:  storage.customers,
		Products:   storage.products,
		Journal:    storage.journal,
		Dispatcher: dispatcher,

		CustomerService: customersvc.NewService(storage.customers, dispatcher, logger.WithField("layer", "customer")),
		ProductService:  productsvc.NewService(storage.products, dispatcher, logger.WithField("layer", "product")),
		OrderService: ordersvc.NewService(ordersvc.Repositories{
			Orders:    storage.orders,
			Customers: storage.customers,
			Products:  storage.products,
		}, dispatcher, logger.WithField("layer", "order")),

		StorageChecker: storage.checker,
		Logger:         logger,
		closeFn:        storage.closeFn,
	}, nil
}

// Close освобождает подключение к хранилищу.
func (d *Dependencies) Close() error {
	if d == nil || d.closeFn == nil {
		return nil
	}
	return d.closeFn()
}

// registerHandlers подписывает обработчики. Порядок регистрации определяет порядок доставки:
// журнал пишется последним, после побочных эффектов.
func registerHandlers(d *event.Dispatcher, journal domain.JournalRepository, logger *log.Entry) {
	d.Register(event.NameProductCreated, handler.NewSendEmailWhenProductIsCreated(logger))
	d.Register(event.NameCustomerCreated, handler.NewLogOneWhenCustomerIsCreated(logger))
	d.Register(event.NameCustomerCreated, handler.NewLogTwoWhenCustomerIsCreated(logger))
	d.Register(event.NameCustomerAddressChanged, handler.NewLogWhenCustomerAddressIsChanged(logger))

	recorder := handler.NewRecordJournal(journal, logger)
	for _, name := range event.Names() {
		d.Register(name, recorder)
	}
}

func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*storageBundle, error) {
	switch cfg.StorageDriver {
	case "", StorageDriverMemory:
		logger.Info("using in-memory storage")
		return &storageBundle{
			orders:    memory.NewOrderRepository(),
			customers: memory.NewCustomerRepository(),
			products:  memory.NewProductRepository(),
			journal:   memory.NewJournalRepository(),
			checker:   healthcheck.NewSimpleChecker("storage", func() error { return nil }),
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("postgres_dsn is required for postgres storage")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("init postgres storage: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("ensure postgres schema: %w", err)
			}
		}
		logger.Info("using postgres storage")
		return &storageBundle{
			orders:    postgres.NewOrderRepository(store),
			customers: postgres.NewCustomerRepository(store),
			products:  postgres.NewProductRepository(store),
			journal:   postgres.NewJournalRepository(store),
			checker:   healthcheck.NewPingChecker("storage", store, 0),
			closeFn:   store.Close,
		}, nil

	case StorageDriverGorm:
		store, err := gormstore.Open(cfg.GormDialect, cfg.GormDSN, logger.WithField("component", "gorm"))
		if err != nil {
			return nil, fmt.Errorf("init gorm storage: %w", err)
		}
		if err := store.AutoMigrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("migrate gorm storage: %w", err)
		}
		logger.WithField("dialect", cfg.GormDialect).Info("using gorm storage")
		return &storageBundle{
			orders:    gormstore.NewOrderRepository(store),
			customers: gormstore.NewCustomerRepository(store),
			products:  gormstore.NewProductRepository(store),
			journal:   gormstore.NewJournalRepository(store),
			checker:   healthcheck.NewPingChecker("storage", store, 0),
			closeFn:   store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}
