package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/ordering/internal/health"
	ordersvc "github.com/vladislavdragonenkov/ordering/internal/service/order"
	"github.com/vladislavdragonenkov/ordering/internal/version"
)

// Run поднимает зависимости и HTTP-сервер метрик/health и работает до отмены ctx.
// При отмене возвращает ctx.Err().
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	if cfg.Demo {
		if err := seedDemo(deps); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", deps.StorageChecker)

	srv := newHTTPServer(cfg.MetricsAddr, healthHandler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("метрики доступны по адресу %s/metrics", cfg.MetricsAddr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", cfg.MetricsAddr, cfg.MetricsAddr, cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(srv, logger, cfg.ShutdownTimeout)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// newHTTPServer собирает mux с /metrics, /healthz, /livez и /readyz.
func newHTTPServer(addr string, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry, timeout time.Duration) {
	if srv == nil {
		return
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}

// seedDemo прогоняет сквозной сценарий через сервисы: товары, клиент с адресом, заказ.
func seedDemo(deps *Dependencies) error {
	if _, err := deps.ProductService.Create("p1", "Product 1", "Demo product", decimal.NewFromInt(100)); err != nil {
		return err
	}
	if _, err := deps.ProductService.Create("p2", "Product 2", "Demo product", decimal.NewFromInt(150)); err != nil {
		return err
	}

	if _, err := deps.CustomerService.Create("c1", "Customer 1"); err != nil {
		return err
	}
	addr, err := domain.NewAddress("Street 1", 123, "13330-250", "São Paulo")
	if err != nil {
		return err
	}
	if _, err := deps.CustomerService.ChangeAddress("c1", addr); err != nil {
		return err
	}
	if _, err := deps.CustomerService.Activate("c1"); err != nil {
		return err
	}

	order, err := deps.OrderService.Place("c1", []ordersvc.ItemRequest{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	})
	if err != nil {
		return err
	}

	deps.Logger.WithFields(log.Fields{
		"order_id": order.ID(),
		"total":    order.Total().String(),
	}).Info("demo data seeded")
	return nil
}
