package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordering/internal/app"
	"github.com/vladislavdragonenkov/ordering/internal/version"
)

// loadConfig читает конфигурацию из файла (флаг -config) и ORDERING_* переменных.
func loadConfig(args []string) (app.Config, error) {
	fs := flag.NewFlagSet("order-service", flag.ContinueOnError)
	path := fs.String("config", "", "path to config file (yaml|json|toml|env)")
	demo := fs.Bool("demo", false, "seed demo catalog, customer and order on start")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, err
	}

	cfg, err := app.LoadConfig(*path)
	if err != nil {
		return app.Config{}, err
	}
	if *demo {
		cfg.Demo = true
	}
	return cfg, nil
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.WithError(err).Fatal("не удалось загрузить конфигурацию")
	}
	if err := app.ConfigureLogger(cfg); err != nil {
		log.WithError(err).Fatal("не удалось настроить логирование")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"metrics_addr":   cfg.MetricsAddr,
		"storage_driver": cfg.StorageDriver,
		"version":        version.String(),
	}).Info("запускаем OrderService")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("OrderService остановлен")
}
