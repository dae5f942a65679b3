// Package gormstore реализует порты хранения поверх GORM.
// Поддерживаются диалекты SQLite, PostgreSQL и MySQL; схема создаётся через AutoMigrate.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Поддерживаемые диалекты.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
)

const opTimeout = 5 * time.Second

// ErrUnsupportedDialect возвращается для неизвестного имени диалекта.
var ErrUnsupportedDialect = errors.New("unsupported gorm dialect")

var errStoreNotInitialized = errors.New("gorm store is not initialized")

// Store владеет подключением *gorm.DB.
type Store struct {
	db *gorm.DB
}

func dialector(dialect, dsn string) (gorm.Dialector, error) {
	switch dialect {
	case DialectSQLite:
		return sqlite.Open(dsn), nil
	case DialectPostgres:
		return postgres.Open(dsn), nil
	case DialectMySQL:
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}
}

// Open подключается к базе выбранного диалекта. SQL-лог GORM уходит в logger
// на уровне Warn (медленные запросы и ошибки).
func Open(dialect, dsn string, logger *log.Entry) (*Store, error) {
	d, err := dialector(dialect, dsn)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.WithField("component", "gormstore")
	}

	db, err := gorm.Open(d, &gorm.Config{
		TranslateError: true,
		Logger: gormLogger.New(logger, gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		// SQLite допускает одного писателя; in-memory база живёт, пока открыто соединение.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return &Store{db: db}, nil
}

// DB возвращает *gorm.DB для низкоуровневого доступа.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// AutoMigrate создаёт или обновляет таблицы моделей.
func (s *Store) AutoMigrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errStoreNotInitialized
	}
	if err := s.db.WithContext(ctx).AutoMigrate(
		&customerModel{},
		&productModel{},
		&orderModel{},
		&orderItemModel{},
		&journalModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errStoreNotInitialized
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}

// withTimeout возвращает сессию с дедлайном одной операции.
func (s *Store) withTimeout() (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	return s.db.WithContext(ctx), cancel
}

func exists(tx *gorm.DB, model any, id string) (bool, error) {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
