package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ledgerdesk/backoffice/internal/config"
)

// Gorm wraps an ORM handle bound to the configured dialect.
type Gorm struct {
	DB *gorm.DB
}

// NewGorm opens the ORM connection for cfg.Store.Dialect.
func NewGorm(cfg config.Config, logger *zap.Logger) (*Gorm, error) {
	var dialector gorm.Dialector
	switch cfg.Store.Dialect {
	case config.DialectPostgres:
		if cfg.Postgres.DSN == "" {
			return nil, errors.New("POSTGRES_DSN is required for the postgres dialect")
		}
		dialector = postgres.Open(cfg.Postgres.DSN)
	case config.DialectSQLite:
		dialector = sqlite.Open(cfg.Store.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", cfg.Store.Dialect)
	}

	db, err := OpenGorm(dialector)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database via gorm", zap.String("dialect", cfg.Store.Dialect))
	return db, nil
}

// OpenGorm opens a silent ORM handle on dialector and checks connectivity.
func OpenGorm(dialector gorm.Dialector) (*Gorm, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	if err := db.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("gorm ping: %w", err)
	}
	return &Gorm{DB: db}, nil
}

// Ping verifies database connectivity.
func (g *Gorm) Ping(ctx context.Context) error {
	if g == nil || g.DB == nil {
		return errors.New("gorm handle not configured")
	}
	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (g *Gorm) Close() {
	if g == nil || g.DB == nil {
		return
	}
	if sqlDB, err := g.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
