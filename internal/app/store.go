// Package app assembles the service's components from configuration. Both
// the HTTP server and the opsctl CLI build on it.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ledgerdesk/backoffice/internal/config"
	"github.com/ledgerdesk/backoffice/internal/persistence"
	"github.com/ledgerdesk/backoffice/internal/repository"
	"github.com/ledgerdesk/backoffice/internal/repository/gormrepo"
)

// Store bundles the repositories of the configured backend.
type Store struct {
	Backend   string
	Companies repository.CompanyRepository
	Users     repository.UserRepository
	Tickets   repository.TicketRepository

	pg   *persistence.Postgres
	gorm *persistence.Gorm
}

// OpenStore connects the backend named by cfg.Store.Backend.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Store.Backend {
	case config.BackendPgx:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		pool := pg.PoolHandle()
		return &Store{
			Backend:   cfg.Store.Backend,
			Companies: repository.NewCompanyRepository(pool),
			Users:     repository.NewUserRepository(pool),
			Tickets:   repository.NewTicketRepository(pool),
			pg:        pg,
		}, nil
	case config.BackendGorm:
		g, err := persistence.NewGorm(cfg, logger)
		if err != nil {
			return nil, err
		}
		return &Store{
			Backend:   cfg.Store.Backend,
			Companies: gormrepo.NewCompanyRepository(g.DB),
			Users:     gormrepo.NewUserRepository(g.DB),
			Tickets:   gormrepo.NewTicketRepository(g.DB),
			gorm:      g,
		}, nil
	}
	return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
}

// Migrate applies SQL migrations from dir (pgx) or runs AutoMigrate (gorm).
func (s *Store) Migrate(ctx context.Context, dir string, logger *zap.Logger) error {
	if s.pg != nil {
		return persistence.RunMigrations(ctx, s.pg.PoolHandle(), dir, logger)
	}
	if err := gormrepo.Migrate(s.gorm.DB.WithContext(ctx)); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("schema auto-migrated")
	return nil
}

// Ping checks connectivity of the underlying database.
func (s *Store) Ping(ctx context.Context) error {
	if s.pg != nil {
		return s.pg.Ping(ctx)
	}
	return s.gorm.Ping(ctx)
}

// Close releases connections.
func (s *Store) Close() {
	if s.pg != nil {
		s.pg.Close()
	}
	s.gorm.Close()
}
