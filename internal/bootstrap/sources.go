// Package bootstrap builds the backing sources selected by configuration.
// It is shared by the API server and driverctl so both talk to the same store
// the same way.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/fleetbook/driverapp/internal/auth"
	"github.com/fleetbook/driverapp/internal/config"
	"github.com/fleetbook/driverapp/internal/fleetapi"
	"github.com/fleetbook/driverapp/internal/repo"
	"github.com/fleetbook/driverapp/internal/service"
	"github.com/fleetbook/driverapp/migrations"
)

// Sources bundles one implementation of every source interface.
type Sources struct {
	Trips         service.TripSource
	Ledger        service.LedgerSource
	Session       service.SessionSource
	Notifications service.NotificationSource

	// Pool is set for the postgres source only.
	Pool *pgxpool.Pool
}

// Close releases any connections held by the sources.
func (s *Sources) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// NewDriverApp builds a DriverApp over these sources.
func (s *Sources) NewDriverApp(now func() time.Time) *service.DriverApp {
	return service.NewDriverApp(s.Trips, s.Ledger, s.Session, now)
}

// Open connects to the source named by cfg.Source. For postgres it verifies
// the connection and, when cfg.MigrateOnStart is set, applies pending
// migrations before returning.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (*Sources, error) {
	switch cfg.Source {
	case config.SourceREST:
		client, err := fleetapi.New(cfg.FleetAPIURL, cfg.FleetAPITimeout)
		if err != nil {
			return nil, fmt.Errorf("bootstrap.Open: %w", err)
		}
		log.InfoContext(ctx, "using fleet REST source", "url", cfg.FleetAPIURL)
		return &Sources{Trips: client, Ledger: client, Session: client, Notifications: client}, nil

	case config.SourcePostgres:
		// New() does not open connections immediately; Ping does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("bootstrap.Open: create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("bootstrap.Open: ping: %w", err)
		}
		log.InfoContext(ctx, "database connection established")

		if cfg.MigrateOnStart {
			if err := Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &Sources{
			Trips:         repo.NewTripRepo(pool),
			Ledger:        repo.NewLedgerRepo(pool),
			Session:       auth.NewSession(repo.NewUserRepo(pool)),
			Notifications: repo.NewNotificationRepo(pool),
			Pool:          pool,
		}, nil

	default:
		return nil, fmt.Errorf("bootstrap.Open: unknown source %q", cfg.Source)
	}
}

// Migrate applies pending migrations through a database/sql handle on pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	applied, err := migrations.Up(ctx, db)
	if err != nil {
		return fmt.Errorf("bootstrap.Migrate: %w", err)
	}
	log.InfoContext(ctx, "migrations applied", "versions", applied)
	return nil
}
