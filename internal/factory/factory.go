package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/pickupgames/internal/api"
	"github.com/mcoot/pickupgames/internal/api/sse"
	"github.com/mcoot/pickupgames/internal/dependencies/clock"
	"github.com/mcoot/pickupgames/internal/dependencies/ids"
	"github.com/mcoot/pickupgames/internal/kv"
	"github.com/mcoot/pickupgames/internal/kv/memory"
	"github.com/mcoot/pickupgames/internal/kv/postgres"
	redisstorage "github.com/mcoot/pickupgames/internal/kv/redis"
	"github.com/mcoot/pickupgames/internal/kv/sqlite"
	"github.com/mcoot/pickupgames/internal/metrics"
	"github.com/mcoot/pickupgames/internal/services/auth"
	"github.com/mcoot/pickupgames/internal/services/events"
	"github.com/mcoot/pickupgames/internal/services/expiry"
	"github.com/mcoot/pickupgames/internal/services/joins"
	"github.com/mcoot/pickupgames/internal/store"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeSQLite   = "sqlite"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// DefaultSQLitePath is the database file used when SQLitePath is empty
const DefaultSQLitePath = "pickup.db"

// App contains all wired application components
type App struct {
	// Storage
	KV    kv.Store
	Store *store.Store

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Services
	Metrics      *metrics.Metrics
	Sweeper      *expiry.Sweeper
	AuthService  *auth.Service
	EventService *events.Service
	JoinService  *joins.Service
	Hub          *sse.Hub

	logger      *slog.Logger
	unsubscribe func()
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the KV backend: memory, sqlite, redis or postgres
	// If empty, defaults to "sqlite" so state survives restarts
	StorageType string
	// SQLitePath is the database file for the sqlite backend
	// If empty, defaults to DefaultSQLitePath
	SQLitePath string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresDSN is the connection string (required if StorageType is "postgres")
	PostgresDSN string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
}

// New opens the configured KV store, hydrates the entity store from it and
// wires every service
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	backing, err := openKV(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app, err := newWithDependencies(ctx, backing, clock.New(), ids.New(), cfg.AuthConfig, logger)
	if err != nil {
		_ = backing.Close()
		return nil, err
	}
	return app, nil
}

// ResolvedStorageType returns the backend New will open
func (c Config) ResolvedStorageType() string {
	if c.StorageType == "" {
		return StorageTypeSQLite
	}
	return c.StorageType
}

func openKV(ctx context.Context, cfg Config) (kv.Store, error) {
	switch cfg.ResolvedStorageType() {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = DefaultSQLitePath
		}
		return sqlite.New(ctx, path)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("PostgresDSN required when StorageType is postgres")
		}
		return postgres.New(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, sqlite, redis or postgres", cfg.StorageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	ctx context.Context,
	backing kv.Store,
	clk clock.Clock,
	gen ids.Generator,
	authCfg auth.Config,
	logger *slog.Logger,
) (*App, error) {
	st, err := store.Open(ctx, backing, logger.With(slog.String("component", "store")))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	m := metrics.New()
	sweeper := expiry.New(st, clk, m, logger)
	hub := sse.NewHub(logger)
	go hub.Run()

	unsubscribe := st.Subscribe(func(c store.Change) {
		m.SetRevision(c.Revision)
		hub.Publish(c)
	})

	return &App{
		KV:           backing,
		Store:        st,
		Clock:        clk,
		IDs:          gen,
		Metrics:      m,
		Sweeper:      sweeper,
		AuthService:  auth.New(st, clk, gen, m, logger, authCfg),
		EventService: events.New(st, sweeper, clk, gen, m, logger),
		JoinService:  joins.New(st, sweeper, clk, gen, m, logger),
		Hub:          hub,
		logger:       logger,
		unsubscribe:  unsubscribe,
	}, nil
}

// Router builds the HTTP API for this app
func (a *App) Router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:       a.logger,
		Store:        a.Store,
		AuthService:  a.AuthService,
		EventService: a.EventService,
		JoinService:  a.JoinService,
		Hub:          a.Hub,
		Metrics:      a.Metrics,
	})
}

// Close flushes the store, disconnects change stream clients and closes the KV store
func (a *App) Close(ctx context.Context) error {
	a.unsubscribe()
	a.Hub.Close()
	storeErr := a.Store.Close(ctx)
	kvErr := a.KV.Close()
	return errors.Join(storeErr, kvErr)
}
