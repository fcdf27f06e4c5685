package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/coophost-go/internal/dependencies/clock"
	"github.com/mcoot/coophost-go/internal/engine"
	"github.com/mcoot/coophost-go/internal/services/activity"
	"github.com/mcoot/coophost-go/internal/services/authz"
	"github.com/mcoot/coophost-go/internal/services/barrier"
	"github.com/mcoot/coophost-go/internal/services/chat"
	"github.com/mcoot/coophost-go/internal/services/nettuner"
	"github.com/mcoot/coophost-go/internal/services/session"
	"github.com/mcoot/coophost-go/internal/services/status"
	"github.com/mcoot/coophost-go/internal/storage"
	"github.com/mcoot/coophost-go/internal/storage/memory"
	redisstorage "github.com/mcoot/coophost-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired control-plane components
type App struct {
	// Storage
	Storage storage.Store

	// External dependencies
	Clock clock.Clock

	// Components
	Authz     *authz.Service
	Router    *chat.Router
	Scheduler *activity.Scheduler
	Tuner     *nettuner.Tuner
	Publisher *status.Publisher
	Monitor   *barrier.Monitor
	Manager   *session.Manager
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// MaxPlayers is the participant limit the tuner holds the session at
	MaxPlayers int
	// Version is the reported server version string
	Version string
	// StatusFile, when set, receives a JSON snapshot on every publish
	StatusFile string
	// Barrier overrides the day-transition timeouts (optional)
	Barrier barrier.Config
	// Session holds session manager settings
	Session session.Config
}

// New creates an application with all components wired around the given
// engine
func New(eng engine.Engine, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(eng, store, clock.New(), cfg, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(eng engine.Engine, store storage.Store, clk clock.Clock, cfg Config, logger *slog.Logger) (*App, error) {
	authzService := authz.New(store, logger)
	router := chat.New(eng, logger)
	scheduler := activity.New(logger)
	tuner := nettuner.New(eng, cfg.MaxPlayers, logger)
	monitor := barrier.New(eng, clk, cfg.Barrier, logger)

	var sinks []status.Sink
	if cfg.StatusFile != "" {
		sinks = append(sinks, status.NewFileSink(cfg.StatusFile))
	}
	publisher := status.New(eng, store, cfg.Version, logger, sinks...)

	// Activity registration order is invocation order
	scheduler.Register(tuner)
	scheduler.Register(publisher)

	manager, err := session.New(eng, authzService, router, scheduler, monitor, publisher, clk, cfg.Session, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:   store,
		Clock:     clk,
		Authz:     authzService,
		Router:    router,
		Scheduler: scheduler,
		Tuner:     tuner,
		Publisher: publisher,
		Monitor:   monitor,
		Manager:   manager,
	}, nil
}
