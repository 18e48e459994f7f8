package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jo-hoe/peoplesearch/internal/backend/database"
)

// AvatarObserver is notified about the outcome of every avatar write.
type AvatarObserver interface {
	ObserveAvatarWrite(outcome string)
}

// Avatar write outcomes reported to the AvatarObserver.
const (
	OutcomeCreated  = "created"
	OutcomeUpdated  = "updated"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

type noopObserver struct{}

func (noopObserver) ObserveAvatarWrite(string) {}

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	locks           *keyLock
	observer        AvatarObserver
}

type Option func(*CoreService)

// WithAvatarObserver registers an observer for avatar write outcomes.
func WithAvatarObserver(o AvatarObserver) Option {
	return func(s *CoreService) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewCoreService opens the configured database and seeds it when enabled.
func NewCoreService(ctx context.Context, config *ServiceConfig, opts ...Option) (*CoreService, error) {
	databaseService, err := getDatabaseService(ctx, config)
	if err != nil {
		return nil, err
	}
	service := NewCoreServiceWithDatabase(databaseService, opts...)
	service.config = config

	if config.Seed {
		if err := service.SeedDefaults(ctx); err != nil {
			_ = databaseService.Close()
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}
	return service, nil
}

// NewCoreServiceWithDatabase wraps an already initialised database.
func NewCoreServiceWithDatabase(databaseService database.DatabaseService, opts ...Option) *CoreService {
	service := &CoreService{
		databaseService: databaseService,
		locks:           newKeyLock(),
		observer:        noopObserver{},
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Ready reports whether the backing database is reachable.
func (service *CoreService) Ready() bool {
	return service.databaseService.DoesDatabaseExist()
}

func (service *CoreService) Close() error {
	return service.databaseService.Close()
}

// withTransaction runs fn in a unit of work and commits when fn succeeds.
func (service *CoreService) withTransaction(ctx context.Context, fn func(tx database.Transaction) error) (err error) {
	tx, err := service.databaseService.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("failed to roll back transaction", "error", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func getDatabaseService(ctx context.Context, config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(ctx, config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

// isBlank reports whether s is empty or consists only of whitespace.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
