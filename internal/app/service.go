// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mergington/rollcall/internal/adapters/registry"
	"github.com/mergington/rollcall/internal/domain/catalog"
	"github.com/mergington/rollcall/internal/domain/model"
	"github.com/mergington/rollcall/pkg/logger"
	"github.com/mergington/rollcall/pkg/metrics"
)

// Service implements the API dependencies for the activity registry system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store registry.Store

	// Configuration
	seed            map[string]*model.Activity
	metricsInterval time.Duration

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore injects a pre-built store instead of the default in-memory one.
func WithStore(store registry.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithActivities overrides the seed activities loaded at startup.
func WithActivities(activities map[string]*model.Activity) Option {
	return func(s *Service) {
		if activities != nil {
			s.seed = activities
		}
	}
}

// WithMetricsUpdateInterval sets how often the store refreshes roster gauges.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.metricsInterval = interval
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		seed:   catalog.Default(),
		stopCh: make(chan struct{}),
		logger: nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting activity registry service...")

	// Initialize components
	if s.store == nil {
		storeOpts := []registry.Option{registry.WithActivities(s.seed)}
		if s.metricsInterval > 0 {
			storeOpts = append(storeOpts, registry.WithMetricsUpdateInterval(s.metricsInterval))
		}
		s.store = registry.NewMemStore(ctx, storeOpts...)
		s.logger.Info(ctx, "using in-memory store")
	}

	s.started = true
	s.logger.Info(ctx, "activity registry service started",
		logger.Int("activities", s.store.Count(ctx)),
		logger.Int("participants", s.store.Participants(ctx)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping activity registry service...")

	// Close the store
	if s.store != nil {
		if closer, ok := s.store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	// Signal cleanup to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "activity registry service stopped")
}

// getStore returns the store when the service is running, nil otherwise.
func (s *Service) getStore() registry.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil
	}
	return s.store
}

// ListActivities returns every activity keyed by name.
func (s *Service) ListActivities(ctx context.Context) (map[string]*model.Activity, error) {
	store := s.getStore()
	if store == nil {
		return nil, ErrNotStarted
	}
	return store.List(ctx)
}

// Signup registers an email for an activity.
func (s *Service) Signup(ctx context.Context, activity, email string) error {
	store := s.getStore()
	if store == nil {
		return ErrNotStarted
	}

	if err := store.Signup(ctx, activity, email); err != nil {
		metrics.RecordSignupRejection(rejectionReason(err))
		s.logger.Debug(ctx, "signup rejected",
			logger.String("activity", activity),
			logger.String("email", email),
			logger.Error(err),
		)
		return err
	}

	metrics.RecordSignup()
	s.logger.Info(ctx, "participant signed up",
		logger.String("activity", activity),
		logger.String("email", email),
	)
	return nil
}

// Unregister removes an email from an activity's roster.
func (s *Service) Unregister(ctx context.Context, activity, email string) error {
	store := s.getStore()
	if store == nil {
		return ErrNotStarted
	}

	if err := store.Unregister(ctx, activity, email); err != nil {
		metrics.RecordUnregisterRejection(rejectionReason(err))
		s.logger.Debug(ctx, "unregister rejected",
			logger.String("activity", activity),
			logger.String("email", email),
			logger.Error(err),
		)
		return err
	}

	metrics.RecordUnregister()
	s.logger.Info(ctx, "participant unregistered",
		logger.String("activity", activity),
		logger.String("email", email),
	)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
	}

	if s.started {
		activities := s.store.Count(ctx)
		participants := s.store.Participants(ctx)

		stats["activities"] = activities
		stats["participants"] = participants

		if all, err := s.store.List(ctx); err == nil {
			capacity := 0
			for _, a := range all {
				capacity += a.MaxParticipants
			}
			stats["capacitySeats"] = capacity
			if capacity > 0 {
				stats["utilization"] = float64(participants) / float64(capacity)
			}
		}

		// Update metrics
		metrics.UpdateActivityCount(activities)
		metrics.UpdateParticipantCount(participants)
	}

	return stats
}

// rejectionReason maps a registry error to a metric label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, registry.ErrActivityNotFound):
		return "activity_not_found"
	case errors.Is(err, registry.ErrAlreadySignedUp):
		return "duplicate"
	case errors.Is(err, registry.ErrNotSignedUp):
		return "not_signed_up"
	default:
		return "internal"
	}
}
