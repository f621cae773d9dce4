// Package registry defines the activity roster store interface and errors.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/mergington/rollcall/internal/domain/model"
	"github.com/mergington/rollcall/pkg/metrics"
)

// Map-backed, in-memory Store implementation.
//
// One RWMutex guards the whole registry. Rosters are small (tens of
// entries) and every mutation is a single map/slice edit, so per-activity
// locking buys nothing here. Reads hand out deep copies; the only shared
// mutable state lives behind the lock.

// defaultMetricsUpdateInterval controls how often registry gauges refresh.
const defaultMetricsUpdateInterval = 5 * time.Second

type MemStore struct {
	mu                    sync.RWMutex
	activities            map[string]*model.Activity
	metricsUpdateInterval time.Duration

	// Background metrics management
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewMemStore constructs an in-memory store with configuration options.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		activities:            make(map[string]*model.Activity),
		metricsUpdateInterval: defaultMetricsUpdateInterval,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	// Initialize stop channel and start the background metrics goroutine
	s.stopChan = make(chan struct{})
	s.startMetricsUpdater(ctx)

	// Publish initial registry gauges
	s.updateMetrics()

	return s
}

// Close gracefully shuts down the background metrics goroutine.
func (s *MemStore) Close() error {
	// Signal all goroutines to stop
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// List returns deep copies of every activity keyed by name.
func (s *MemStore) List(ctx context.Context) (map[string]*model.Activity, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordStoreQueryLatency(float64(latency))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*model.Activity, len(s.activities))
	for name, a := range s.activities {
		out[name] = a.Clone()
	}
	return out, nil
}

// Get returns a deep copy of a single activity by name.
func (s *MemStore) Get(ctx context.Context, name string) (*model.Activity, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordStoreQueryLatency(float64(latency))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[name]
	if !ok {
		metrics.RecordErrorByComponent("store", "not_found")
		return nil, ErrActivityNotFound
	}
	return a.Clone(), nil
}

// Signup adds an email to the activity's roster.
func (s *MemStore) Signup(ctx context.Context, name, email string) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordStoreMutationLatency(float64(latency))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		metrics.RecordErrorByComponent("store", "not_found")
		return ErrActivityNotFound
	}
	if a.HasParticipant(email) {
		metrics.RecordErrorByComponent("store", "duplicate")
		return ErrAlreadySignedUp
	}
	// max_participants is advisory; rosters may grow past capacity.
	a.Participants = append(a.Participants, email)
	return nil
}

// Unregister removes an email from the activity's roster.
func (s *MemStore) Unregister(ctx context.Context, name, email string) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordStoreMutationLatency(float64(latency))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		metrics.RecordErrorByComponent("store", "not_found")
		return ErrActivityNotFound
	}
	for i, p := range a.Participants {
		if p == email {
			// Remove in place, preserving roster order
			a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
			return nil
		}
	}
	metrics.RecordErrorByComponent("store", "not_signed_up")
	return ErrNotSignedUp
}

// Count returns the total number of activities.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities)
}

// Participants returns the total number of roster entries across all activities.
func (s *MemStore) Participants(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, a := range s.activities {
		total += len(a.Participants)
	}
	return total
}

// startMetricsUpdater starts a background goroutine that updates registry metrics.
func (s *MemStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

// updateMetrics updates all registry-related gauges.
func (s *MemStore) updateMetrics() {
	type rosterLoad struct {
		name  string
		ratio float64
	}

	s.mu.RLock()
	activityCount := len(s.activities)
	participantCount := 0
	capacitySeats := 0
	loads := make([]rosterLoad, 0, len(s.activities))
	for name, a := range s.activities {
		participantCount += len(a.Participants)
		capacitySeats += a.MaxParticipants
		if a.MaxParticipants > 0 {
			loads = append(loads, rosterLoad{
				name:  name,
				ratio: float64(len(a.Participants)) / float64(a.MaxParticipants),
			})
		}
	}
	s.mu.RUnlock()

	// Update gauges outside the lock
	metrics.UpdateActivityCount(activityCount)
	metrics.UpdateParticipantCount(participantCount)
	metrics.UpdateCapacitySeats(capacitySeats)
	for _, l := range loads {
		metrics.UpdateRosterUtilization(l.name, l.ratio)
	}
}
