// Package registry defines the activity roster store interface and errors.
package registry

import (
	"time"

	"github.com/mergington/rollcall/internal/domain/model"
)

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithActivities seeds the store with copies of the given activities.
func WithActivities(activities map[string]*model.Activity) Option {
	return func(s *MemStore) {
		for name, a := range activities {
			s.activities[name] = a.Clone()
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
