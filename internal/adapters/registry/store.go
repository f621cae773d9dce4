// Package registry defines the activity roster store interface and errors.
package registry

import (
	"context"

	"github.com/mergington/rollcall/internal/domain/model"
)

// Store provides read/write access to the activity registry state.
type Store interface {
	// List returns every activity keyed by name.
	List(ctx context.Context) (map[string]*model.Activity, error)

	// Get returns a single activity by name.
	// Returns ErrActivityNotFound if the name is unknown.
	Get(ctx context.Context, name string) (*model.Activity, error)

	// Signup adds an email to the activity's roster.
	// Returns ErrActivityNotFound for an unknown activity and
	// ErrAlreadySignedUp when the email is already on the roster.
	Signup(ctx context.Context, name, email string) error

	// Unregister removes an email from the activity's roster.
	// Returns ErrActivityNotFound for an unknown activity and
	// ErrNotSignedUp when the email is not on the roster.
	Unregister(ctx context.Context, name, email string) error

	// Count returns the number of activities tracked in the registry.
	Count(ctx context.Context) int

	// Participants returns the total number of roster entries across all activities.
	Participants(ctx context.Context) int
}
