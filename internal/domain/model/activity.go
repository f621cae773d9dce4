// Package model contains domain models passed between layers.
package model

// Activity represents an extracurricular activity and its roster.
// Fields mirror the OpenAPI schema for /activities.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Clone returns a deep copy so callers can mutate rosters freely.
// A nil participant list is normalized to an empty one so it always
// serializes as a JSON array.
func (a *Activity) Clone() *Activity {
	out := *a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return &out
}

// HasParticipant reports whether the email is already on the roster.
// Matching is exact; emails are stored as submitted.
func (a *Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}
