// Package site serves the embedded student signup portal.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("portal serve failed")
)

// Register attaches the embedded portal routes to mux. The portal owns
// the root path; API routes must be registered with more specific patterns.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Serve the embedded portal at root /
	files := http.FileServer(FS())
	mux.Handle("/", files)
}
