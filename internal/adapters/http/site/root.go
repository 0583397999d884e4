// Package site handles the embedded portal front end.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded portal front end routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Serve the embedded portal front end at root /
	files := http.FileServer(FS())
	mux.Handle("/", files)
}
