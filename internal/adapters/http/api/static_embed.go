package api

import (
	"embed"
	"io/fs"
)

// The metrics dashboard page ships inside the binary.
//
//go:embed static/* static/**
var apiStaticFS embed.FS

// dashboardFS exposes a sub-filesystem rooted at static/ so the handler
// can address dashboard.html without the prefix.
var dashboardFS fs.FS = func() fs.FS {
	sub, err := fs.Sub(apiStaticFS, "static")
	if err != nil {
		return apiStaticFS
	}
	return sub
}()
