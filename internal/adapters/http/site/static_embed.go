package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/**
var staticFS embed.FS

// FS returns an http.FileSystem for the embedded portal front end.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Unreachable while static/ ships in the embed; fall back to the
		// unrooted tree rather than panic.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
