// Package api declares HTTP contracts and route registration helpers.
package api

// This file contains common types and utilities for the API package.
// The shared helpers (writeJSON, writeError, isNotFound, parseRefresh)
// live in http.go next to the Dependencies bundle they serve.
