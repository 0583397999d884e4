package config

import (
	"errors"
)

// Sentinel error kinds for this package. Load wraps provider and parse
// failures in ErrLoadConfig; Validate wraps field failures in
// ErrInvalidConfig so main can tell a bad file from a bad value.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
