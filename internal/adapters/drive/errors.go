package drive

import "errors"

// Sentinel kinds for Google API failures.
var (
	ErrInvalidCredentials = errors.New("invalid service account credentials")
	ErrNoTokenSource      = errors.New("no token source configured")
	ErrTokenExchange      = errors.New("token exchange failed")
	ErrNotFound           = errors.New("drive file not found")
	ErrForbidden          = errors.New("drive access denied")
)
