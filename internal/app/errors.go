package service

import "errors"

// Sentinel kinds for certificate lookups.
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrCertificateNotFound = errors.New("certificate not found")
)
