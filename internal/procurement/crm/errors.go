package crm

import "errors"

var (
	// ErrAuthentication covers every way a CRM login can fail. It is never
	// retried by this package.
	ErrAuthentication = errors.New("crm authentication failed")
	ErrUnauthorized   = errors.New("crm rejected the bearer token")
	ErrUnexpected     = errors.New("unexpected crm response")
)
