package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOrder       = errors.New("invalid order")
	ErrInvalidVendor      = errors.New("invalid vendor")
)

// CRMError reports that a vendor was stored locally but could not be pushed
// to the CRM. It never undoes the local write.
type CRMError struct {
	Err error
}

func (e *CRMError) Error() string {
	return "vendor saved but crm sync failed: " + e.Err.Error()
}

func (e *CRMError) Unwrap() error {
	return e.Err
}
