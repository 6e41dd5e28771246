package transition

import "errors"

var (
	ErrNoOp                 = errors.New("order already has the requested status")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrPersistence          = errors.New("could not update status, try again")
	ErrTransitionInProgress = errors.New("a status change for this order is already in progress")
)
