package transition

import (
	"fmt"

	"go-procurement/internal/procurement/data"
)

// Policy decides which status changes are legal. The zero value only forbids
// leaving a terminal status, which is what the purchasing backend enforces.
type Policy struct {
	Strict                  bool
	AllowApprovedToRejected bool
}

// Check validates a requested change without touching any collaborator. A
// request for the current status is a no-op even when that status is
// terminal.
func (p Policy) Check(from, to data.Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if from == to {
		return ErrNoOp
	}
	if from.Terminal() {
		return fmt.Errorf("%w: cannot change a %s order", ErrInvalidTransition, from)
	}
	if p.Strict && !p.allowed(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func (p Policy) allowed(from, to data.Status) bool {
	switch from {
	case data.PendingStatus:
		return to == data.ApprovedStatus || to == data.RejectedStatus || to == data.DeliveredStatus
	case data.ApprovedStatus:
		return to == data.DeliveredStatus || (to == data.RejectedStatus && p.AllowApprovedToRejected)
	}
	return false
}
