package transition

import (
	"fmt"

	"go-procurement/internal/procurement/data"
)

type OutcomeClass string

const (
	NothingToAdjust = OutcomeClass("NOTHING_TO_ADJUST")
	AllSucceeded    = OutcomeClass("ALL_SUCCEEDED")
	Partial         = OutcomeClass("PARTIAL")
	AllFailed       = OutcomeClass("ALL_FAILED")
)

type AggregateOutcome struct {
	Class     OutcomeClass
	Succeeded int
	Total     int
}

func (a AggregateOutcome) String() string {
	if a.Class == Partial {
		return fmt.Sprintf("%s(%d/%d)", a.Class, a.Succeeded, a.Total)
	}
	return string(a.Class)
}

// Aggregate classifies a set of side-effect outcomes. An empty set is its
// own class and never counts as success.
func Aggregate(outcomes []data.SideEffectOutcome) AggregateOutcome {
	res := AggregateOutcome{Total: len(outcomes)}
	for _, outcome := range outcomes {
		if outcome.Result == data.Success {
			res.Succeeded++
		}
	}
	switch {
	case res.Total == 0:
		res.Class = NothingToAdjust
	case res.Succeeded == res.Total:
		res.Class = AllSucceeded
	case res.Succeeded == 0:
		res.Class = AllFailed
	default:
		res.Class = Partial
	}
	return res
}
