package data

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	PendingStatus   = Status("PENDING")
	ApprovedStatus  = Status("APPROVED")
	RejectedStatus  = Status("REJECTED")
	DeliveredStatus = Status("DELIVERED")
)

var AllStatuses = []Status{PendingStatus, ApprovedStatus, RejectedStatus, DeliveredStatus}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == RejectedStatus || s == DeliveredStatus
}

func (s Status) Valid() bool {
	switch s {
	case PendingStatus, ApprovedStatus, RejectedStatus, DeliveredStatus:
		return true
	}
	return false
}

type Order struct {
	ID                 int64
	Number             string
	VendorID           int64
	VendorName         string
	Status             Status
	Lines              []LineItem
	Subtotal           decimal.Decimal
	Tax                decimal.Decimal
	Total              decimal.Decimal
	Currency           string
	PaymentTerms       string
	Notes              string
	OrderDate          time.Time
	ExpectedDelivery   *time.Time
	LastStatusChangeAt time.Time
}

type LineItem struct {
	ID          int64
	LineNumber  int
	ProductID   int64
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Subtotal is quantity × unit price × (1 − discount/100).
func (l LineItem) Subtotal() decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(l.DiscountPct.Div(hundred))
	return decimal.NewFromInt(int64(l.Quantity)).Mul(l.UnitPrice).Mul(factor)
}

type Vendor struct {
	ID           int64
	Name         string
	TaxID        string
	Contact      string
	Email        string
	Phone        string
	Address      string
	City         string
	Country      string
	State        string
	RegisteredAt string
}

type Prospect struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	Country string
}

type Task struct {
	ID    int64
	Title string
	State string
}

type EffectTarget string

const (
	TaskTarget      = EffectTarget("TASK")
	InventoryTarget = EffectTarget("INVENTORY")
)

type EffectResult string

const (
	Success = EffectResult("SUCCESS")
	Failure = EffectResult("FAILURE")
)

// SideEffectOutcome is the result of one dependent call made after a status
// change. It lives only for the duration of one transition.
type SideEffectOutcome struct {
	Target EffectTarget
	Result EffectResult
	Detail string
}
