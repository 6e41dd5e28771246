// Package clientprotocol holds the JSON shapes of the admin HTTP API.
package clientprotocol

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type Error struct {
	Error string `json:"error"`
}

type Order struct {
	ID                 int64           `json:"id"`
	Number             string          `json:"number"`
	VendorID           int64           `json:"vendor_id"`
	VendorName         string          `json:"vendor_name,omitempty"`
	Status             string          `json:"status"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Tax                decimal.Decimal `json:"tax"`
	Total              decimal.Decimal `json:"total"`
	Currency           string          `json:"currency,omitempty"`
	PaymentTerms       string          `json:"payment_terms,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	OrderDate          *time.Time      `json:"order_date,omitempty"`
	ExpectedDelivery   *string         `json:"expected_delivery,omitempty"`
	LastStatusChangeAt *time.Time      `json:"last_status_change_at,omitempty"`
	Lines              []Line          `json:"lines"`
}

type Line struct {
	LineNumber  int             `json:"line_number"`
	ProductID   int64           `json:"product_id"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CreateOrderRequest struct {
	VendorID   int64  `json:"vendor_id"`
	VendorName string `json:"vendor_name"`
	// ExpectedDelivery is a calendar date, YYYY-MM-DD.
	ExpectedDelivery *string      `json:"expected_delivery"`
	Notes            string       `json:"notes"`
	Lines            []CreateLine `json:"lines"`
}

type CreateLine struct {
	ProductID   int64           `json:"product_id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

type CreateOrderResponse struct {
	Order    Order    `json:"order"`
	TaskID   *int64   `json:"task_id,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type StatusChangeRequest struct {
	Status string `json:"status"`
}

type StatusChangeResponse struct {
	Order         Order             `json:"order"`
	Inventory     *InventoryOutcome `json:"inventory,omitempty"`
	Task          TaskOutcome       `json:"task"`
	Effects       []Effect          `json:"effects"`
	Notifications []Notification    `json:"notifications"`
}

type InventoryOutcome struct {
	Class     string `json:"class"`
	Succeeded int    `json:"succeeded"`
	Total     int    `json:"total"`
}

type TaskOutcome struct {
	Result string `json:"result"`
	TaskID int64  `json:"task_id,omitempty"`
	Estado string `json:"estado,omitempty"`
}

type Effect struct {
	Target string `json:"target"`
	Result string `json:"result"`
	Detail string `json:"detail,omitempty"`
}

type Notification struct {
	ID      string `json:"id"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type Vendor struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TaxID        string `json:"tax_id,omitempty"`
	Contact      string `json:"contact,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	Country      string `json:"country,omitempty"`
	State        string `json:"state,omitempty"`
	RegisteredAt string `json:"registered_at,omitempty"`
}

type VendorResponse struct {
	Vendor   Vendor   `json:"vendor"`
	Warnings []string `json:"warnings,omitempty"`
}

type Prospect struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

type DashboardStats struct {
	Vendors    int            `json:"vendors"`
	Orders     int            `json:"orders"`
	ByStatus   map[string]int `json:"by_status"`
	TopVendors []VendorStat   `json:"top_vendors"`
}

type VendorStat struct {
	VendorID   int64           `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Orders     int             `json:"orders"`
	Total      decimal.Decimal `json:"total"`
}

type VendorSummary struct {
	Vendor     Vendor                   `json:"vendor"`
	Orders     int                      `json:"orders"`
	Total      decimal.Decimal          `json:"total"`
	OpenAmount decimal.Decimal          `json:"open_amount"`
	ByStatus   map[string]StatusSummary `json:"by_status"`
}

type StatusSummary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type Health struct {
	Status     string     `json:"status"`
	Purchasing string     `json:"purchasing"`
	Database   string     `json:"database,omitempty"`
	CheckedAt  *time.Time `json:"checked_at,omitempty"`
}
