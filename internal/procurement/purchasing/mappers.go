package purchasing

import (
	"time"

	"go-procurement/internal/common/purchasingprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/internal/procurement/status"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func toOrder(o purchasingprotocol.Order) data.Order {
	lines := make([]data.LineItem, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = data.LineItem{
			ID:          line.ID,
			LineNumber:  line.LineNumber,
			ProductID:   line.ProductID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			DiscountPct: line.Discount,
		}
	}
	order := data.Order{
		ID:                 o.ID,
		Number:             o.Number,
		VendorID:           o.VendorID,
		VendorName:         o.VendorName,
		Status:             status.Normalize(o.Estado),
		Lines:              lines,
		Subtotal:           o.Subtotal,
		Tax:                o.Tax,
		Total:              o.Total,
		Currency:           o.Currency,
		PaymentTerms:       o.PaymentTerms,
		Notes:              o.Notes,
		OrderDate:          parseDate(o.OrderDate),
		LastStatusChangeAt: parseDate(o.UpdatedAt),
	}
	if o.ExpectedDelivery != nil {
		if t := parseDate(*o.ExpectedDelivery); !t.IsZero() {
			order.ExpectedDelivery = &t
		}
	}
	return order
}

func toEstado(s data.Status) purchasingprotocol.Estado {
	switch s {
	case data.ApprovedStatus:
		return purchasingprotocol.Approved
	case data.RejectedStatus:
		return purchasingprotocol.Rejected
	case data.DeliveredStatus:
		return purchasingprotocol.Delivered
	default:
		return purchasingprotocol.Pending
	}
}

func toVendor(v purchasingprotocol.Vendor) data.Vendor {
	return data.Vendor{
		ID:           v.ID,
		Name:         v.Name,
		TaxID:        v.TaxID,
		Contact:      v.Contact,
		Email:        v.Email,
		Phone:        v.Phone,
		Address:      v.Address,
		City:         v.City,
		Country:      v.Country,
		State:        v.State,
		RegisteredAt: v.RegisteredAt,
	}
}

func toVendorPayload(v data.Vendor) purchasingprotocol.VendorPayload {
	return purchasingprotocol.VendorPayload{
		Name:    v.Name,
		TaxID:   v.TaxID,
		Contact: v.Contact,
		Email:   v.Email,
		Phone:   v.Phone,
		Address: v.Address,
		City:    v.City,
		Country: v.Country,
		State:   v.State,
	}
}

func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
