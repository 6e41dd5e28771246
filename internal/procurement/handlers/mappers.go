package handlers

import (
	"fmt"
	"time"

	"go-procurement/internal/common/clientprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/internal/procurement/service"
	"go-procurement/internal/procurement/transition"
)

const dateLayout = "2006-01-02"

func toClientOrder(order data.Order) clientprotocol.Order {
	res := clientprotocol.Order{
		ID:           order.ID,
		Number:       order.Number,
		VendorID:     order.VendorID,
		VendorName:   order.VendorName,
		Status:       string(order.Status),
		Subtotal:     order.Subtotal,
		Tax:          order.Tax,
		Total:        order.Total,
		Currency:     order.Currency,
		PaymentTerms: order.PaymentTerms,
		Notes:        order.Notes,
		Lines:        make([]clientprotocol.Line, len(order.Lines)),
	}
	if !order.OrderDate.IsZero() {
		res.OrderDate = &order.OrderDate
	}
	if order.ExpectedDelivery != nil {
		formatted := order.ExpectedDelivery.Format(dateLayout)
		res.ExpectedDelivery = &formatted
	}
	if !order.LastStatusChangeAt.IsZero() {
		res.LastStatusChangeAt = &order.LastStatusChangeAt
	}
	for i, line := range order.Lines {
		res.Lines[i] = clientprotocol.Line{
			LineNumber:  line.LineNumber,
			ProductID:   line.ProductID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			DiscountPct: line.DiscountPct,
			Subtotal:    line.Subtotal().Round(2),
		}
	}
	return res
}

func toStatusChangeResponse(order data.Order, result transition.Result) clientprotocol.StatusChangeResponse {
	res := clientprotocol.StatusChangeResponse{
		Order: toClientOrder(order),
		Task: clientprotocol.TaskOutcome{
			Result: string(result.Task.Result),
			TaskID: result.Task.TaskID,
			Estado: result.Task.Estado,
		},
		Effects:       make([]clientprotocol.Effect, len(result.Effects)),
		Notifications: make([]clientprotocol.Notification, len(result.Notifications)),
	}
	if result.Inventory != nil {
		res.Inventory = &clientprotocol.InventoryOutcome{
			Class:     string(result.Inventory.Class),
			Succeeded: result.Inventory.Succeeded,
			Total:     result.Inventory.Total,
		}
	}
	for i, effect := range result.Effects {
		res.Effects[i] = clientprotocol.Effect{
			Target: string(effect.Target),
			Result: string(effect.Result),
			Detail: effect.Detail,
		}
	}
	for i, note := range result.Notifications {
		res.Notifications[i] = clientprotocol.Notification{
			ID:      note.ID,
			Level:   string(note.Level),
			Message: note.Message,
		}
	}
	return res
}

func toClientVendor(vendor data.Vendor) clientprotocol.Vendor {
	return clientprotocol.Vendor{
		ID:           vendor.ID,
		Name:         vendor.Name,
		TaxID:        vendor.TaxID,
		Contact:      vendor.Contact,
		Email:        vendor.Email,
		Phone:        vendor.Phone,
		Address:      vendor.Address,
		City:         vendor.City,
		Country:      vendor.Country,
		State:        vendor.State,
		RegisteredAt: vendor.RegisteredAt,
	}
}

func fromClientVendor(vendor clientprotocol.Vendor) data.Vendor {
	return data.Vendor{
		Name:    vendor.Name,
		TaxID:   vendor.TaxID,
		Contact: vendor.Contact,
		Email:   vendor.Email,
		Phone:   vendor.Phone,
		Address: vendor.Address,
		City:    vendor.City,
		Country: vendor.Country,
		State:   vendor.State,
	}
}

func toClientStats(stats service.Stats) clientprotocol.DashboardStats {
	res := clientprotocol.DashboardStats{
		Vendors:    stats.Vendors,
		Orders:     stats.Orders,
		ByStatus:   make(map[string]int, len(stats.ByStatus)),
		TopVendors: make([]clientprotocol.VendorStat, len(stats.TopVendors)),
	}
	for status, count := range stats.ByStatus {
		res.ByStatus[string(status)] = count
	}
	for i, stat := range stats.TopVendors {
		res.TopVendors[i] = clientprotocol.VendorStat{
			VendorID:   stat.VendorID,
			VendorName: stat.VendorName,
			Orders:     stat.Orders,
			Total:      stat.Total,
		}
	}
	return res
}

func toClientVendorSummary(summary service.VendorSummary) clientprotocol.VendorSummary {
	res := clientprotocol.VendorSummary{
		Vendor:     toClientVendor(summary.Vendor),
		Orders:     summary.Orders,
		Total:      summary.Total,
		OpenAmount: summary.OpenAmount,
		ByStatus:   make(map[string]clientprotocol.StatusSummary, len(summary.ByStatus)),
	}
	for status, s := range summary.ByStatus {
		res.ByStatus[string(status)] = clientprotocol.StatusSummary{Count: s.Count, Total: s.Total}
	}
	return res
}

func fromCreateOrderRequest(request clientprotocol.CreateOrderRequest) (service.NewOrder, error) {
	res := service.NewOrder{
		VendorID:   request.VendorID,
		VendorName: request.VendorName,
		Notes:      request.Notes,
		Lines:      make([]service.NewLine, len(request.Lines)),
	}
	if request.ExpectedDelivery != nil && *request.ExpectedDelivery != "" {
		expected, err := time.ParseInLocation(dateLayout, *request.ExpectedDelivery, time.Local)
		if err != nil {
			return service.NewOrder{}, fmt.Errorf("invalid expected_delivery: %w", err)
		}
		res.ExpectedDelivery = &expected
	}
	for i, line := range request.Lines {
		res.Lines[i] = service.NewLine{
			ProductID:   line.ProductID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			DiscountPct: line.DiscountPct,
		}
	}
	return res, nil
}
