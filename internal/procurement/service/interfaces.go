package service

import (
	"context"

	"go-procurement/internal/common/crmprotocol"
	"go-procurement/internal/common/purchasingprotocol"
	"go-procurement/internal/common/tasksprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/internal/procurement/transition"
)

type OrdersBackend interface {
	GetOrders(ctx context.Context) ([]data.Order, error)
	GetOrder(ctx context.Context, id int64) (data.Order, error)
	CreateOrder(ctx context.Context, request purchasingprotocol.CreateOrderRequest) (data.Order, error)
}

type TaskCreator interface {
	Create(ctx context.Context, request tasksprotocol.CreateRequest) (data.Task, error)
}

type Transitioner interface {
	Transition(ctx context.Context, order *data.Order, requested data.Status) (transition.Result, error)
}

type VendorsBackend interface {
	GetVendors(ctx context.Context) ([]data.Vendor, error)
	CreateVendor(ctx context.Context, vendor data.Vendor) (data.Vendor, error)
	UpdateVendor(ctx context.Context, id int64, vendor data.Vendor) (data.Vendor, error)
	DeleteVendor(ctx context.Context, id int64) error
}

type CRM interface {
	CreateVendor(ctx context.Context, payload crmprotocol.VendorPayload) error
	GetProspects(ctx context.Context, search string, limit int) ([]data.Prospect, error)
}

type DashboardBackend interface {
	GetOrders(ctx context.Context) ([]data.Order, error)
	GetVendors(ctx context.Context) ([]data.Vendor, error)
}

type TokenFactory interface {
	Generate(operator string) (string, error)
}
