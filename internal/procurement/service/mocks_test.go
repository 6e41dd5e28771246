package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-procurement/internal/common/crmprotocol"
	"go-procurement/internal/common/purchasingprotocol"
	"go-procurement/internal/common/tasksprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/internal/procurement/transition"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) GetOrders(ctx context.Context) ([]data.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]data.Order)
	return orders, args.Error(1)
}

func (m *mockBackend) GetOrder(ctx context.Context, id int64) (data.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(data.Order), args.Error(1)
}

func (m *mockBackend) CreateOrder(ctx context.Context, request purchasingprotocol.CreateOrderRequest) (data.Order, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(data.Order), args.Error(1)
}

func (m *mockBackend) GetVendors(ctx context.Context) ([]data.Vendor, error) {
	args := m.Called(ctx)
	vendors, _ := args.Get(0).([]data.Vendor)
	return vendors, args.Error(1)
}

func (m *mockBackend) CreateVendor(ctx context.Context, vendor data.Vendor) (data.Vendor, error) {
	args := m.Called(ctx, vendor)
	return args.Get(0).(data.Vendor), args.Error(1)
}

func (m *mockBackend) UpdateVendor(ctx context.Context, id int64, vendor data.Vendor) (data.Vendor, error) {
	args := m.Called(ctx, id, vendor)
	return args.Get(0).(data.Vendor), args.Error(1)
}

func (m *mockBackend) DeleteVendor(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockTaskCreator struct {
	mock.Mock
}

func (m *mockTaskCreator) Create(ctx context.Context, request tasksprotocol.CreateRequest) (data.Task, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(data.Task), args.Error(1)
}

type mockTransitioner struct {
	mock.Mock
}

func (m *mockTransitioner) Transition(ctx context.Context, order *data.Order, requested data.Status) (transition.Result, error) {
	args := m.Called(ctx, order, requested)
	return args.Get(0).(transition.Result), args.Error(1)
}

type mockCRM struct {
	mock.Mock
}

func (m *mockCRM) CreateVendor(ctx context.Context, payload crmprotocol.VendorPayload) error {
	return m.Called(ctx, payload).Error(0)
}

func (m *mockCRM) GetProspects(ctx context.Context, search string, limit int) ([]data.Prospect, error) {
	args := m.Called(ctx, search, limit)
	prospects, _ := args.Get(0).([]data.Prospect)
	return prospects, args.Error(1)
}

type stubTokenFactory struct{}

func (stubTokenFactory) Generate(operator string) (string, error) {
	return "token-for-" + operator, nil
}
