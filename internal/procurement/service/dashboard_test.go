package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-procurement/internal/procurement/data"
)

func dashboardFixture() *mockBackend {
	backend := new(mockBackend)
	backend.On("GetVendors", mock.Anything).Return([]data.Vendor{
		{ID: 1, Name: "ACME"},
		{ID: 2, Name: "Norte"},
		{ID: 3, Name: "Sur"},
		{ID: 4, Name: "Centro"},
	}, nil)
	backend.On("GetOrders", mock.Anything).Return([]data.Order{
		{ID: 1, VendorID: 1, Status: data.PendingStatus, Total: decimal.NewFromInt(100)},
		{ID: 2, VendorID: 1, Status: data.DeliveredStatus, Total: decimal.NewFromInt(50)},
		{ID: 3, VendorID: 2, Status: data.ApprovedStatus, Total: decimal.NewFromInt(500)},
		{ID: 4, VendorID: 2, Status: data.RejectedStatus, Total: decimal.NewFromInt(10)},
		{ID: 5, VendorID: 3, Status: data.PendingStatus, Total: decimal.NewFromInt(900)},
		{ID: 6, VendorID: 4, Status: data.PendingStatus, Total: decimal.NewFromInt(20)},
	}, nil)
	return backend
}

func TestDashboard_Stats(t *testing.T) {
	stats, err := NewDashboard(dashboardFixture()).Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Vendors)
	assert.Equal(t, 6, stats.Orders)
	assert.Equal(t, map[data.Status]int{
		data.PendingStatus:   3,
		data.ApprovedStatus:  1,
		data.RejectedStatus:  1,
		data.DeliveredStatus: 1,
	}, stats.ByStatus)

	require.Len(t, stats.TopVendors, 3)
	assert.Equal(t, int64(2), stats.TopVendors[0].VendorID)
	assert.Equal(t, "Norte", stats.TopVendors[0].VendorName)
	assert.Equal(t, int64(1), stats.TopVendors[1].VendorID)
	assert.Equal(t, int64(3), stats.TopVendors[2].VendorID)
}

func TestDashboard_VendorSummary(t *testing.T) {
	summary, err := NewDashboard(dashboardFixture()).VendorSummary(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "ACME", summary.Vendor.Name)
	assert.Equal(t, 2, summary.Orders)
	assert.True(t, decimal.NewFromInt(150).Equal(summary.Total))
	assert.True(t, decimal.NewFromInt(100).Equal(summary.OpenAmount))
	assert.Equal(t, 1, summary.ByStatus[data.DeliveredStatus].Count)
	assert.Equal(t, 0, summary.ByStatus[data.RejectedStatus].Count)
}

func TestDashboard_VendorSummary_UnknownVendor(t *testing.T) {
	_, err := NewDashboard(dashboardFixture()).VendorSummary(context.Background(), 99)
	assert.ErrorIs(t, err, data.ErrNotFound)
}

func TestDashboard_BackendError(t *testing.T) {
	backend := new(mockBackend)
	backend.On("GetVendors", mock.Anything).Return(nil, errors.New("down"))
	backend.On("GetOrders", mock.Anything).Return([]data.Order{}, nil)

	_, err := NewDashboard(backend).Stats(context.Background())
	assert.Error(t, err)
}
