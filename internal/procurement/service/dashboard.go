package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"go-procurement/internal/procurement/data"
)

const topVendorsCount = 3

type StatusSummary struct {
	Count int
	Total decimal.Decimal
}

type VendorStat struct {
	VendorID   int64
	VendorName string
	Orders     int
	Total      decimal.Decimal
}

type Stats struct {
	Vendors    int
	Orders     int
	ByStatus   map[data.Status]int
	TopVendors []VendorStat
}

type VendorSummary struct {
	Vendor   data.Vendor
	Orders   int
	Total    decimal.Decimal
	ByStatus map[data.Status]StatusSummary
	// OpenAmount is the value of orders not yet delivered or rejected.
	OpenAmount decimal.Decimal
}

type Dashboard struct {
	backend DashboardBackend
}

func NewDashboard(backend DashboardBackend) *Dashboard {
	return &Dashboard{backend: backend}
}

func (d *Dashboard) Stats(ctx context.Context) (Stats, error) {
	orders, vendors, err := d.load(ctx)
	if err != nil {
		return Stats{}, err
	}

	res := Stats{
		Vendors:  len(vendors),
		Orders:   len(orders),
		ByStatus: make(map[data.Status]int, len(data.AllStatuses)),
	}
	for _, status := range data.AllStatuses {
		res.ByStatus[status] = 0
	}

	perVendor := make(map[int64]*VendorStat)
	for _, order := range orders {
		res.ByStatus[order.Status]++
		stat, ok := perVendor[order.VendorID]
		if !ok {
			stat = &VendorStat{VendorID: order.VendorID, VendorName: order.VendorName}
			perVendor[order.VendorID] = stat
		}
		stat.Orders++
		stat.Total = stat.Total.Add(order.Total)
	}
	for _, vendor := range vendors {
		if stat, ok := perVendor[vendor.ID]; ok && vendor.Name != "" {
			stat.VendorName = vendor.Name
		}
	}

	ranked := make([]VendorStat, 0, len(perVendor))
	for _, stat := range perVendor {
		ranked = append(ranked, *stat)
	}
	slices.SortFunc(ranked, func(a, b VendorStat) int {
		if c := cmp.Compare(b.Orders, a.Orders); c != 0 {
			return c
		}
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.VendorID, b.VendorID)
	})
	if len(ranked) > topVendorsCount {
		ranked = ranked[:topVendorsCount]
	}
	res.TopVendors = ranked
	return res, nil
}

func (d *Dashboard) VendorSummary(ctx context.Context, vendorID int64) (VendorSummary, error) {
	orders, vendors, err := d.load(ctx)
	if err != nil {
		return VendorSummary{}, err
	}
	idx := slices.IndexFunc(vendors, func(v data.Vendor) bool { return v.ID == vendorID })
	if idx < 0 {
		return VendorSummary{}, fmt.Errorf("vendor %d: %w", vendorID, data.ErrNotFound)
	}

	res := VendorSummary{
		Vendor:   vendors[idx],
		ByStatus: make(map[data.Status]StatusSummary, len(data.AllStatuses)),
	}
	for _, status := range data.AllStatuses {
		res.ByStatus[status] = StatusSummary{}
	}
	for _, order := range orders {
		if order.VendorID != vendorID {
			continue
		}
		res.Orders++
		res.Total = res.Total.Add(order.Total)
		summary := res.ByStatus[order.Status]
		summary.Count++
		summary.Total = summary.Total.Add(order.Total)
		res.ByStatus[order.Status] = summary
		if !order.Status.Terminal() {
			res.OpenAmount = res.OpenAmount.Add(order.Total)
		}
	}
	return res, nil
}

func (d *Dashboard) load(ctx context.Context) ([]data.Order, []data.Vendor, error) {
	var (
		orders  []data.Order
		vendors []data.Vendor
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = d.backend.GetOrders(ctx)
		if err != nil {
			return fmt.Errorf("error getting orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		vendors, err = d.backend.GetVendors(ctx)
		if err != nil {
			return fmt.Errorf("error getting vendors: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return orders, vendors, nil
}
