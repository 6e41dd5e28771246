package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"go-procurement/internal/common/crmprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/pkg/logging"
)

const defaultProspectLimit = 20

type Vendors struct {
	backend VendorsBackend
	crm     CRM
	logger  *logging.ZapLogger
}

func NewVendors(backend VendorsBackend, crm CRM, logger *logging.ZapLogger) *Vendors {
	return &Vendors{
		backend: backend,
		crm:     crm,
		logger:  logger,
	}
}

func (v *Vendors) GetVendors(ctx context.Context) ([]data.Vendor, error) {
	vendors, err := v.backend.GetVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting vendors: %w", err)
	}
	return vendors, nil
}

// CreateVendor stores the vendor in purchasing and then mirrors it to the
// CRM. When only the CRM step fails the created vendor is returned together
// with a *CRMError.
func (v *Vendors) CreateVendor(ctx context.Context, vendor data.Vendor) (data.Vendor, error) {
	if strings.TrimSpace(vendor.Name) == "" {
		return data.Vendor{}, fmt.Errorf("%w: name is required", ErrInvalidVendor)
	}
	created, err := v.backend.CreateVendor(ctx, vendor)
	if err != nil {
		return data.Vendor{}, fmt.Errorf("error creating vendor: %w", err)
	}
	if created.Name == "" {
		created = mergeVendor(vendor, created.ID)
	}

	if err := v.crm.CreateVendor(ctx, toCRMVendor(vendor)); err != nil {
		v.logger.WarnCtx(ctx, "error syncing vendor to crm", zap.Int64("vendorID", created.ID), zap.Error(err))
		return created, &CRMError{Err: err}
	}
	v.logger.InfoCtx(ctx, "vendor created", zap.Int64("vendorID", created.ID))
	return created, nil
}

func (v *Vendors) UpdateVendor(ctx context.Context, id int64, vendor data.Vendor) (data.Vendor, error) {
	if strings.TrimSpace(vendor.Name) == "" {
		return data.Vendor{}, fmt.Errorf("%w: name is required", ErrInvalidVendor)
	}
	updated, err := v.backend.UpdateVendor(ctx, id, vendor)
	if err != nil {
		return data.Vendor{}, fmt.Errorf("error updating vendor: %w", err)
	}
	if updated.Name == "" {
		updated = mergeVendor(vendor, id)
	}
	return updated, nil
}

func (v *Vendors) DeleteVendor(ctx context.Context, id int64) error {
	if err := v.backend.DeleteVendor(ctx, id); err != nil {
		return fmt.Errorf("error deleting vendor: %w", err)
	}
	return nil
}

func (v *Vendors) SearchProspects(ctx context.Context, search string, limit int) ([]data.Prospect, error) {
	if limit <= 0 {
		limit = defaultProspectLimit
	}
	prospects, err := v.crm.GetProspects(ctx, search, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting prospects: %w", err)
	}
	return prospects, nil
}

// IsCRMError reports whether err only describes a failed CRM mirror.
func IsCRMError(err error) bool {
	var crmErr *CRMError
	return errors.As(err, &crmErr)
}

func mergeVendor(vendor data.Vendor, id int64) data.Vendor {
	vendor.ID = id
	return vendor
}

func toCRMVendor(vendor data.Vendor) crmprotocol.VendorPayload {
	payload := crmprotocol.VendorPayload{
		Name:             vendor.Name,
		Email:            vendor.Email,
		Phone:            vendor.Phone,
		NIT:              digitsOnly(vendor.TaxID),
		PrincipalContact: vendor.Contact,
	}
	if vendor.Contact != "" {
		first, last, _ := strings.Cut(strings.TrimSpace(vendor.Contact), " ")
		payload.Contact = &crmprotocol.VendorPerson{
			FirstName: first,
			LastName:  strings.TrimSpace(last),
			Address:   vendor.Address,
			Phone:     vendor.Phone,
			Email:     vendor.Email,
		}
	}
	return payload
}

// digitsOnly turns a NIT like "1234567-8" into 12345678; the CRM stores it
// as a number.
func digitsOnly(value string) int64 {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
