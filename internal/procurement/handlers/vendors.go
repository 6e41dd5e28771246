package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"go-procurement/internal/common/clientprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/internal/procurement/service"
	"go-procurement/pkg/logging"
)

type VendorsService interface {
	GetVendors(ctx context.Context) ([]data.Vendor, error)
	CreateVendor(ctx context.Context, vendor data.Vendor) (data.Vendor, error)
	UpdateVendor(ctx context.Context, id int64, vendor data.Vendor) (data.Vendor, error)
	DeleteVendor(ctx context.Context, id int64) error
	SearchProspects(ctx context.Context, search string, limit int) ([]data.Prospect, error)
}

// VendorsHandler groups the vendor endpoints; they share one service.
type VendorsHandler struct {
	service VendorsService
	logger  *logging.ZapLogger
}

func NewVendorsHandler(service VendorsService, logger *logging.ZapLogger) *VendorsHandler {
	return &VendorsHandler{
		service: service,
		logger:  logger,
	}
}

func (h *VendorsHandler) List(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.service.GetVendors(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "error getting vendors", zap.Error(err))
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	res := make([]clientprotocol.Vendor, len(vendors))
	for i, vendor := range vendors {
		res[i] = toClientVendor(vendor)
	}
	writeResponse(r.Context(), w, http.StatusOK, res, h.logger)
}

func (h *VendorsHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	input, err := decodeJSON[clientprotocol.Vendor](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		writeError(r.Context(), w, http.StatusBadRequest, "malformed vendor", h.logger)
		return
	}

	created, err := h.service.CreateVendor(r.Context(), fromClientVendor(input))
	res := clientprotocol.VendorResponse{Vendor: toClientVendor(created)}
	switch {
	case err == nil:
	case service.IsCRMError(err):
		res.Warnings = append(res.Warnings, err.Error())
	case errors.Is(err, service.ErrInvalidVendor):
		writeError(r.Context(), w, http.StatusUnprocessableEntity, err.Error(), h.logger)
		return
	default:
		h.logger.ErrorCtx(r.Context(), "error creating vendor", zap.Error(err))
		writeError(r.Context(), w, http.StatusBadGateway, "could not create vendor", h.logger)
		return
	}
	writeResponse(r.Context(), w, http.StatusCreated, res, h.logger)
}

func (h *VendorsHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	id, err := idFromURL(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	input, err := decodeJSON[clientprotocol.Vendor](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		writeError(r.Context(), w, http.StatusBadRequest, "malformed vendor", h.logger)
		return
	}

	updated, err := h.service.UpdateVendor(r.Context(), id, fromClientVendor(input))
	if err != nil {
		h.writeVendorError(r.Context(), w, id, err)
		return
	}
	writeResponse(r.Context(), w, http.StatusOK, clientprotocol.VendorResponse{Vendor: toClientVendor(updated)}, h.logger)
}

func (h *VendorsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	if err := h.service.DeleteVendor(r.Context(), id); err != nil {
		h.writeVendorError(r.Context(), w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VendorsHandler) Prospects(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(r.Context(), w, http.StatusBadRequest, "invalid limit", h.logger)
			return
		}
		limit = parsed
	}

	prospects, err := h.service.SearchProspects(r.Context(), r.URL.Query().Get("search"), limit)
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "error getting prospects", zap.Error(err))
		writeError(r.Context(), w, http.StatusBadGateway, "crm unavailable", h.logger)
		return
	}
	res := make([]clientprotocol.Prospect, len(prospects))
	for i, p := range prospects {
		res[i] = clientprotocol.Prospect{
			ID:      p.ID,
			Name:    p.Name,
			Email:   p.Email,
			Phone:   p.Phone,
			Address: p.Address,
			City:    p.City,
			Country: p.Country,
		}
	}
	writeResponse(r.Context(), w, http.StatusOK, res, h.logger)
}

func (h *VendorsHandler) writeVendorError(ctx context.Context, w http.ResponseWriter, id int64, err error) {
	switch {
	case errors.Is(err, data.ErrNotFound):
		writeError(ctx, w, http.StatusNotFound, "vendor not found", h.logger)
	case errors.Is(err, service.ErrInvalidVendor):
		writeError(ctx, w, http.StatusUnprocessableEntity, err.Error(), h.logger)
	default:
		h.logger.ErrorCtx(ctx, "vendor handler error", zap.Int64("vendorID", id), zap.Error(err))
		writeError(ctx, w, http.StatusBadGateway, "purchasing backend unavailable", h.logger)
	}
}
