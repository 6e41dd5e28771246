package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"go-procurement/internal/procurement/data"
	"go-procurement/internal/procurement/service"
	"go-procurement/pkg/logging"
)

type DashboardService interface {
	Stats(ctx context.Context) (service.Stats, error)
	VendorSummary(ctx context.Context, vendorID int64) (service.VendorSummary, error)
}

type DashboardHandler struct {
	service DashboardService
	logger  *logging.ZapLogger
}

func NewDashboardHandler(service DashboardService, logger *logging.ZapLogger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "error building dashboard", zap.Error(err))
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	writeResponse(r.Context(), w, http.StatusOK, toClientStats(stats), h.logger)
}

func (h *DashboardHandler) VendorSummary(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	summary, err := h.service.VendorSummary(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
		default:
			h.logger.ErrorCtx(r.Context(), "error building vendor summary", zap.Int64("vendorID", id), zap.Error(err))
			w.WriteHeader(http.StatusBadGateway)
		}
		return
	}
	writeResponse(r.Context(), w, http.StatusOK, toClientVendorSummary(summary), h.logger)
}
