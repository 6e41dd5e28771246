package handlers

import (
	"net/http"

	"go-procurement/internal/common/clientprotocol"
	"go-procurement/internal/procurement/healthmonitor"
	"go-procurement/pkg/logging"
)

type HealthReporter interface {
	Status() healthmonitor.Status
}

type HealthHandler struct {
	reporter HealthReporter
	logger   *logging.ZapLogger
}

func NewHealthHandler(reporter HealthReporter, logger *logging.ZapLogger) *HealthHandler {
	return &HealthHandler{
		reporter: reporter,
		logger:   logger,
	}
}

// ServeHTTP answers 200 whenever this process is serving; a purchasing
// outage shows up as "degraded" in the body.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := h.reporter.Status()
	res := clientprotocol.Health{
		Status:     "ok",
		Purchasing: status.Purchasing,
		Database:   status.Database,
	}
	if status.Purchasing != healthmonitor.StateUp {
		res.Status = "degraded"
	}
	if !status.CheckedAt.IsZero() {
		res.CheckedAt = &status.CheckedAt
	}
	writeResponse(r.Context(), w, http.StatusOK, res, h.logger)
}
