package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"go-procurement/internal/common/clientprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/internal/procurement/transition"
	"go-procurement/pkg/logging"
)

type StatusChangeService interface {
	ChangeStatus(ctx context.Context, id int64, requested data.Status) (data.Order, transition.Result, error)
}

type StatusChangeHandler struct {
	service StatusChangeService
	logger  *logging.ZapLogger
}

func NewStatusChangeHandler(service StatusChangeService, logger *logging.ZapLogger) *StatusChangeHandler {
	return &StatusChangeHandler{
		service: service,
		logger:  logger,
	}
}

func (h *StatusChangeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	id, err := idFromURL(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	input, err := decodeJSON[clientprotocol.StatusChangeRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		writeError(r.Context(), w, http.StatusBadRequest, "malformed status change", h.logger)
		return
	}
	requested := data.Status(strings.ToUpper(strings.TrimSpace(input.Status)))
	if !requested.Valid() {
		writeError(r.Context(), w, http.StatusBadRequest, "unknown status", h.logger)
		return
	}

	ctx := logging.WithContextFields(r.Context(), zap.String("operator", operatorFromCtx(r.Context())))
	order, result, err := h.service.ChangeStatus(ctx, id, requested)
	if err != nil {
		switch {
		case errors.Is(err, transition.ErrNoOp):
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, transition.ErrInvalidTransition), errors.Is(err, transition.ErrTransitionInProgress):
			writeError(ctx, w, http.StatusConflict, err.Error(), h.logger)
		case errors.Is(err, transition.ErrPersistence):
			writeError(ctx, w, http.StatusBadGateway, transition.ErrPersistence.Error(), h.logger)
		case errors.Is(err, data.ErrNotFound):
			writeError(ctx, w, http.StatusNotFound, "order not found", h.logger)
		default:
			h.logger.ErrorCtx(ctx, "error changing order status", zap.Int64("orderID", id), zap.Error(err))
			writeError(ctx, w, http.StatusBadGateway, "could not load order", h.logger)
		}
		return
	}

	writeResponse(ctx, w, http.StatusOK, toStatusChangeResponse(order, result), h.logger)
}
