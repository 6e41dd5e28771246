package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"go-procurement/internal/common/clientprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/internal/procurement/service"
	"go-procurement/pkg/logging"
)

type OrdersGettingService interface {
	GetAllOrders(ctx context.Context) ([]data.Order, error)
}

type OrdersGettingHandler struct {
	service OrdersGettingService
	logger  *logging.ZapLogger
}

func NewOrdersGettingHandler(service OrdersGettingService, logger *logging.ZapLogger) *OrdersGettingHandler {
	return &OrdersGettingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrdersGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetAllOrders(r.Context())
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "error getting orders", zap.Error(err))
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	res := make([]clientprotocol.Order, len(orders))
	for i, order := range orders {
		res[i] = toClientOrder(order)
	}
	writeResponse(r.Context(), w, http.StatusOK, res, h.logger)
}

type OrderGettingService interface {
	GetOrder(ctx context.Context, id int64) (data.Order, error)
}

type OrderGettingHandler struct {
	service OrderGettingService
	logger  *logging.ZapLogger
}

func NewOrderGettingHandler(service OrderGettingService, logger *logging.ZapLogger) *OrderGettingHandler {
	return &OrderGettingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
		default:
			h.logger.ErrorCtx(r.Context(), "error getting order", zap.Int64("orderID", id), zap.Error(err))
			w.WriteHeader(http.StatusBadGateway)
		}
		return
	}
	writeResponse(r.Context(), w, http.StatusOK, toClientOrder(order), h.logger)
}

type OrderCreationService interface {
	CreateOrder(ctx context.Context, input service.NewOrder) (service.CreatedOrder, error)
}

type OrderCreationHandler struct {
	service OrderCreationService
	logger  *logging.ZapLogger
}

func NewOrderCreationHandler(service OrderCreationService, logger *logging.ZapLogger) *OrderCreationHandler {
	return &OrderCreationHandler{
		service: service,
		logger:  logger,
	}
}

func (h *OrderCreationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	input, err := decodeJSON[clientprotocol.CreateOrderRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		writeError(r.Context(), w, http.StatusBadRequest, "malformed order", h.logger)
		return
	}
	newOrder, err := fromCreateOrderRequest(input)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	created, err := h.service.CreateOrder(r.Context(), newOrder)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrder):
			writeError(r.Context(), w, http.StatusUnprocessableEntity, err.Error(), h.logger)
		default:
			h.logger.ErrorCtx(r.Context(), "error creating order", zap.Error(err))
			writeError(r.Context(), w, http.StatusBadGateway, "could not create order", h.logger)
		}
		return
	}

	res := clientprotocol.CreateOrderResponse{
		Order:    toClientOrder(created.Order),
		Warnings: created.Warnings,
	}
	if created.Task != nil {
		res.TaskID = &created.Task.ID
	}
	writeResponse(r.Context(), w, http.StatusCreated, res, h.logger)
}
