package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"go-procurement/internal/common/clientprotocol"
	"go-procurement/internal/procurement/service"
	"go-procurement/pkg/logging"
)

type AuthorizationHandler struct {
	service AuthorizationService
	logger  *logging.ZapLogger
}

type AuthorizationService interface {
	Login(ctx context.Context, login string, password string) (string, error)
}

func NewAuthorizationHandler(service AuthorizationService, logger *logging.ZapLogger) *AuthorizationHandler {
	return &AuthorizationHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AuthorizationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	input, err := decodeJSON[clientprotocol.LoginRequest](r.Body)
	if err != nil {
		h.logger.DebugCtx(r.Context(), "error decoding input", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	tkn, err := h.service.Login(r.Context(), input.Login, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			h.logger.DebugCtx(r.Context(), "invalid credentials", zap.String("login", input.Login))
			w.WriteHeader(http.StatusUnauthorized)
		default:
			h.logger.ErrorCtx(r.Context(), "authorization handler error", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", tkn))
	w.WriteHeader(http.StatusOK)
}
