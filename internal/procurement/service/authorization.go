package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"go-procurement/pkg/logging"
)

type OperatorConfig struct {
	Login        string
	PasswordHash string
}

// Authorization signs in the back-office operator configured for this
// process. There is no user store.
type Authorization struct {
	cfg          OperatorConfig
	tokenFactory TokenFactory
	logger       *logging.ZapLogger
}

func NewAuthorization(cfg OperatorConfig, tokenFactory TokenFactory, logger *logging.ZapLogger) *Authorization {
	return &Authorization{
		cfg:          cfg,
		tokenFactory: tokenFactory,
		logger:       logger,
	}
}

func (a *Authorization) Login(ctx context.Context, login string, password string) (string, error) {
	if a.cfg.Login == "" || a.cfg.PasswordHash == "" {
		a.logger.WarnCtx(ctx, "operator login attempted but no operator is configured")
		return "", ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(login), []byte(a.cfg.Login)) != 1 {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.cfg.PasswordHash), []byte(password)); err != nil {
		a.logger.DebugCtx(ctx, "operator password mismatch", zap.String("login", login))
		return "", ErrInvalidCredentials
	}

	token, err := a.tokenFactory.Generate(login)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}
