package crm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-procurement/internal/procurement/metrics"
	"go-procurement/pkg/logging"
	"go-procurement/pkg/threadsafe"
)

// DefaultTokenTTL is used when the CRM does not say how long a token lives.
// The CRM session lasts six hours.
const DefaultTokenTTL = 6*time.Hour - 10*time.Minute

type Credential struct {
	Token string
	TTL   time.Duration
}

type Authenticator interface {
	Login(ctx context.Context) (Credential, error)
}

type cachedToken struct {
	value     string
	expiresAt time.Time
}

// TokenCache hands out a CRM bearer token, logging in again only when the
// cached one is absent or expired. Concurrent misses may each log in; the
// last successful login wins.
type TokenCache struct {
	authenticator Authenticator
	token         *threadsafe.Value[cachedToken]
	defaultTTL    time.Duration
	now           func() time.Time
	metrics       *metrics.Metrics
	logger        *logging.ZapLogger
}

func NewTokenCache(
	authenticator Authenticator,
	defaultTTL time.Duration,
	metrics *metrics.Metrics,
	logger *logging.ZapLogger,
) *TokenCache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &TokenCache{
		authenticator: authenticator,
		token:         threadsafe.NewValue(cachedToken{}),
		defaultTTL:    defaultTTL,
		now:           time.Now,
		metrics:       metrics,
		logger:        logger,
	}
}

func (c *TokenCache) Token(ctx context.Context) (string, error) {
	cached := c.token.Get()
	if cached.value != "" && c.now().Before(cached.expiresAt) {
		c.metrics.ObserveToken(metrics.TokenHit)
		return cached.value, nil
	}

	credential, err := c.authenticator.Login(ctx)
	if err != nil {
		c.metrics.ObserveToken(metrics.TokenError)
		c.logger.ErrorCtx(ctx, "crm login failed", zap.Error(err))
		if !errors.Is(err, ErrAuthentication) {
			err = fmt.Errorf("%w: %w", ErrAuthentication, err)
		}
		return "", err
	}
	ttl := credential.TTL
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	expiresAt := c.now().Add(ttl)
	c.token.Set(cachedToken{value: credential.Token, expiresAt: expiresAt})
	c.metrics.ObserveToken(metrics.TokenLogin)
	c.logger.DebugCtx(ctx, "crm token refreshed", zap.Time("expiresAt", expiresAt))
	return credential.Token, nil
}

// Invalidate drops the cached token so the next Token call logs in.
func (c *TokenCache) Invalidate() {
	c.token.Set(cachedToken{})
}
