package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"go-procurement/internal/common/crmprotocol"
	"go-procurement/pkg/resttrace"
)

type LoginConfig struct {
	ServerAddress string
	Email         string
	Password      string
	Timeout       time.Duration
}

// Login exchanges the configured credentials for a bearer token.
type Login struct {
	client *resty.Client
	cfg    LoginConfig
}

func NewLogin(cfg LoginConfig) *Login {
	client := resty.New().
		SetBaseURL(cfg.ServerAddress).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	return &Login{
		client: resttrace.Instrument(client, "crm-auth"),
		cfg:    cfg,
	}
}

func (l *Login) Login(ctx context.Context) (Credential, error) {
	if l.cfg.ServerAddress == "" {
		return Credential{}, fmt.Errorf("%w: crm address is not configured", ErrAuthentication)
	}
	if l.cfg.Email == "" || l.cfg.Password == "" {
		return Credential{}, fmt.Errorf("%w: crm credentials are not configured", ErrAuthentication)
	}

	var body crmprotocol.LoginResponse
	resp, err := l.client.R().
		SetContext(ctx).
		SetBody(crmprotocol.LoginRequest{Email: l.cfg.Email, Password: l.cfg.Password}).
		SetResult(&body).
		Post("/api/Auth/Login")
	if err != nil {
		return Credential{}, fmt.Errorf("%w: login request failed: %w", ErrAuthentication, err)
	}
	if resp.IsError() {
		return Credential{}, fmt.Errorf("%w: status code %v", ErrAuthentication, resp.StatusCode())
	}

	token := tokenFrom(body)
	if token == "" {
		return Credential{}, fmt.Errorf("%w: no token in login response", ErrAuthentication)
	}
	return Credential{Token: token, TTL: ttlFrom(body)}, nil
}

func tokenFrom(body crmprotocol.LoginResponse) string {
	candidates := []string{body.Token, body.AccessToken, body.AccessTok}
	if body.Data != nil {
		candidates = append(candidates, body.Data.Token)
	}
	candidates = append(candidates, body.JWT)
	for _, candidate := range candidates {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func ttlFrom(body crmprotocol.LoginResponse) time.Duration {
	seconds := body.ExpiresIn
	if seconds == nil || *seconds <= 0 {
		seconds = body.ExpiresInC
	}
	if (seconds == nil || *seconds <= 0) && body.Data != nil {
		seconds = body.Data.ExpiresIn
	}
	if seconds == nil || *seconds <= 0 {
		return 0
	}
	return time.Duration(*seconds * float64(time.Second))
}
