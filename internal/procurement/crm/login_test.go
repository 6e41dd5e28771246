package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-procurement/internal/common/crmprotocol"
)

func TestLogin_Login(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expected    Credential
		expectedErr error
	}{
		{
			name:     "token with expires_in",
			status:   http.StatusOK,
			body:     `{"token": "abc", "expires_in": 3600}`,
			expected: Credential{Token: "abc", TTL: time.Hour},
		},
		{
			name:     "access_token",
			status:   http.StatusOK,
			body:     `{"access_token": "def", "expiresIn": 60}`,
			expected: Credential{Token: "def", TTL: time.Minute},
		},
		{
			name:     "accessToken without expiry",
			status:   http.StatusOK,
			body:     `{"accessToken": "ghi"}`,
			expected: Credential{Token: "ghi"},
		},
		{
			name:     "nested data",
			status:   http.StatusOK,
			body:     `{"data": {"token": "jkl", "expires_in": 120}}`,
			expected: Credential{Token: "jkl", TTL: 2 * time.Minute},
		},
		{
			name:     "jwt",
			status:   http.StatusOK,
			body:     `{"jwt": "mno"}`,
			expected: Credential{Token: "mno"},
		},
		{
			name:        "no token",
			status:      http.StatusOK,
			body:        `{"message": "ok"}`,
			expectedErr: ErrAuthentication,
		},
		{
			name:        "bad credentials",
			status:      http.StatusUnauthorized,
			body:        `{"message": "invalid"}`,
			expectedErr: ErrAuthentication,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/Auth/Login", r.URL.Path)
				var body crmprotocol.LoginRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "buyer@example.com", body.Email)
				assert.Equal(t, "secret", body.Password)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(test.status)
				_, _ = w.Write([]byte(test.body))
			}))
			defer server.Close()

			login := NewLogin(LoginConfig{
				ServerAddress: server.URL,
				Email:         "buyer@example.com",
				Password:      "secret",
				Timeout:       time.Second,
			})
			credential, err := login.Login(context.Background())
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, credential)
		})
	}
}

func TestLogin_MissingConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  LoginConfig
	}{
		{name: "no address", cfg: LoginConfig{Email: "a@b.c", Password: "x"}},
		{name: "no email", cfg: LoginConfig{ServerAddress: "http://127.0.0.1:1", Password: "x"}},
		{name: "no password", cfg: LoginConfig{ServerAddress: "http://127.0.0.1:1", Email: "a@b.c"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewLogin(test.cfg).Login(context.Background())
			assert.ErrorIs(t, err, ErrAuthentication)
		})
	}
}
