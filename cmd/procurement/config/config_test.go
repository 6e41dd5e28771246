package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func envOf(values map[string]string) lookupEnv {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(flag.NewFlagSet("test", flag.ContinueOnError), nil, envOf(map[string]string{
		"JWT_SECRET": "s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Server.ServerAddress)
	assert.Equal(t, 10*time.Second, cfg.Purchasing.Timeout)
	assert.Equal(t, 12*time.Second, cfg.Inventory.Timeout)
	assert.Equal(t, int64(1), cfg.Inventory.LocationID)
	assert.Equal(t, "ERP-Compras", cfg.Inventory.User)
	assert.Equal(t, "GTQ", cfg.Orders.Currency)
	assert.Equal(t, "30 días", cfg.Orders.PaymentTerms)
	assert.False(t, cfg.Policy.Strict)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
	assert.Empty(t, cfg.Tracing.OTLPEndpoint)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
}

func TestLoad_EnvOverridesFlags(t *testing.T) {
	cfg, err := load(
		flag.NewFlagSet("test", flag.ContinueOnError),
		[]string{"-a", "0.0.0.0:9000", "-c", "http://crm.flag"},
		envOf(map[string]string{
			"JWT_SECRET":         "s",
			"CRM_API_URL":        "http://crm.env",
			"CRM_EMAIL":          "bot@example.com",
			"STRICT_TRANSITIONS": "true",
			"EXTERNAL_TIMEOUT":   "3s",
			"TASK_DEADLINE_DAYS": "2",
			"LOG_LEVEL":          "debug",
			"LOG_FORMAT":         "console",
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.ServerAddress)
	assert.Equal(t, "http://crm.env", cfg.CRM.ServerAddress)
	assert.Equal(t, "http://crm.env", cfg.CRMLogin.ServerAddress)
	assert.Equal(t, "bot@example.com", cfg.CRMLogin.Email)
	assert.True(t, cfg.Policy.Strict)
	assert.Equal(t, 3*time.Second, cfg.Tasks.Timeout)
	assert.Equal(t, 2, cfg.Orders.TaskDeadlineDays)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.Equal(t, LogFormatConsole, cfg.LogFormat)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing jwt secret", env: map[string]string{}},
		{name: "bad duration", env: map[string]string{"JWT_SECRET": "s", "PURCHASING_TIMEOUT": "soon"}},
		{name: "bad bool", env: map[string]string{"JWT_SECRET": "s", "STRICT_TRANSITIONS": "maybe"}},
		{name: "bad level", env: map[string]string{"JWT_SECRET": "s", "LOG_LEVEL": "loud"}},
		{name: "zero health period", env: map[string]string{"JWT_SECRET": "s", "HEALTH_CHECK_PERIOD": "0s"}},
		{name: "zero purchasing timeout", env: map[string]string{"JWT_SECRET": "s", "PURCHASING_TIMEOUT": "0s"}},
		{name: "negative external timeout", env: map[string]string{"JWT_SECRET": "s", "EXTERNAL_TIMEOUT": "-1s"}},
		{name: "unknown log format", env: map[string]string{"JWT_SECRET": "s", "LOG_FORMAT": "xml"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := load(flag.NewFlagSet("test", flag.ContinueOnError), nil, envOf(test.env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_RejectsNonPositiveTimeouts(t *testing.T) {
	for _, key := range []string{"PURCHASING_TIMEOUT", "EXTERNAL_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			_, err := load(flag.NewFlagSet("test", flag.ContinueOnError), nil, envOf(map[string]string{
				"JWT_SECRET": "s",
				key:          "0s",
			}))
			assert.ErrorIs(t, err, ErrInvalidTimeout)
		})
	}
}
