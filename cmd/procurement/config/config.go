package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"

	"go-procurement/internal/procurement"
	"go-procurement/internal/procurement/crm"
	"go-procurement/internal/procurement/healthmonitor"
	"go-procurement/internal/procurement/inventory"
	"go-procurement/internal/procurement/purchasing"
	"go-procurement/internal/procurement/service"
	"go-procurement/internal/procurement/tasks"
	"go-procurement/internal/procurement/transition"
	"go-procurement/pkg/tracing"
)

const serviceName = "go-procurement"

var (
	ErrMissingJWTSecret    = errors.New("JWT_SECRET must be set")
	ErrInvalidHealthPeriod = errors.New("health check period must be positive")
	ErrInvalidTimeout      = errors.New("timeout must be positive")
	ErrInvalidLogFormat    = errors.New("log format must be json or console")
)

const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

type Config struct {
	Server          procurement.Config
	JWTConfig       JWTConfig
	Purchasing      purchasing.Config
	CRM             crm.Config
	CRMLogin        crm.LoginConfig
	Inventory       inventory.Config
	Tasks           tasks.Config
	Orders          service.OrdersConfig
	Operator        service.OperatorConfig
	Policy          transition.Policy
	Health          healthmonitor.Config
	Tracing         tracing.Config
	LogLevel        zapcore.Level
	LogFormat       string
	TokenTTL        time.Duration
	ShutdownTimeout time.Duration
}

type JWTConfig struct {
	Algorithm      string
	Secret         string
	ExpirationTime time.Duration
}

func Load() (*Config, error) {
	return load(flag.CommandLine, os.Args[1:], os.LookupEnv)
}

type lookupEnv func(key string) (string, bool)

// load registers every flag on fs, parses args and then lets environment
// variables override whatever the flags said.
func load(fs *flag.FlagSet, args []string, env lookupEnv) (*Config, error) {
	serverAddress := fs.String("a", "localhost:8080", "Server address host:port")
	purchasingAddress := fs.String("p", "http://localhost:5000", "Purchasing API base URL")
	crmAddress := fs.String("c", "", "CRM API base URL")
	inventoryAddress := fs.String("i", "", "Inventory API base URL")
	tasksAddress := fs.String("t", "", "Tasks API base URL")
	crmEmail := fs.String("crm-email", "", "CRM login email")
	crmPassword := fs.String("crm-password", "", "CRM login password")
	purchasingTimeout := fs.Duration("purchasing-timeout", 10*time.Second, "Purchasing API call timeout")
	externalTimeout := fs.Duration("external-timeout", 12*time.Second, "CRM, inventory and tasks call timeout")
	inventoryLocation := fs.Int64("inventory-location", 1, "Inventory location receiving stock")
	inventoryUser := fs.String("inventory-user", "ERP-Compras", "User recorded on inventory adjustments")
	strict := fs.Bool("strict-transitions", false, "Enforce the full order status graph")
	approvedToRejected := fs.Bool("allow-approved-to-rejected", false, "Allow APPROVED -> REJECTED under strict transitions")
	taskPriority := fs.String("task-priority", "Media", "Priority of tasks opened for new orders")
	taskAssignee := fs.String("task-assignee", "", "Assignee of tasks opened for new orders")
	taskDeadlineDays := fs.Int("task-deadline-days", 7, "Task deadline in days when an order has no expected delivery")
	currency := fs.String("currency", "GTQ", "Currency of new orders")
	paymentTerms := fs.String("payment-terms", "30 días", "Payment terms of new orders")
	createdBy := fs.Int64("created-by", 1, "Purchasing user id recorded as order creator")
	operatorLogin := fs.String("operator-login", "", "Admin API operator login")
	operatorPasswordHash := fs.String("operator-password-hash", "", "Admin API operator bcrypt password hash")
	jwtSecret := fs.String("jwt-secret", "", "Secret signing admin API tokens")
	otlpEndpoint := fs.String("otlp-endpoint", "", "OTLP/HTTP trace collector host:port, empty disables tracing")
	logLevel := fs.String("log-level", "info", "Log level")
	logFormat := fs.String("log-format", LogFormatJSON, "Log encoding, json or console")
	healthPeriod := fs.Duration("health-period", 30*time.Second, "Purchasing health probe period")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	overrides := []struct {
		env   string
		apply func(string) error
	}{
		{"RUN_ADDRESS", setString(serverAddress)},
		{"PURCHASING_API_URL", setString(purchasingAddress)},
		{"CRM_API_URL", setString(crmAddress)},
		{"INVENTORY_API_URL", setString(inventoryAddress)},
		{"TASKS_API_URL", setString(tasksAddress)},
		{"CRM_EMAIL", setString(crmEmail)},
		{"CRM_PASSWORD", setString(crmPassword)},
		{"PURCHASING_TIMEOUT", setDuration(purchasingTimeout)},
		{"EXTERNAL_TIMEOUT", setDuration(externalTimeout)},
		{"INVENTORY_LOCATION_ID", setInt64(inventoryLocation)},
		{"INVENTORY_USER", setString(inventoryUser)},
		{"STRICT_TRANSITIONS", setBool(strict)},
		{"ALLOW_APPROVED_TO_REJECTED", setBool(approvedToRejected)},
		{"TASK_PRIORITY", setString(taskPriority)},
		{"TASK_ASSIGNEE", setString(taskAssignee)},
		{"TASK_DEADLINE_DAYS", setInt(taskDeadlineDays)},
		{"ORDER_CURRENCY", setString(currency)},
		{"PAYMENT_TERMS", setString(paymentTerms)},
		{"ORDER_CREATED_BY", setInt64(createdBy)},
		{"OPERATOR_LOGIN", setString(operatorLogin)},
		{"OPERATOR_PASSWORD_HASH", setString(operatorPasswordHash)},
		{"JWT_SECRET", setString(jwtSecret)},
		{"OTEL_EXPORTER_OTLP_ENDPOINT", setString(otlpEndpoint)},
		{"LOG_LEVEL", setString(logLevel)},
		{"LOG_FORMAT", setString(logFormat)},
		{"HEALTH_CHECK_PERIOD", setDuration(healthPeriod)},
	}
	for _, o := range overrides {
		if valStr, ok := env(o.env); ok {
			if err := o.apply(valStr); err != nil {
				return nil, fmt.Errorf("invalid %s: %w", o.env, err)
			}
		}
	}

	if *jwtSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if *healthPeriod <= 0 {
		return nil, ErrInvalidHealthPeriod
	}
	if *purchasingTimeout <= 0 {
		return nil, fmt.Errorf("purchasing: %w", ErrInvalidTimeout)
	}
	if *externalTimeout <= 0 {
		return nil, fmt.Errorf("external: %w", ErrInvalidTimeout)
	}
	if *logFormat != LogFormatJSON && *logFormat != LogFormatConsole {
		return nil, ErrInvalidLogFormat
	}
	level, err := zapcore.ParseLevel(*logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	return &Config{
		Server: procurement.Config{
			ServerAddress:   *serverAddress,
			ShutdownTimeout: time.Second * 5,
		},
		JWTConfig: JWTConfig{
			Algorithm:      "HS256",
			Secret:         *jwtSecret,
			ExpirationTime: 8 * time.Hour,
		},
		Purchasing: purchasing.Config{
			ServerAddress:   *purchasingAddress,
			Timeout:         *purchasingTimeout,
			ReadRetryDelays: []time.Duration{time.Second, 2 * time.Second},
		},
		CRM: crm.Config{
			ServerAddress: *crmAddress,
			Timeout:       *externalTimeout,
		},
		CRMLogin: crm.LoginConfig{
			ServerAddress: *crmAddress,
			Email:         *crmEmail,
			Password:      *crmPassword,
			Timeout:       *externalTimeout,
		},
		Inventory: inventory.Config{
			ServerAddress: *inventoryAddress,
			Timeout:       *externalTimeout,
			LocationID:    *inventoryLocation,
			User:          *inventoryUser,
		},
		Tasks: tasks.Config{
			ServerAddress: *tasksAddress,
			Timeout:       *externalTimeout,
		},
		Orders: service.OrdersConfig{
			Currency:         *currency,
			PaymentTerms:     *paymentTerms,
			CreatedBy:        *createdBy,
			TaskPriority:     *taskPriority,
			TaskAssignee:     *taskAssignee,
			TaskDeadlineDays: *taskDeadlineDays,
		},
		Operator: service.OperatorConfig{
			Login:        *operatorLogin,
			PasswordHash: *operatorPasswordHash,
		},
		Policy: transition.Policy{
			Strict:                  *strict,
			AllowApprovedToRejected: *approvedToRejected,
		},
		Health: healthmonitor.Config{
			TickPeriod:   *healthPeriod,
			ProbeTimeout: *purchasingTimeout,
		},
		Tracing: tracing.Config{
			ServiceName:  serviceName,
			OTLPEndpoint: *otlpEndpoint,
		},
		LogLevel:        level,
		LogFormat:       *logFormat,
		TokenTTL:        crm.DefaultTokenTTL,
		ShutdownTimeout: time.Second * 5,
	}, nil
}

func setString(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func setDuration(dst *time.Duration) func(string) error {
	return func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}

func setBool(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

func setInt(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func setInt64(dst *int64) func(string) error {
	return func(v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}
