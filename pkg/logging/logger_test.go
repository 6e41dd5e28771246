package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestWithContextFields(t *testing.T) {
	ctx := WithContextFields(context.Background(), zap.String("path", "/api/orders"))
	ctx = WithContextFields(ctx, zap.String("request-id", "abc"))

	fields := fieldsFromCtx(ctx)
	assert.Len(t, fields, 2)
	assert.Equal(t, "path", fields[0].Key)
	assert.Equal(t, "request-id", fields[1].Key)
}

func TestWithCtxFields_DoesNotAliasContextSlice(t *testing.T) {
	ctx := WithContextFields(context.Background(), zap.String("a", "1"))

	first := withCtxFields(ctx, []zap.Field{zap.String("b", "2")})
	second := withCtxFields(ctx, []zap.Field{zap.String("c", "3")})

	assert.Equal(t, "b", first[1].Key)
	assert.Equal(t, "c", second[1].Key)
	assert.Len(t, fieldsFromCtx(ctx), 1)
}

func TestWithCtxFields_NoContextFields(t *testing.T) {
	fields := withCtxFields(context.Background(), []zap.Field{zap.Int("n", 1)})
	assert.Len(t, fields, 1)
}

func TestNewLoggers(t *testing.T) {
	tests := []struct {
		name  string
		build func(zapcore.Level) (*ZapLogger, error)
	}{
		{name: "json", build: NewZapLogger},
		{name: "console", build: NewConsoleZapLogger},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			logger, err := test.build(zapcore.WarnLevel)
			require.NoError(t, err)
			assert.False(t, logger.logger.Core().Enabled(zapcore.InfoLevel))
			assert.True(t, logger.logger.Core().Enabled(zapcore.WarnLevel))
		})
	}
}
