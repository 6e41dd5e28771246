package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"go-procurement/internal/common/inventoryprotocol"
	"go-procurement/pkg/logging"
	"go-procurement/pkg/resttrace"
)

var ErrAdjustmentRejected = errors.New("inventory adjustment rejected")

const defaultReason = "Ajuste de inventario"

type Config struct {
	ServerAddress string
	Timeout       time.Duration
	LocationID    int64
	User          string
}

type Adjustment struct {
	ProductID int64
	Quantity  int
	Reason    string
}

type Client struct {
	client *resty.Client
	cfg    Config
	logger *logging.ZapLogger
}

func New(cfg Config, logger *logging.ZapLogger) *Client {
	client := resty.New().
		SetBaseURL(cfg.ServerAddress).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{
		client: resttrace.Instrument(client, "inventory"),
		cfg:    cfg,
		logger: logger,
	}
}

// Adjust posts one stock movement. A positive quantity means stock received.
func (c *Client) Adjust(ctx context.Context, adjustment Adjustment) error {
	reason := adjustment.Reason
	if reason == "" {
		reason = defaultReason
	}
	body := inventoryprotocol.Adjustment{
		ProductID:  adjustment.ProductID,
		LocationID: c.cfg.LocationID,
		Quantity:   adjustment.Quantity,
		Reason:     reason,
		User:       c.cfg.User,
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/api/inventory/adjust")
	if err != nil {
		return fmt.Errorf("adjust request failed: %w", err)
	}
	if resp.IsError() {
		c.logger.DebugCtx(
			ctx,
			"inventory adjustment rejected",
			zap.Int64("productID", adjustment.ProductID),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("body", resp.Body()),
		)
		return fmt.Errorf("%w: product %d: status code %v", ErrAdjustmentRejected, adjustment.ProductID, resp.StatusCode())
	}
	return nil
}
