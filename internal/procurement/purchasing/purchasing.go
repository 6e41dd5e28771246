package purchasing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"go-procurement/internal/common/purchasingprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/pkg/logging"
	"go-procurement/pkg/resttrace"
	"go-procurement/pkg/timeutils"
)

var (
	ErrRejected           = errors.New("purchasing backend rejected the request")
	ErrUnexpectedResponse = errors.New("unexpected purchasing backend response")
)

type Config struct {
	ServerAddress   string
	Timeout         time.Duration
	ReadRetryDelays []time.Duration
}

// Client talks to the purchasing REST API. Reads are retried on transport
// and server errors; writes are issued exactly once.
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
		client: resttrace.Instrument(client, "purchasing"),
		cfg:    cfg,
		logger: logger,
	}
}

func (c *Client) GetOrders(ctx context.Context) ([]data.Order, error) {
	var envelope purchasingprotocol.Envelope[[]purchasingprotocol.Order]
	resp, err := c.read(ctx, func(ctx context.Context) (*resty.Response, error) {
		return c.client.R().
			SetContext(ctx).
			SetResult(&envelope).
			Get("/ordenes-compra")
	})
	if err != nil {
		return nil, fmt.Errorf("get orders request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	if !envelope.Success || envelope.Data == nil {
		c.logger.DebugCtx(ctx, "orders response without data", zap.String("message", envelope.Message))
		return make([]data.Order, 0), nil
	}
	res := make([]data.Order, len(*envelope.Data))
	for i, order := range *envelope.Data {
		res[i] = toOrder(order)
	}
	return res, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (data.Order, error) {
	var envelope purchasingprotocol.Envelope[purchasingprotocol.Order]
	resp, err := c.read(ctx, func(ctx context.Context) (*resty.Response, error) {
		return c.client.R().
			SetContext(ctx).
			SetPathParam("id", strconv.FormatInt(id, 10)).
			SetResult(&envelope).
			Get("/ordenes-compra/{id}")
	})
	if err != nil {
		return data.Order{}, fmt.Errorf("get order request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return data.Order{}, fmt.Errorf("order %d: %w", id, err)
	}
	if !envelope.Success || envelope.Data == nil {
		return data.Order{}, fmt.Errorf("order %d: %w", id, data.ErrNotFound)
	}
	c.logger.DebugCtx(ctx, "order found", zap.Int64("orderID", id))
	return toOrder(*envelope.Data), nil
}

func (c *Client) CreateOrder(ctx context.Context, request purchasingprotocol.CreateOrderRequest) (data.Order, error) {
	var envelope purchasingprotocol.Envelope[purchasingprotocol.Order]
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&envelope).
		SetError(&envelope).
		Post("/ordenes-compra")
	if err != nil {
		return data.Order{}, fmt.Errorf("create order request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return data.Order{}, fmt.Errorf("%w: %s", err, envelope.Message)
	}
	if !envelope.Success || envelope.Data == nil {
		return data.Order{}, fmt.Errorf("%w: %s", ErrRejected, envelope.Message)
	}
	return toOrder(*envelope.Data), nil
}

// UpdateStatus persists the order status and returns the raw status string
// the backend reports having stored.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status data.Status) (*string, error) {
	var envelope purchasingprotocol.Envelope[purchasingprotocol.StatusUpdateResult]
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetBody(purchasingprotocol.StatusUpdate{Estado: toEstado(status)}).
		SetResult(&envelope).
		SetError(&envelope).
		Put("/ordenes-compra/{id}/estado")
	if err != nil {
		return nil, fmt.Errorf("update status request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("order %d: %w", id, err)
	}
	if !envelope.Success || envelope.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrRejected, envelope.Message)
	}
	return envelope.Data.Estado, nil
}

func (c *Client) GetVendors(ctx context.Context) ([]data.Vendor, error) {
	var vendors []purchasingprotocol.Vendor
	resp, err := c.read(ctx, func(ctx context.Context) (*resty.Response, error) {
		return c.client.R().
			SetContext(ctx).
			SetResult(&vendors).
			Get("/proveedores")
	})
	if err != nil {
		return nil, fmt.Errorf("get vendors request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	res := make([]data.Vendor, 0, len(vendors))
	for _, vendor := range vendors {
		if vendor.State != purchasingprotocol.ActiveVendor {
			continue
		}
		res = append(res, toVendor(vendor))
	}
	return res, nil
}

func (c *Client) CreateVendor(ctx context.Context, vendor data.Vendor) (data.Vendor, error) {
	var created purchasingprotocol.Vendor
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(toVendorPayload(vendor)).
		SetResult(&created).
		Post("/proveedores")
	if err != nil {
		return data.Vendor{}, fmt.Errorf("create vendor request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return data.Vendor{}, err
	}
	return toVendor(created), nil
}

func (c *Client) UpdateVendor(ctx context.Context, id int64, vendor data.Vendor) (data.Vendor, error) {
	var updated purchasingprotocol.Vendor
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetBody(toVendorPayload(vendor)).
		SetResult(&updated).
		Put("/proveedores/{id}")
	if err != nil {
		return data.Vendor{}, fmt.Errorf("update vendor request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return data.Vendor{}, fmt.Errorf("vendor %d: %w", id, err)
	}
	return toVendor(updated), nil
}

func (c *Client) DeleteVendor(ctx context.Context, id int64) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		Delete("/proveedores/{id}")
	if err != nil {
		return fmt.Errorf("delete vendor request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("vendor %d: %w", id, err)
	}
	return nil
}

func (c *Client) Health(ctx context.Context) (purchasingprotocol.Health, error) {
	var health purchasingprotocol.Health
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&health).
		Get("/health")
	if err != nil {
		return purchasingprotocol.Health{}, fmt.Errorf("health request failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return purchasingprotocol.Health{}, err
	}
	return health, nil
}

func (c *Client) read(
	ctx context.Context,
	request func(ctx context.Context) (*resty.Response, error),
) (*resty.Response, error) {
	delays := c.cfg.ReadRetryDelays
	if len(delays) == 0 {
		return request(ctx)
	}
	return timeutils.Retry(ctx, delays, request, func(resp *resty.Response, err error) bool {
		if err != nil {
			c.logger.DebugCtx(ctx, "purchasing read failed, retrying", zap.Error(err))
			return true
		}
		return resp.StatusCode() >= http.StatusInternalServerError
	})
}

func checkStatus(resp *resty.Response) error {
	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return data.ErrNotFound
	case code >= 200 && code < 300:
		return nil
	default:
		return fmt.Errorf("%w: status code %v", ErrUnexpectedResponse, code)
	}
}
