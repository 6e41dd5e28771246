package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-procurement/internal/common/purchasingprotocol"
	"go-procurement/internal/common/tasksprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/internal/procurement/tasks"
	"go-procurement/internal/procurement/transition"
	"go-procurement/pkg/logging"
	"go-procurement/pkg/ordernumber"
)

const (
	dateLayout     = "2006-01-02"
	deadlineLayout = "2006-01-02 15:04:05"
)

// Prices are quoted with VAT included.
var taxFactor = decimal.NewFromFloat(1.12)

type OrdersConfig struct {
	Currency         string
	PaymentTerms     string
	CreatedBy        int64
	TaskPriority     string
	TaskAssignee     string
	TaskDeadlineDays int
}

type NewOrder struct {
	VendorID         int64
	VendorName       string
	ExpectedDelivery *time.Time
	Notes            string
	Lines            []NewLine
}

type NewLine struct {
	ProductID   int64
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal
}

type CreatedOrder struct {
	Order    data.Order
	Task     *data.Task
	Warnings []string
}

type Orders struct {
	backend     OrdersBackend
	tasks       TaskCreator
	transitions Transitioner
	cfg         OrdersConfig
	now         func() time.Time
	logger      *logging.ZapLogger
}

func NewOrders(
	cfg OrdersConfig,
	backend OrdersBackend,
	tasks TaskCreator,
	transitions Transitioner,
	logger *logging.ZapLogger,
) *Orders {
	return &Orders{
		backend:     backend,
		tasks:       tasks,
		transitions: transitions,
		cfg:         cfg,
		now:         time.Now,
		logger:      logger,
	}
}

func (o *Orders) GetAllOrders(ctx context.Context) ([]data.Order, error) {
	orders, err := o.backend.GetOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting orders: %w", err)
	}
	return orders, nil
}

func (o *Orders) GetOrder(ctx context.Context, id int64) (data.Order, error) {
	order, err := o.backend.GetOrder(ctx, id)
	if err != nil {
		return data.Order{}, fmt.Errorf("error getting order: %w", err)
	}
	return order, nil
}

// ChangeStatus reads the current order and hands it to the transition
// orchestrator. The returned order carries the status the backend stored.
func (o *Orders) ChangeStatus(ctx context.Context, id int64, requested data.Status) (data.Order, transition.Result, error) {
	order, err := o.backend.GetOrder(ctx, id)
	if err != nil {
		return data.Order{}, transition.Result{}, fmt.Errorf("error getting order: %w", err)
	}
	result, err := o.transitions.Transition(ctx, &order, requested)
	if err != nil {
		return order, transition.Result{}, err
	}
	return order, result, nil
}

// CreateOrder registers a new pending order and opens its follow-up task.
// A task failure is reported as a warning; the order stays created.
func (o *Orders) CreateOrder(ctx context.Context, input NewOrder) (CreatedOrder, error) {
	if err := validateOrder(input); err != nil {
		return CreatedOrder{}, err
	}

	now := o.now()
	request := o.buildRequest(input, now)
	order, err := o.backend.CreateOrder(ctx, request)
	if err != nil {
		return CreatedOrder{}, fmt.Errorf("error creating order: %w", err)
	}
	if !ordernumber.Validate(order.Number) {
		if order.Number != "" {
			o.logger.WarnCtx(ctx, "backend returned a malformed order number",
				zap.Int64("orderID", order.ID), zap.String("number", order.Number))
		}
		order.Number = request.Order.Number
	}
	o.logger.InfoCtx(ctx, "order created", zap.Int64("orderID", order.ID), zap.String("number", order.Number))

	res := CreatedOrder{Order: order}
	task, err := o.tasks.Create(ctx, o.buildTask(order, input, now))
	if err != nil {
		o.logger.WarnCtx(ctx, "error creating order task", zap.Int64("orderID", order.ID), zap.Error(err))
		res.Warnings = append(res.Warnings, fmt.Sprintf("order %s created but its task could not be created", order.Number))
		return res, nil
	}
	res.Task = &task
	return res, nil
}

func (o *Orders) buildRequest(input NewOrder, now time.Time) purchasingprotocol.CreateOrderRequest {
	lines := make([]purchasingprotocol.LinePayload, len(input.Lines))
	total := decimal.Zero
	for i, line := range input.Lines {
		item := data.LineItem{Quantity: line.Quantity, UnitPrice: line.UnitPrice, DiscountPct: line.DiscountPct}
		total = total.Add(item.Subtotal())
		lines[i] = purchasingprotocol.LinePayload{
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Discount:    line.DiscountPct,
			Description: line.Description,
			LineNumber:  i + 1,
		}
	}
	subtotal, tax := splitTax(total)

	var expected *string
	if input.ExpectedDelivery != nil {
		formatted := input.ExpectedDelivery.Format(dateLayout)
		expected = &formatted
	}
	return purchasingprotocol.CreateOrderRequest{
		Order: purchasingprotocol.OrderPayload{
			VendorID:         input.VendorID,
			Number:           ordernumber.Generate(now),
			OrderDate:        now.Format(dateLayout),
			ExpectedDelivery: expected,
			Estado:           purchasingprotocol.NewOrderEstado,
			Subtotal:         subtotal,
			Tax:              tax,
			Total:            total.Round(2),
			Currency:         o.cfg.Currency,
			PaymentTerms:     o.cfg.PaymentTerms,
			Notes:            input.Notes,
			CreatedBy:        o.cfg.CreatedBy,
		},
		Lines: lines,
	}
}

func (o *Orders) buildTask(order data.Order, input NewOrder, now time.Time) tasksprotocol.CreateRequest {
	deadline := now.AddDate(0, 0, o.cfg.TaskDeadlineDays)
	if input.ExpectedDelivery != nil {
		deadline = *input.ExpectedDelivery
	}
	deadline = time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 12, 0, 0, 0, deadline.Location())

	vendor := input.VendorName
	if vendor == "" {
		vendor = fmt.Sprintf("proveedor %d", input.VendorID)
	}
	return tasksprotocol.CreateRequest{
		Title:       tasks.OrderTaskTitle(order.ID),
		Description: fmt.Sprintf("Dar seguimiento a la orden %s de %s", order.Number, vendor),
		Deadline:    deadline.Format(deadlineLayout),
		Estado:      tasksprotocol.Pending,
		Priority:    o.cfg.TaskPriority,
		Assignee:    o.cfg.TaskAssignee,
	}
}

// splitTax separates the VAT already included in total.
func splitTax(total decimal.Decimal) (subtotal, tax decimal.Decimal) {
	total = total.Round(2)
	subtotal = total.Div(taxFactor).Round(2)
	return subtotal, total.Sub(subtotal)
}

var hundred = decimal.NewFromInt(100)

func validateOrder(input NewOrder) error {
	if input.VendorID <= 0 {
		return fmt.Errorf("%w: vendor is required", ErrInvalidOrder)
	}
	if len(input.Lines) == 0 {
		return fmt.Errorf("%w: at least one line is required", ErrInvalidOrder)
	}
	for i, line := range input.Lines {
		switch {
		case line.ProductID <= 0:
			return fmt.Errorf("%w: line %d: product is required", ErrInvalidOrder, i+1)
		case line.Quantity <= 0:
			return fmt.Errorf("%w: line %d: quantity must be positive", ErrInvalidOrder, i+1)
		case line.UnitPrice.IsNegative():
			return fmt.Errorf("%w: line %d: unit price must not be negative", ErrInvalidOrder, i+1)
		case line.DiscountPct.IsNegative() || line.DiscountPct.GreaterThan(hundred):
			return fmt.Errorf("%w: line %d: discount must be between 0 and 100", ErrInvalidOrder, i+1)
		}
	}
	return nil
}
