package transition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-procurement/internal/common/tasksprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/internal/procurement/inventory"
	"go-procurement/internal/procurement/metrics"
	"go-procurement/internal/procurement/status"
	"go-procurement/internal/procurement/tasks"
	"go-procurement/pkg/logging"
	"go-procurement/pkg/threadsafe"
)

const tracerName = "go-procurement/transition"

type StatusPersister interface {
	// UpdateStatus returns the status string the backend actually stored,
	// or nil when the response did not include one.
	UpdateStatus(ctx context.Context, id int64, status data.Status) (*string, error)
}

type TaskSync interface {
	FindByTitle(ctx context.Context, title string) (data.Task, error)
	UpdateStatus(ctx context.Context, taskID int64, estado string) error
}

type InventoryAdjuster interface {
	Adjust(ctx context.Context, adjustment inventory.Adjustment) error
}

type TaskResult string

const (
	TaskNotRequired = TaskResult("NOT_REQUIRED")
	TaskUpdated     = TaskResult("UPDATED")
	TaskNotFound    = TaskResult("NOT_FOUND")
	TaskClientError = TaskResult("CLIENT_ERROR")
	TaskServerError = TaskResult("SERVER_ERROR")
)

type TaskOutcome struct {
	Result TaskResult
	TaskID int64
	Estado string
	Detail string
}

type Result struct {
	Status data.Status
	// Inventory is set only for transitions to DELIVERED.
	Inventory     *AggregateOutcome
	Task          TaskOutcome
	Effects       []data.SideEffectOutcome
	Notifications []Notification
}

const (
	resultOK          = "ok"
	resultNoOp        = "noop"
	resultInvalid     = "invalid"
	resultInProgress  = "in_progress"
	resultPersistence = "persistence_error"
)

// Orchestrator changes an order's status and runs the dependent task and
// inventory calls. The status change is authoritative: once persisted it is
// never undone, whatever happens to the dependent calls.
type Orchestrator struct {
	persister StatusPersister
	tasks     TaskSync
	inventory InventoryAdjuster
	policy    Policy
	inFlight  *threadsafe.HashSet[int64]
	now       func() time.Time
	tracer    trace.Tracer
	metrics   *metrics.Metrics
	logger    *logging.ZapLogger
}

func New(
	policy Policy,
	persister StatusPersister,
	tasks TaskSync,
	inventory InventoryAdjuster,
	metrics *metrics.Metrics,
	logger *logging.ZapLogger,
) *Orchestrator {
	return &Orchestrator{
		persister: persister,
		tasks:     tasks,
		inventory: inventory,
		policy:    policy,
		inFlight:  threadsafe.NewHashSet[int64](),
		now:       time.Now,
		tracer:    otel.Tracer(tracerName),
		metrics:   metrics,
		logger:    logger,
	}
}

// Transition moves order to requested. On success order.Status and
// order.LastStatusChangeAt reflect what the backend stored; on any error the
// order is left untouched.
func (o *Orchestrator) Transition(ctx context.Context, order *data.Order, requested data.Status) (Result, error) {
	started := time.Now()
	from := order.Status
	ctx = logging.WithContextFields(ctx, zap.Int64("orderID", order.ID))

	if err := o.policy.Check(from, requested); err != nil {
		result := resultInvalid
		if errors.Is(err, ErrNoOp) {
			result = resultNoOp
		}
		o.metrics.ObserveTransition(from, requested, result, time.Since(started))
		return Result{}, err
	}

	if !o.inFlight.Add(order.ID) {
		o.metrics.ObserveTransition(from, requested, resultInProgress, time.Since(started))
		return Result{}, ErrTransitionInProgress
	}
	defer o.inFlight.Remove(order.ID)

	ctx, span := o.tracer.Start(ctx, "order.transition", trace.WithAttributes(
		attribute.Int64("order.id", order.ID),
		attribute.String("order.status.from", string(from)),
		attribute.String("order.status.to", string(requested)),
	))
	defer span.End()

	persisted, err := o.persist(ctx, order.ID, requested)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		o.logger.ErrorCtx(ctx, "error persisting order status", zap.String("status", string(requested)), zap.Error(err))
		o.metrics.ObserveTransition(from, requested, resultPersistence, time.Since(started))
		return Result{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	order.Status = persisted
	order.LastStatusChangeAt = o.now()
	o.logger.InfoCtx(ctx, "order status changed", zap.String("from", string(from)), zap.String("to", string(persisted)))

	// The status is committed; dependent calls must not be abandoned halfway
	// because the caller went away.
	result := o.runEffects(context.WithoutCancel(ctx), order)

	o.metrics.ObserveTransition(from, persisted, resultOK, time.Since(started))
	return result, nil
}

func (o *Orchestrator) persist(ctx context.Context, orderID int64, requested data.Status) (data.Status, error) {
	ctx, span := o.tracer.Start(ctx, "order.persist_status")
	defer span.End()

	raw, err := o.persister.UpdateStatus(ctx, orderID, requested)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	if raw == nil {
		o.logger.DebugCtx(ctx, "backend did not echo the stored status")
		return requested, nil
	}
	return status.Normalize(raw), nil
}

func (o *Orchestrator) runEffects(ctx context.Context, order *data.Order) Result {
	result := Result{
		Status: order.Status,
		Task:   TaskOutcome{Result: TaskNotRequired},
	}

	switch order.Status {
	case data.ApprovedStatus:
		o.syncTask(ctx, order.ID, tasksprotocol.InProgress, &result)
		result.Notifications = append(result.Notifications, statusChanged(order))
	case data.RejectedStatus:
		o.syncTask(ctx, order.ID, tasksprotocol.Completed, &result)
		result.Notifications = append(result.Notifications, statusChanged(order))
	case data.DeliveredStatus:
		o.syncTask(ctx, order.ID, tasksprotocol.Completed, &result)
		outcomes := o.adjustInventory(ctx, order)
		aggregate := Aggregate(outcomes)
		result.Inventory = &aggregate
		result.Effects = append(result.Effects, outcomes...)
		result.Notifications = append(result.Notifications, inventoryNotification(order.ID, aggregate))
	default:
		result.Notifications = append(result.Notifications, statusChanged(order))
	}

	if note, ok := taskNotification(order.ID, result.Task); ok {
		result.Notifications = append(result.Notifications, note)
	}
	for _, effect := range result.Effects {
		o.metrics.ObserveSideEffect(effect)
	}
	return result
}

// syncTask moves the order's task to estado. Tasks are optional records, so a
// missing task is only logged.
func (o *Orchestrator) syncTask(ctx context.Context, orderID int64, estado string, result *Result) {
	ctx, span := o.tracer.Start(ctx, "order.task_sync", trace.WithAttributes(attribute.String("task.estado", estado)))
	defer span.End()

	outcome := TaskOutcome{Estado: estado}
	task, err := o.tasks.FindByTitle(ctx, tasks.OrderTaskTitle(orderID))
	if err == nil {
		outcome.TaskID = task.ID
		err = o.tasks.UpdateStatus(ctx, task.ID, estado)
	}

	var statusErr *tasks.StatusError
	switch {
	case err == nil:
		outcome.Result = TaskUpdated
		o.logger.DebugCtx(ctx, "task updated", zap.Int64("taskID", task.ID), zap.String("estado", estado))
	case errors.Is(err, tasks.ErrTaskNotFound):
		outcome.Result = TaskNotFound
		o.logger.InfoCtx(ctx, "no task found for order", zap.String("title", tasks.OrderTaskTitle(orderID)))
	case errors.As(err, &statusErr) && !statusErr.ServerSide():
		outcome.Result = TaskClientError
		outcome.Detail = err.Error()
		o.logger.DebugCtx(ctx, "task service refused the update", zap.Error(err))
	default:
		outcome.Result = TaskServerError
		outcome.Detail = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "task sync failed")
		o.logger.WarnCtx(ctx, "error syncing task", zap.Error(err))
	}
	result.Task = outcome

	switch outcome.Result {
	case TaskUpdated:
		result.Effects = append(result.Effects, data.SideEffectOutcome{
			Target: data.TaskTarget,
			Result: data.Success,
			Detail: fmt.Sprintf("task %d moved to %s", outcome.TaskID, estado),
		})
	case TaskClientError, TaskServerError:
		result.Effects = append(result.Effects, data.SideEffectOutcome{
			Target: data.TaskTarget,
			Result: data.Failure,
			Detail: outcome.Detail,
		})
	}
}

// adjustInventory issues one adjustment per line, all at once, and waits for
// every one of them. A failed adjustment never cancels the others.
func (o *Orchestrator) adjustInventory(ctx context.Context, order *data.Order) []data.SideEffectOutcome {
	outcomes := make([]data.SideEffectOutcome, len(order.Lines))
	reason := fmt.Sprintf("Compra recibida OC-%d", order.ID)

	var group errgroup.Group
	for i, line := range order.Lines {
		group.Go(func() error {
			outcomes[i] = o.adjustLine(ctx, line, reason)
			return nil
		})
	}
	_ = group.Wait()
	return outcomes
}

func (o *Orchestrator) adjustLine(ctx context.Context, line data.LineItem, reason string) data.SideEffectOutcome {
	ctx, span := o.tracer.Start(ctx, "order.inventory_adjust", trace.WithAttributes(
		attribute.Int64("product.id", line.ProductID),
		attribute.Int("quantity", line.Quantity),
	))
	defer span.End()

	err := o.inventory.Adjust(ctx, inventory.Adjustment{
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Reason:    reason,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "adjustment failed")
		o.logger.WarnCtx(ctx, "error adjusting inventory", zap.Int64("productID", line.ProductID), zap.Error(err))
		return data.SideEffectOutcome{
			Target: data.InventoryTarget,
			Result: data.Failure,
			Detail: fmt.Sprintf("product %d: %v", line.ProductID, err),
		}
	}
	return data.SideEffectOutcome{
		Target: data.InventoryTarget,
		Result: data.Success,
		Detail: fmt.Sprintf("product %d: +%d", line.ProductID, line.Quantity),
	}
}

func statusChanged(order *data.Order) Notification {
	return newNotification(LevelSuccess, fmt.Sprintf("order %d status changed to %s", order.ID, order.Status))
}

func inventoryNotification(orderID int64, aggregate AggregateOutcome) Notification {
	switch aggregate.Class {
	case AllSucceeded:
		return newNotification(LevelSuccess, fmt.Sprintf("inventory updated for order %d", orderID))
	case Partial:
		return newNotification(LevelWarning, fmt.Sprintf(
			"inventory partially updated for order %d (%d/%d)", orderID, aggregate.Succeeded, aggregate.Total,
		))
	case AllFailed:
		return newNotification(LevelError, fmt.Sprintf("inventory could not be updated for order %d", orderID))
	default:
		return newNotification(LevelWarning, fmt.Sprintf("order %d has no line items, nothing to adjust", orderID))
	}
}

func taskNotification(orderID int64, outcome TaskOutcome) (Notification, bool) {
	switch outcome.Result {
	case TaskUpdated:
		return newNotification(LevelInfo, fmt.Sprintf("task for order %d moved to %s", orderID, outcome.Estado)), true
	case TaskServerError:
		return newNotification(LevelWarning, fmt.Sprintf("task for order %d could not be updated", orderID)), true
	}
	return Notification{}, false
}
