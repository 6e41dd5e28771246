package transition

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-procurement/internal/common/tasksprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/internal/procurement/inventory"
	"go-procurement/internal/procurement/tasks"
	"go-procurement/pkg/logging"
)

type mockPersister struct {
	mock.Mock
}

func (m *mockPersister) UpdateStatus(ctx context.Context, id int64, status data.Status) (*string, error) {
	args := m.Called(ctx, id, status)
	raw, _ := args.Get(0).(*string)
	return raw, args.Error(1)
}

type mockTasks struct {
	mock.Mock
}

func (m *mockTasks) FindByTitle(ctx context.Context, title string) (data.Task, error) {
	args := m.Called(ctx, title)
	return args.Get(0).(data.Task), args.Error(1)
}

func (m *mockTasks) UpdateStatus(ctx context.Context, taskID int64, estado string) error {
	args := m.Called(ctx, taskID, estado)
	return args.Error(0)
}

type mockInventory struct {
	mock.Mock
}

func (m *mockInventory) Adjust(ctx context.Context, adjustment inventory.Adjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type fixture struct {
	persister *mockPersister
	tasks     *mockTasks
	inventory *mockInventory
	orch      *Orchestrator
}

func newFixture(policy Policy) *fixture {
	f := &fixture{
		persister: new(mockPersister),
		tasks:     new(mockTasks),
		inventory: new(mockInventory),
	}
	f.orch = New(policy, f.persister, f.tasks, f.inventory, nil, logging.NewNop())
	f.orch.now = func() time.Time { return time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) assertNoCalls(t *testing.T) {
	f.persister.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	f.tasks.AssertNotCalled(t, "FindByTitle", mock.Anything, mock.Anything)
	f.tasks.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	f.inventory.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything)
}

func ptr(s string) *string {
	return &s
}

func order42() *data.Order {
	return &data.Order{
		ID:     42,
		Status: data.PendingStatus,
		Lines: []data.LineItem{
			{ProductID: 101, Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
			{ProductID: 102, Quantity: 1, UnitPrice: decimal.NewFromInt(25)},
			{ProductID: 103, Quantity: 5, UnitPrice: decimal.NewFromInt(4)},
		},
	}
}

func adjustmentFor(productID int64, quantity int) inventory.Adjustment {
	return inventory.Adjustment{ProductID: productID, Quantity: quantity, Reason: "Compra recibida OC-42"}
}

func TestTransition_PreconditionsMakeNoCalls(t *testing.T) {
	tests := []struct {
		name        string
		from        data.Status
		to          data.Status
		expectedErr error
	}{
		{name: "no-op pending", from: data.PendingStatus, to: data.PendingStatus, expectedErr: ErrNoOp},
		{name: "no-op approved", from: data.ApprovedStatus, to: data.ApprovedStatus, expectedErr: ErrNoOp},
		{name: "order 7 delivered to pending", from: data.DeliveredStatus, to: data.PendingStatus, expectedErr: ErrInvalidTransition},
		{name: "delivered to approved", from: data.DeliveredStatus, to: data.ApprovedStatus, expectedErr: ErrInvalidTransition},
		{name: "rejected to delivered", from: data.RejectedStatus, to: data.DeliveredStatus, expectedErr: ErrInvalidTransition},
		{name: "rejected to pending", from: data.RejectedStatus, to: data.PendingStatus, expectedErr: ErrInvalidTransition},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFixture(Policy{})
			order := &data.Order{ID: 7, Status: test.from, Lines: order42().Lines}

			_, err := f.orch.Transition(context.Background(), order, test.to)
			assert.ErrorIs(t, err, test.expectedErr)
			assert.Equal(t, test.from, order.Status)
			f.assertNoCalls(t)
		})
	}
}

func TestTransition_PersistenceFailure(t *testing.T) {
	f := newFixture(Policy{})
	f.persister.On("UpdateStatus", mock.Anything, int64(42), data.DeliveredStatus).
		Return(nil, errors.New("context deadline exceeded"))
	order := order42()

	_, err := f.orch.Transition(context.Background(), order, data.DeliveredStatus)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, data.PendingStatus, order.Status)
	assert.True(t, order.LastStatusChangeAt.IsZero())
	f.tasks.AssertNotCalled(t, "FindByTitle", mock.Anything, mock.Anything)
	f.inventory.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything)
}

func TestTransition_DeliveredAllSucceeded(t *testing.T) {
	f := newFixture(Policy{})
	f.persister.On("UpdateStatus", mock.Anything, int64(42), data.DeliveredStatus).Return(ptr("ENTREGADA"), nil).Once()
	f.tasks.On("FindByTitle", mock.Anything, "OC-42 creada").Return(data.Task{ID: 9, Title: "OC-42 creada"}, nil).Once()
	f.tasks.On("UpdateStatus", mock.Anything, int64(9), tasksprotocol.Completed).Return(nil).Once()

	var arrived sync.WaitGroup
	arrived.Add(3)
	allArrived := make(chan struct{})
	go func() {
		arrived.Wait()
		close(allArrived)
	}()
	concurrent := true
	var concurrentMux sync.Mutex
	waitForSiblings := func(mock.Arguments) {
		arrived.Done()
		select {
		case <-allArrived:
		case <-time.After(2 * time.Second):
			concurrentMux.Lock()
			concurrent = false
			concurrentMux.Unlock()
		}
	}
	f.inventory.On("Adjust", mock.Anything, adjustmentFor(101, 2)).Run(waitForSiblings).Return(nil).Once()
	f.inventory.On("Adjust", mock.Anything, adjustmentFor(102, 1)).Run(waitForSiblings).Return(nil).Once()
	f.inventory.On("Adjust", mock.Anything, adjustmentFor(103, 5)).Run(waitForSiblings).Return(nil).Once()

	order := order42()
	result, err := f.orch.Transition(context.Background(), order, data.DeliveredStatus)
	require.NoError(t, err)

	assert.True(t, concurrent, "inventory adjustments were not issued concurrently")
	assert.Equal(t, data.DeliveredStatus, result.Status)
	assert.Equal(t, data.DeliveredStatus, order.Status)
	assert.Equal(t, time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC), order.LastStatusChangeAt)
	require.NotNil(t, result.Inventory)
	assert.Equal(t, AggregateOutcome{Class: AllSucceeded, Succeeded: 3, Total: 3}, *result.Inventory)
	assert.Equal(t, TaskUpdated, result.Task.Result)
	assert.Len(t, result.Effects, 4)

	require.Len(t, result.Notifications, 2)
	assert.Equal(t, LevelSuccess, result.Notifications[0].Level)
	assert.Equal(t, "inventory updated for order 42", result.Notifications[0].Message)
	assert.Equal(t, LevelInfo, result.Notifications[1].Level)

	f.persister.AssertExpectations(t)
	f.tasks.AssertExpectations(t)
	f.inventory.AssertExpectations(t)
	f.inventory.AssertNumberOfCalls(t, "Adjust", 3)
}

func TestTransition_DeliveredPartial(t *testing.T) {
	f := newFixture(Policy{})
	f.persister.On("UpdateStatus", mock.Anything, int64(42), data.DeliveredStatus).Return(ptr("entregada"), nil)
	f.tasks.On("FindByTitle", mock.Anything, "OC-42 creada").Return(data.Task{}, tasks.ErrTaskNotFound)
	f.inventory.On("Adjust", mock.Anything, adjustmentFor(101, 2)).Return(nil)
	f.inventory.On("Adjust", mock.Anything, adjustmentFor(102, 1)).Return(inventory.ErrAdjustmentRejected)
	f.inventory.On("Adjust", mock.Anything, adjustmentFor(103, 5)).Return(nil)

	result, err := f.orch.Transition(context.Background(), order42(), data.DeliveredStatus)
	require.NoError(t, err)

	require.NotNil(t, result.Inventory)
	assert.Equal(t, AggregateOutcome{Class: Partial, Succeeded: 2, Total: 3}, *result.Inventory)
	assert.Equal(t, TaskNotFound, result.Task.Result)
	require.Len(t, result.Notifications, 1)
	assert.Equal(t, LevelWarning, result.Notifications[0].Level)
	assert.Contains(t, result.Notifications[0].Message, "2/3")
	f.tasks.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	f.inventory.AssertNumberOfCalls(t, "Adjust", 3)
}

func TestTransition_DeliveredAllFailedKeepsStatus(t *testing.T) {
	f := newFixture(Policy{})
	f.persister.On("UpdateStatus", mock.Anything, int64(42), data.DeliveredStatus).Return(ptr("ENTREGADA"), nil)
	f.tasks.On("FindByTitle", mock.Anything, mock.Anything).Return(data.Task{}, &tasks.StatusError{Code: 503})
	f.inventory.On("Adjust", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	order := order42()
	result, err := f.orch.Transition(context.Background(), order, data.DeliveredStatus)
	require.NoError(t, err)

	assert.Equal(t, data.DeliveredStatus, order.Status)
	assert.Equal(t, AllFailed, result.Inventory.Class)
	assert.Equal(t, TaskServerError, result.Task.Result)
	require.Len(t, result.Notifications, 2)
	assert.Equal(t, LevelError, result.Notifications[0].Level)
	assert.Equal(t, LevelWarning, result.Notifications[1].Level)
	f.inventory.AssertNumberOfCalls(t, "Adjust", 3)
}

func TestTransition_DeliveredWithoutLines(t *testing.T) {
	f := newFixture(Policy{})
	f.persister.On("UpdateStatus", mock.Anything, int64(5), data.DeliveredStatus).Return(ptr("ENTREGADA"), nil)
	f.tasks.On("FindByTitle", mock.Anything, "OC-5 creada").Return(data.Task{}, tasks.ErrTaskNotFound)

	result, err := f.orch.Transition(context.Background(), &data.Order{ID: 5, Status: data.ApprovedStatus}, data.DeliveredStatus)
	require.NoError(t, err)

	assert.Equal(t, NothingToAdjust, result.Inventory.Class)
	require.Len(t, result.Notifications, 1)
	assert.Equal(t, LevelWarning, result.Notifications[0].Level)
	f.inventory.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything)
}

func TestTransition_TaskSync(t *testing.T) {
	tests := []struct {
		name             string
		to               data.Status
		expectedEstado   string
		updateErr        error
		expectedResult   TaskResult
		expectedWarnings int
	}{
		{name: "approved", to: data.ApprovedStatus, expectedEstado: tasksprotocol.InProgress, expectedResult: TaskUpdated},
		{name: "rejected", to: data.RejectedStatus, expectedEstado: tasksprotocol.Completed, expectedResult: TaskUpdated},
		{
			name:             "server error is a warning",
			to:               data.ApprovedStatus,
			expectedEstado:   tasksprotocol.InProgress,
			updateErr:        &tasks.StatusError{Code: 500},
			expectedResult:   TaskServerError,
			expectedWarnings: 1,
		},
		{
			name:           "client error is silent",
			to:             data.RejectedStatus,
			expectedEstado: tasksprotocol.Completed,
			updateErr:      &tasks.StatusError{Code: 400},
			expectedResult: TaskClientError,
		},
		{
			name:           "task vanished",
			to:             data.ApprovedStatus,
			expectedEstado: tasksprotocol.InProgress,
			updateErr:      tasks.ErrTaskNotFound,
			expectedResult: TaskNotFound,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFixture(Policy{})
			f.persister.On("UpdateStatus", mock.Anything, int64(42), test.to).Return(ptr(string(test.to)), nil)
			f.tasks.On("FindByTitle", mock.Anything, "OC-42 creada").Return(data.Task{ID: 3}, nil)
			f.tasks.On("UpdateStatus", mock.Anything, int64(3), test.expectedEstado).Return(test.updateErr).Once()

			result, err := f.orch.Transition(context.Background(), order42(), test.to)
			require.NoError(t, err)

			assert.Nil(t, result.Inventory)
			assert.Equal(t, test.expectedResult, result.Task.Result)
			warnings := 0
			for _, note := range result.Notifications {
				if note.Level == LevelWarning {
					warnings++
				}
			}
			assert.Equal(t, test.expectedWarnings, warnings)
			f.tasks.AssertNumberOfCalls(t, "UpdateStatus", 1)
			f.inventory.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything)
		})
	}
}

func TestTransition_BackToPendingHasNoEffects(t *testing.T) {
	f := newFixture(Policy{})
	f.persister.On("UpdateStatus", mock.Anything, int64(42), data.PendingStatus).Return(ptr("PENDIENTE"), nil)
	order := order42()
	order.Status = data.ApprovedStatus

	result, err := f.orch.Transition(context.Background(), order, data.PendingStatus)
	require.NoError(t, err)

	assert.Equal(t, data.PendingStatus, result.Status)
	assert.Equal(t, TaskNotRequired, result.Task.Result)
	assert.Empty(t, result.Effects)
	require.Len(t, result.Notifications, 1)
	f.tasks.AssertNotCalled(t, "FindByTitle", mock.Anything, mock.Anything)
	f.inventory.AssertNotCalled(t, "Adjust", mock.Anything, mock.Anything)
}

func TestTransition_EffectsFollowNormalizedStatus(t *testing.T) {
	f := newFixture(Policy{})
	// The backend stored the order as received even though approval was asked.
	f.persister.On("UpdateStatus", mock.Anything, int64(42), data.ApprovedStatus).Return(ptr(" recibida "), nil)
	f.tasks.On("FindByTitle", mock.Anything, mock.Anything).Return(data.Task{}, tasks.ErrTaskNotFound)
	f.inventory.On("Adjust", mock.Anything, mock.Anything).Return(nil)

	order := order42()
	result, err := f.orch.Transition(context.Background(), order, data.ApprovedStatus)
	require.NoError(t, err)

	assert.Equal(t, data.DeliveredStatus, result.Status)
	assert.Equal(t, data.DeliveredStatus, order.Status)
	f.inventory.AssertNumberOfCalls(t, "Adjust", 3)
}

func TestTransition_MissingEchoUsesRequested(t *testing.T) {
	f := newFixture(Policy{})
	f.persister.On("UpdateStatus", mock.Anything, int64(42), data.ApprovedStatus).Return(nil, nil)
	f.tasks.On("FindByTitle", mock.Anything, mock.Anything).Return(data.Task{}, tasks.ErrTaskNotFound)

	result, err := f.orch.Transition(context.Background(), order42(), data.ApprovedStatus)
	require.NoError(t, err)
	assert.Equal(t, data.ApprovedStatus, result.Status)
}

func TestTransition_EffectsSurviveCallerCancellation(t *testing.T) {
	f := newFixture(Policy{})
	ctx, cancel := context.WithCancel(context.Background())
	f.persister.On("UpdateStatus", mock.Anything, int64(42), data.DeliveredStatus).
		Run(func(mock.Arguments) { cancel() }).
		Return(ptr("ENTREGADA"), nil)
	f.tasks.On("FindByTitle", mock.Anything, mock.Anything).Return(data.Task{}, tasks.ErrTaskNotFound)
	f.inventory.On("Adjust", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }), mock.Anything).
		Return(nil)

	result, err := f.orch.Transition(ctx, order42(), data.DeliveredStatus)
	require.NoError(t, err)
	assert.Equal(t, AllSucceeded, result.Inventory.Class)
}

func TestTransition_InProgress(t *testing.T) {
	f := newFixture(Policy{})
	release := make(chan struct{})
	started := make(chan struct{})
	f.persister.On("UpdateStatus", mock.Anything, int64(42), data.PendingStatus).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(ptr("PENDIENTE"), nil).Once()

	done := make(chan error)
	go func() {
		order := order42()
		order.Status = data.ApprovedStatus
		_, err := f.orch.Transition(context.Background(), order, data.PendingStatus)
		done <- err
	}()
	<-started

	_, err := f.orch.Transition(context.Background(), order42(), data.ApprovedStatus)
	assert.ErrorIs(t, err, ErrTransitionInProgress)

	close(release)
	assert.NoError(t, <-done)
	assert.True(t, f.orch.inFlight.Add(order42().ID), "guard is released once the transition returns")
}
