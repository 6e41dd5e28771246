package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"go-procurement/internal/common/tasksprotocol"
	"go-procurement/internal/procurement/data"
	"go-procurement/pkg/logging"
	"go-procurement/pkg/resttrace"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

// StatusError is returned when the task service answers with a non-2xx code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("task service returned status code %v", e.Code)
}

// ServerSide reports whether the failure is the task service's own fault.
func (e *StatusError) ServerSide() bool {
	return e.Code >= http.StatusInternalServerError
}

// OrderTaskTitle is the only link between an order and its task; the task
// service stores no order id, so the format must not change.
func OrderTaskTitle(orderID int64) string {
	return fmt.Sprintf("OC-%d creada", orderID)
}

type Config struct {
	ServerAddress string
	Timeout       time.Duration
}

type Client struct {
	client *resty.Client
	logger *logging.ZapLogger
}

func New(cfg Config, logger *logging.ZapLogger) *Client {
	client := resty.New().
		SetBaseURL(cfg.ServerAddress).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{
		client: resttrace.Instrument(client, "tasks"),
		logger: logger,
	}
}

func (c *Client) FindByTitle(ctx context.Context, title string) (data.Task, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("titulo", title).
		Get("/api/tareas")
	if err != nil {
		return data.Task{}, fmt.Errorf("find task request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return data.Task{}, ErrTaskNotFound
	}
	if resp.IsError() {
		return data.Task{}, &StatusError{Code: resp.StatusCode()}
	}
	candidates, err := decodeTasks(resp.Body())
	if err != nil {
		c.logger.ErrorCtx(ctx, "error unmarshalling task response", zap.Error(err))
		return data.Task{}, fmt.Errorf("error unmarshalling task response: %w", err)
	}
	for _, task := range candidates {
		if task.Title == title && task.Key() != 0 {
			return data.Task{ID: task.Key(), Title: task.Title, State: task.Estado}, nil
		}
	}
	return data.Task{}, ErrTaskNotFound
}

func (c *Client) UpdateStatus(ctx context.Context, taskID int64, estado string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(taskID, 10)).
		SetBody(tasksprotocol.StatusUpdate{Estado: estado}).
		Put("/api/tareas/{id}/estado")
	if err != nil {
		return fmt.Errorf("update task request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return ErrTaskNotFound
	}
	if resp.IsError() {
		return &StatusError{Code: resp.StatusCode()}
	}
	return nil
}

func (c *Client) Create(ctx context.Context, request tasksprotocol.CreateRequest) (data.Task, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(request).
		Post("/api/tareas")
	if err != nil {
		return data.Task{}, fmt.Errorf("create task request failed: %w", err)
	}
	if resp.IsError() {
		return data.Task{}, &StatusError{Code: resp.StatusCode()}
	}
	created := data.Task{Title: request.Title, State: request.Estado}
	if tasks, err := decodeTasks(resp.Body()); err == nil && len(tasks) > 0 {
		created.ID = tasks[0].Key()
	}
	return created, nil
}

// decodeTasks accepts a bare task, a list of tasks or either one wrapped in
// a {"data": ...} envelope.
func decodeTasks(body []byte) ([]tasksprotocol.Task, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if body[0] == '{' {
		if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
			body = envelope.Data
		}
	}
	if body[0] == '[' {
		var list []tasksprotocol.Task
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var single tasksprotocol.Task
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, err
	}
	return []tasksprotocol.Task{single}, nil
}
