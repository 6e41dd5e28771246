package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-procurement/internal/common/tasksprotocol"
	"go-procurement/pkg/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{ServerAddress: server.URL, Timeout: time.Second}, logging.NewNop())
}

func TestOrderTaskTitle(t *testing.T) {
	assert.Equal(t, "OC-42 creada", OrderTaskTitle(42))
}

func TestClient_FindByTitle(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedID  int64
		expectedErr error
		serverSide  bool
	}{
		{
			name:       "bare list",
			status:     http.StatusOK,
			body:       `[{"id": 5, "titulo": "OC-42 creada", "estado": "Pendiente"}]`,
			expectedID: 5,
		},
		{
			name:       "envelope with id_tarea",
			status:     http.StatusOK,
			body:       `{"data": [{"id_tarea": 8, "titulo": "OC-42 creada"}]}`,
			expectedID: 8,
		},
		{
			name:       "single object",
			status:     http.StatusOK,
			body:       `{"id": 3, "titulo": "OC-42 creada"}`,
			expectedID: 3,
		},
		{
			name:        "title mismatch",
			status:      http.StatusOK,
			body:        `[{"id": 9, "titulo": "OC-420 creada"}]`,
			expectedErr: ErrTaskNotFound,
		},
		{
			name:        "empty list",
			status:      http.StatusOK,
			body:        `[]`,
			expectedErr: ErrTaskNotFound,
		},
		{
			name:        "not found",
			status:      http.StatusNotFound,
			expectedErr: ErrTaskNotFound,
		},
		{
			name:       "server error",
			status:     http.StatusServiceUnavailable,
			serverSide: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/tareas", r.URL.Path)
				assert.Equal(t, "OC-42 creada", r.URL.Query().Get("titulo"))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(test.status)
				_, _ = io.WriteString(w, test.body)
			})

			task, err := client.FindByTitle(context.Background(), OrderTaskTitle(42))
			switch {
			case test.serverSide:
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.True(t, statusErr.ServerSide())
			case test.expectedErr != nil:
				assert.ErrorIs(t, err, test.expectedErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, test.expectedID, task.ID)
			}
		})
	}
}

func TestClient_UpdateStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/tareas/5/estado", r.URL.Path)
		var body tasksprotocol.StatusUpdate
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, tasksprotocol.Completed, body.Estado)
		w.WriteHeader(http.StatusBadRequest)
	})

	err := client.UpdateStatus(context.Background(), 5, tasksprotocol.Completed)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.False(t, statusErr.ServerSide())
}

func TestClient_Create(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body tasksprotocol.CreateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "OC-9 creada", body.Title)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success": true, "data": {"id_tarea": 77}}`)
	})

	task, err := client.Create(context.Background(), tasksprotocol.CreateRequest{Title: "OC-9 creada", Estado: tasksprotocol.Pending})
	require.NoError(t, err)
	assert.Equal(t, int64(77), task.ID)
	assert.Equal(t, tasksprotocol.Pending, task.State)
}
