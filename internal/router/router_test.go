// Copyright 2025 Kgraph Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/kgraph-io/kgraph/internal/orchestrator"
	"github.com/kgraph-io/kgraph/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDispatcher struct{}

func (stubDispatcher) Dispatch(ctx context.Context, payload *queue.TaskPayload) (*queue.DispatchHandle, error) {
	return &queue.DispatchHandle{QueueTaskID: "asynq-1", Queue: queue.Default, Route: payload.Route}, nil
}

func newTestRouter() (*gin.Engine, *orchestrator.Orchestrator) {
	gin.SetMode(gin.TestMode)

	stages := []orchestrator.Stage{
		{
			Name: "pdf_extract",
			Run: func(ctx context.Context, in orchestrator.StageInput) orchestrator.StageResult {
				return orchestrator.StageResult{Success: true, Output: "/kgraph/out"}
			},
		},
	}
	orc := orchestrator.NewOrchestrator(orchestrator.NewStore(), stubDispatcher{}, stages)

	engine := gin.New()
	api := engine.Group("/api")
	NewRouter(orc).Register(api)

	return engine, orc
}

func TestBuildBatch(t *testing.T) {
	engine, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/hadoop/build/batch",
		strings.NewReader(`{"fileIds":["doc-1","doc-2"]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)

	var resp struct {
		TaskID string `json:"taskId"`
		Status string `json:"status"`
	}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TaskID)
	assert.Equal(t, "PENDING", resp.Status)
}

func TestBuildBatch_InvalidBody(t *testing.T) {
	engine, _ := newTestRouter()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "not-json"},
		{name: "missing fileIds", body: `{}`},
		{name: "empty fileIds", body: `{"fileIds":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/hadoop/build/batch", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestTaskStatus(t *testing.T) {
	engine, orc := newTestRouter()

	created, err := orc.Trigger(context.Background(), []string{"doc-1"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		rec, err := orc.Get(created.TaskID)
		return err == nil && rec.IsTerminal()
	}, 5*time.Second, 10*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/hadoop/status/%s", created.TaskID), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Task struct {
			TaskID   string `json:"taskId"`
			Status   string `json:"status"`
			Progress int    `json:"progress"`
		} `json:"task"`
	}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, created.TaskID, resp.Task.TaskID)
	assert.Equal(t, "COMPLETED", resp.Task.Status)
	assert.Equal(t, 100, resp.Task.Progress)
}

func TestTaskStatus_NotFound(t *testing.T) {
	engine, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/hadoop/status/no-such-task", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "task not found")
}
