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

package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/kgraph-io/kgraph/internal/orchestrator/diag"
	"github.com/kgraph-io/kgraph/internal/queue"
	"github.com/kgraph-io/kgraph/pkg/log"
	"github.com/kgraph-io/kgraph/pkg/safe"
	"github.com/kgraph-io/kgraph/pkg/statemachine"
)

// Dispatcher 下游任务投递接口
type Dispatcher interface {
	Dispatch(ctx context.Context, payload *queue.TaskPayload) (*queue.DispatchHandle, error)
}

// Orchestrator 任务编排器
// 接收批量构建请求后立即返回 PENDING 任务，流水线在后台 goroutine 中执行，
// 执行完毕后投递下游图谱构建任务，终态由 Resolver 统一裁决。
type Orchestrator struct {
	store      *Store
	runner     *Runner
	resolver   *Resolver
	dispatcher Dispatcher
	stages     []Stage
	route      string
}

// Option 编排器选项
type Option func(*Orchestrator)

// WithRoute 指定下游投递路由
func WithRoute(route string) Option {
	return func(o *Orchestrator) {
		o.route = route
	}
}

// WithCollector 指定环境快照采集器
func WithCollector(c *diag.Collector) Option {
	return func(o *Orchestrator) {
		o.resolver = NewResolver(o.store, c)
	}
}

// NewOrchestrator 创建任务编排器
func NewOrchestrator(store *Store, dispatcher Dispatcher, stages []Stage, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:      store,
		runner:     NewRunner(store),
		resolver:   NewResolver(store, nil),
		dispatcher: dispatcher,
		stages:     stages,
		route:      queue.RouteGraphBuild,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Trigger 创建构建任务并异步执行，立即返回 PENDING 记录
func (o *Orchestrator) Trigger(ctx context.Context, fileIDs []string) (*TaskRecord, error) {
	if len(fileIDs) == 0 {
		return nil, fmt.Errorf("fileIds is required")
	}

	record := o.store.Create(fileIDs)
	observeTaskStarted()

	safe.Go(func() {
		o.run(context.Background(), record.TaskID, fileIDs)
	})

	return record, nil
}

// Get 查询任务记录
func (o *Orchestrator) Get(taskID string) (*TaskRecord, error) {
	return o.store.Get(taskID)
}

// Store 返回底层任务存储
func (o *Orchestrator) Store() *Store {
	return o.store
}

// run 在后台执行整条流水线并裁决终态
func (o *Orchestrator) run(ctx context.Context, taskID string, fileIDs []string) {
	// 编排层自身的 panic 也必须落到 FAILED 终态，不能留下悬挂的 RUNNING 任务
	defer func() {
		if rec := recover(); rec != nil {
			stack := diag.Stack()
			log.Errorw("orchestration panicked", "task_id", taskID, "panic", rec)
			outcome := &PipelineOutcome{
				Err:   fmt.Errorf("orchestration panicked: %v", rec),
				Stack: stack,
			}
			_ = o.resolver.Finalize(ctx, taskID, outcome, nil, nil)
			observeTaskFinished(statemachine.TaskFailed, ErrTypeUnknownFailure)
		}
	}()

	start := time.Now()

	err := o.store.Update(taskID, func(rec *TaskRecord) error {
		rec.Status = statemachine.TaskRunning
		rec.Progress = ProgressStarted
		rec.Message = "pipeline started"
		return nil
	})
	if err != nil {
		log.Errorw("mark task running failed", "task_id", taskID, "error", err)
		observeTaskAbandoned()
		return
	}

	outcome := o.runner.Run(ctx, taskID, fileIDs, o.stages)

	var handle *queue.DispatchHandle
	var dispatchErr error

	if outcome.Err == nil && outcome.Result != nil && outcome.Result.Success {
		_ = o.store.Update(taskID, func(rec *TaskRecord) error {
			rec.Progress = ProgressDispatched
			rec.Message = "dispatching downstream build task"
			return nil
		})

		handle, dispatchErr = o.dispatcher.Dispatch(ctx, &queue.TaskPayload{
			TaskID:     taskID,
			Route:      o.route,
			FileIDs:    fileIDs,
			HDFSPath:   outcome.Result.FinalOutput,
			RetryCount: 3,
			Timeout:    3600,
		})
	}

	if err := o.resolver.Finalize(ctx, taskID, outcome, handle, dispatchErr); err != nil {
		log.Errorw("finalize task failed", "task_id", taskID, "error", err)
		observeTaskAbandoned()
		return
	}

	if final, err := o.store.Get(taskID); err == nil {
		observeTaskFinished(final.Status, final.ErrorType)
		log.Infow("task finished",
			"task_id", taskID,
			"status", final.Status,
			"duration", time.Since(start).String(),
		)
	}
}

// StartSweeper 启动终态任务清理协程，返回停止函数
func (o *Orchestrator) StartSweeper(interval, maxAge time.Duration) func() {
	if interval <= 0 || maxAge <= 0 {
		return func() {}
	}

	stopCh := make(chan struct{})

	safe.Go(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				o.store.Sweep(time.Now().Add(-maxAge))
			case <-stopCh:
				return
			}
		}
	})

	return func() {
		close(stopCh)
	}
}
