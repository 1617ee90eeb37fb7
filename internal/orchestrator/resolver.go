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

	"github.com/kgraph-io/kgraph/internal/orchestrator/diag"
	"github.com/kgraph-io/kgraph/internal/queue"
	"github.com/kgraph-io/kgraph/pkg/log"
	"github.com/kgraph-io/kgraph/pkg/statemachine"
	"github.com/pkg/errors"
)

// Resolver 终态裁决器
// 综合流水线结果和投递结果写入唯一一次终态：
//
//	流水线成功 + 投递成功         → COMPLETED
//	流水线成功 + broker 不可达    → COMPLETED（降级，不投递下游）
//	流水线成功 + 投递被拒绝       → FAILED (DispatchRejected)
//	阶段返回失败                  → FAILED (StageExecutionFailure)，不投递
//	阶段抛出异常                  → FAILED (StageExecutionException) + 环境快照
//	编排层未预期异常              → FAILED (UnknownFailure) + 环境快照
//
// 终态写入是幂等的，任务已终止时重复裁决为空操作。
type Resolver struct {
	store     *Store
	collector *diag.Collector
}

// NewResolver 创建终态裁决器
func NewResolver(store *Store, collector *diag.Collector) *Resolver {
	if collector == nil {
		collector = diag.NewCollector()
	}
	return &Resolver{store: store, collector: collector}
}

// Finalize 写入任务终态
func (r *Resolver) Finalize(ctx context.Context, taskID string, outcome *PipelineOutcome, handle *queue.DispatchHandle, dispatchErr error) error {
	if outcome == nil {
		outcome = &PipelineOutcome{Err: fmt.Errorf("pipeline outcome missing")}
	}

	// 阶段抛出异常
	if outcome.Err != nil {
		errType := ErrTypeUnknownFailure
		if outcome.FailedStage != "" {
			errType = ErrTypeStageExecutionException
		}
		return r.fail(ctx, taskID, outcome, errType, outcome.Err.Error(), outcome.Stack, true)
	}

	// 阶段返回失败，此时不应有投递动作
	if outcome.Result == nil || !outcome.Result.Success {
		msg := "pipeline failed"
		if outcome.Result != nil && outcome.Result.FailedStage != "" {
			if sr, ok := outcome.Result.Stages[outcome.Result.FailedStage]; ok && sr.Error != "" {
				msg = fmt.Sprintf("stage %s failed: %s", outcome.Result.FailedStage, sr.Error)
			} else {
				msg = fmt.Sprintf("stage %s failed", outcome.Result.FailedStage)
			}
		}
		return r.fail(ctx, taskID, outcome, ErrTypeStageExecutionFailure, msg, "", false)
	}

	// 流水线成功，按投递结果裁决
	if dispatchErr == nil {
		return r.complete(taskID, outcome, handle, "")
	}

	var unavailable *queue.BrokerUnavailableError
	if errors.As(dispatchErr, &unavailable) {
		route := unavailable.Route
		if route == "" {
			route = queue.RouteGraphBuild
		}
		note := fmt.Sprintf("completed without downstream dispatch: broker unavailable, route %s skipped", route)
		log.Warnw("broker unavailable, completing task in degraded mode",
			"task_id", taskID,
			"route", route,
			"error", dispatchErr,
		)
		return r.complete(taskID, outcome, nil, note)
	}

	var rejected *queue.DispatchRejectedError
	if errors.As(dispatchErr, &rejected) {
		return r.fail(ctx, taskID, outcome, ErrTypeDispatchRejected, dispatchErr.Error(), "", false)
	}

	return r.fail(ctx, taskID, outcome, ErrTypeUnknownFailure, dispatchErr.Error(), "", true)
}

// complete 写入 COMPLETED 终态
func (r *Resolver) complete(taskID string, outcome *PipelineOutcome, handle *queue.DispatchHandle, degradedNote string) error {
	err := r.store.Update(taskID, func(rec *TaskRecord) error {
		rec.Status = statemachine.TaskCompleted
		rec.Progress = ProgressDone
		rec.HadoopResult = outcome.Result

		if degradedNote != "" {
			rec.Message = degradedNote
		} else {
			rec.Message = "task completed"
		}
		if handle != nil {
			rec.QueueTaskID = handle.QueueTaskID
		}
		return nil
	})
	if err != nil {
		log.Errorw("finalize completed failed", "task_id", taskID, "error", err)
		return err
	}

	log.Infow("task completed", "task_id", taskID, "degraded", degradedNote != "")
	return nil
}

// fail 写入 FAILED 终态，FAILED 必须携带错误类型和错误信息
func (r *Resolver) fail(ctx context.Context, taskID string, outcome *PipelineOutcome, errType, errMsg, stack string, withSnapshot bool) error {
	if errMsg == "" {
		errMsg = "unknown failure"
	}

	var snap *diag.Snapshot
	if withSnapshot {
		snap = r.collector.Collect(ctx)
	}

	err := r.store.Update(taskID, func(rec *TaskRecord) error {
		rec.Status = statemachine.TaskFailed
		rec.Progress = ProgressDone
		rec.Message = errMsg
		rec.ErrorType = errType
		rec.ErrorMessage = errMsg
		if outcome.Result != nil {
			rec.HadoopResult = outcome.Result
		}
		if stack != "" {
			rec.Traceback = stack
		}
		if snap != nil {
			rec.Debug = snap
		}
		return nil
	})
	if err != nil {
		log.Errorw("finalize failed state failed", "task_id", taskID, "error", err)
		return err
	}

	log.Warnw("task failed", "task_id", taskID, "error_type", errType, "error", errMsg)
	return nil
}
