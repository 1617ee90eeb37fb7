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
	"github.com/kgraph-io/kgraph/pkg/log"
)

// StageInput 阶段输入
type StageInput struct {
	TaskID    string
	FileIDs   []string
	InputPath string // 上一阶段的输出路径，首个阶段为空
}

// StageFunc 阶段执行函数
// 预期内的失败通过 StageResult.Success=false 返回，不要用 panic 表达
type StageFunc func(ctx context.Context, in StageInput) StageResult

// Stage 流水线阶段
type Stage struct {
	Name string
	Run  StageFunc
}

// PipelineOutcome 流水线执行结果
// Err 非空表示出现了未预期异常（panic），此时 Stack 和 FailedStage 一并填充
type PipelineOutcome struct {
	Result      *HadoopResult
	Err         error
	FailedStage string
	Stack       string
}

// Runner 流水线执行器
// 阶段串行执行，每个阶段结束后立即把结果和进度写回存储；
// 任一阶段失败即短路，后续阶段不再执行。
type Runner struct {
	store *Store
}

// NewRunner 创建流水线执行器
func NewRunner(store *Store) *Runner {
	return &Runner{store: store}
}

// Run 执行流水线
func (r *Runner) Run(ctx context.Context, taskID string, fileIDs []string, stages []Stage) *PipelineOutcome {
	outcome := &PipelineOutcome{
		Result: &HadoopResult{
			Stages: make(map[string]*StageResult, len(stages)),
		},
	}

	if len(stages) == 0 {
		outcome.Err = fmt.Errorf("no stages configured")
		return outcome
	}

	total := len(stages)
	inputPath := ""

	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			outcome.Err = fmt.Errorf("pipeline canceled before stage %s: %w", stage.Name, err)
			outcome.FailedStage = stage.Name
			return outcome
		}

		log.Infow("stage started",
			"task_id", taskID,
			"stage", stage.Name,
			"input", inputPath,
		)

		result, panicErr, stack := r.executeStage(ctx, stage, StageInput{
			TaskID:    taskID,
			FileIDs:   fileIDs,
			InputPath: inputPath,
		})

		if panicErr != nil {
			outcome.Err = panicErr
			outcome.FailedStage = stage.Name
			outcome.Stack = stack
			outcome.Result.Stages[stage.Name] = &StageResult{
				Success: false,
				Error:   panicErr.Error(),
			}

			r.recordStage(taskID, stage.Name, outcome.Result.Stages[stage.Name], progressAfterStage(i+1, total))
			return outcome
		}

		outcome.Result.Stages[stage.Name] = &result
		r.recordStage(taskID, stage.Name, &result, progressAfterStage(i+1, total))

		if !result.Success {
			log.Warnw("stage failed",
				"task_id", taskID,
				"stage", stage.Name,
				"error", result.Error,
			)
			outcome.Result.FailedStage = stage.Name
			return outcome
		}

		log.Infow("stage completed",
			"task_id", taskID,
			"stage", stage.Name,
			"output", result.Output,
		)
		inputPath = result.Output
	}

	outcome.Result.Success = true
	outcome.Result.FinalOutput = inputPath
	return outcome
}

// executeStage 执行单个阶段，捕获 panic
func (r *Runner) executeStage(ctx context.Context, stage Stage, in StageInput) (result StageResult, panicErr error, stack string) {
	defer func() {
		if rec := recover(); rec != nil {
			panicErr = fmt.Errorf("stage %s panicked: %v", stage.Name, rec)
			stack = diag.Stack()
			log.Errorw("stage panicked",
				"task_id", in.TaskID,
				"stage", stage.Name,
				"panic", rec,
			)
		}
	}()

	result = stage.Run(ctx, in)
	return result, nil, ""
}

// recordStage 把阶段结果写回任务记录
func (r *Runner) recordStage(taskID, stageName string, result *StageResult, progress int) {
	err := r.store.Update(taskID, func(rec *TaskRecord) error {
		if rec.Stages == nil {
			rec.Stages = make(map[string]*StageResult)
		}
		srCopy := *result
		rec.Stages[stageName] = &srCopy
		rec.StageOrder = append(rec.StageOrder, stageName)
		rec.Progress = progress
		if result.Success {
			rec.Message = fmt.Sprintf("stage %s completed", stageName)
		} else {
			rec.Message = fmt.Sprintf("stage %s failed", stageName)
		}
		return nil
	})
	if err != nil {
		log.Errorw("record stage result failed", "task_id", taskID, "stage", stageName, "error", err)
	}
}

// progressAfterStage 计算第 done 个阶段完成后的进度
func progressAfterStage(done, total int) int {
	if total <= 0 {
		return ProgressStarted
	}
	return ProgressStarted + ProgressPipeline*done/total
}
