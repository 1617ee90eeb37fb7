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
	"time"

	"github.com/kgraph-io/kgraph/internal/orchestrator/diag"
	"github.com/kgraph-io/kgraph/pkg/statemachine"
)

// 错误分类常量
// FAILED 状态的任务必须携带其中一个错误类型
const (
	ErrTypeStageExecutionFailure   = "StageExecutionFailure"   // 阶段执行返回失败
	ErrTypeStageExecutionException = "StageExecutionException" // 阶段执行抛出异常
	ErrTypeBrokerUnavailable       = "BrokerUnavailable"       // broker 不可达
	ErrTypeDispatchRejected        = "DispatchRejected"        // 投递被拒绝
	ErrTypeUnknownFailure          = "UnknownFailure"          // 未知失败
)

// 进度权重常量
const (
	ProgressCreated    = 5   // 任务已创建
	ProgressStarted    = 10  // 流水线开始执行
	ProgressPipeline   = 60  // 流水线阶段占比
	ProgressDispatched = 80  // 流水线完成，投递下游任务
	ProgressDone       = 100 // 终态
)

// StageResult 单个流水线阶段的执行结果
type StageResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"` // HDFS 输出路径
	Error   string `json:"error,omitempty"`
}

// HadoopResult 整条流水线的执行结果
type HadoopResult struct {
	Success     bool                    `json:"success"`
	FinalOutput string                  `json:"finalOutput,omitempty"` // 最后一个阶段的输出路径
	FailedStage string                  `json:"failedStage,omitempty"` // 首个失败阶段名
	Stages      map[string]*StageResult `json:"stages"`
}

// TaskRecord 任务记录
// 对外只暴露副本，所有修改都必须经过 Store.Update
type TaskRecord struct {
	TaskID   string                  `json:"taskId"`
	Status   statemachine.TaskStatus `json:"status"`
	Progress int                     `json:"progress"`
	Message  string                  `json:"message,omitempty"`
	FileIDs  []string                `json:"fileIds,omitempty"`

	StageOrder   []string                `json:"stageOrder,omitempty"`
	Stages       map[string]*StageResult `json:"stages,omitempty"`
	HadoopResult *HadoopResult           `json:"hadoopResult,omitempty"`

	QueueTaskID string `json:"queueTaskId,omitempty"` // 下游任务在队列中的 ID

	ErrorType    string         `json:"errorType,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	Traceback    string         `json:"traceback,omitempty"`
	Debug        *diag.Snapshot `json:"debug,omitempty"`

	CreateTime    time.Time  `json:"createTime"`
	UpdateTime    time.Time  `json:"updateTime"`
	CompletedTime *time.Time `json:"completedTime,omitempty"`
	DurationMs    int64      `json:"durationMs,omitempty"`
}

// Clone 深拷贝任务记录
func (t *TaskRecord) Clone() *TaskRecord {
	if t == nil {
		return nil
	}

	cp := *t

	if t.FileIDs != nil {
		cp.FileIDs = append([]string(nil), t.FileIDs...)
	}
	if t.StageOrder != nil {
		cp.StageOrder = append([]string(nil), t.StageOrder...)
	}
	if t.Stages != nil {
		cp.Stages = make(map[string]*StageResult, len(t.Stages))
		for name, sr := range t.Stages {
			srCopy := *sr
			cp.Stages[name] = &srCopy
		}
	}
	if t.HadoopResult != nil {
		hr := *t.HadoopResult
		if t.HadoopResult.Stages != nil {
			hr.Stages = make(map[string]*StageResult, len(t.HadoopResult.Stages))
			for name, sr := range t.HadoopResult.Stages {
				srCopy := *sr
				hr.Stages[name] = &srCopy
			}
		}
		cp.HadoopResult = &hr
	}
	if t.CompletedTime != nil {
		ct := *t.CompletedTime
		cp.CompletedTime = &ct
	}
	if t.Debug != nil {
		cp.Debug = t.Debug.Clone()
	}

	return &cp
}

// IsTerminal 判断任务是否已进入终态
func (t *TaskRecord) IsTerminal() bool {
	return t.Status.IsTerminal()
}
