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

package statemachine

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskRunning   TaskStatus = "RUNNING"
	TaskCompleted TaskStatus = "COMPLETED"
	TaskFailed    TaskStatus = "FAILED"
)

// IsTerminal 判断是否为终止状态
func (ts TaskStatus) IsTerminal() bool {
	return ts == TaskCompleted || ts == TaskFailed
}

// NewTaskStateMachine 创建任务状态机
// 任务只允许 PENDING → RUNNING → COMPLETED/FAILED，不允许跳过 RUNNING
func NewTaskStateMachine() *StateMachine[TaskStatus] {
	sm := NewWithState(TaskPending)

	sm.Allow(TaskPending, TaskRunning).
		Allow(TaskRunning, TaskCompleted, TaskFailed)

	return sm
}
