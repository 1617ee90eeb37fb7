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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStateMachine_NormalFlow(t *testing.T) {
	sm := NewTaskStateMachine()

	assert.Equal(t, TaskPending, sm.Current())

	require.NoError(t, sm.TransitTo(TaskRunning))
	require.NoError(t, sm.TransitTo(TaskCompleted))
	assert.True(t, sm.Current().IsTerminal())
}

func TestTaskStateMachine_FailureFlow(t *testing.T) {
	sm := NewTaskStateMachine()

	require.NoError(t, sm.TransitTo(TaskRunning))
	require.NoError(t, sm.TransitTo(TaskFailed))
	assert.True(t, sm.Current().IsTerminal())
}

func TestTaskStateMachine_CannotSkipRunning(t *testing.T) {
	sm := NewTaskStateMachine()

	assert.Error(t, sm.TransitTo(TaskCompleted))
	assert.Error(t, sm.TransitTo(TaskFailed))
}

func TestTaskStateMachine_TerminalIsFinal(t *testing.T) {
	sm := NewTaskStateMachine()

	require.NoError(t, sm.TransitTo(TaskRunning))
	require.NoError(t, sm.TransitTo(TaskFailed))

	assert.Error(t, sm.TransitTo(TaskRunning))
	assert.Error(t, sm.TransitTo(TaskCompleted))
}

func TestTaskStatus_IsTerminal(t *testing.T) {
	assert.False(t, TaskPending.IsTerminal())
	assert.False(t, TaskRunning.IsTerminal())
	assert.True(t, TaskCompleted.IsTerminal())
	assert.True(t, TaskFailed.IsTerminal())
}
