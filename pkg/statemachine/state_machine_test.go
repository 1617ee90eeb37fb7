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
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMachine_Transit(t *testing.T) {
	sm := NewWithState("a")
	sm.Allow("a", "b").Allow("b", "c")

	require.NoError(t, sm.TransitTo("b"))
	assert.Equal(t, "b", sm.Current())

	err := sm.Transit("b", "a")
	assert.Error(t, err)
	assert.Equal(t, "b", sm.Current())
}

func TestStateMachine_CanTransit(t *testing.T) {
	sm := NewWithState("a")
	sm.Allow("a", "b", "c")

	assert.True(t, sm.CanTransit("a", "b"))
	assert.True(t, sm.CanTransitTo("c"))
	assert.False(t, sm.CanTransit("b", "a"))
}

func TestStateMachine_OnEnterHook(t *testing.T) {
	sm := NewWithState("a")
	sm.Allow("a", "b")

	entered := false
	sm.OnEnter("b", func(state string) error {
		entered = true
		return nil
	})

	require.NoError(t, sm.TransitTo("b"))
	assert.True(t, entered)
}

func TestStateMachine_OnEnterHookError(t *testing.T) {
	sm := NewWithState("a")
	sm.Allow("a", "b")

	sm.OnEnter("b", func(state string) error {
		return errors.New("hook failed")
	})

	assert.Error(t, sm.TransitTo("b"))
}

func TestStateMachine_ConcurrentReads(t *testing.T) {
	sm := NewWithState("a")
	sm.Allow("a", "b")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sm.Current()
			_ = sm.CanTransitTo("b")
		}()
	}
	wg.Wait()
}
