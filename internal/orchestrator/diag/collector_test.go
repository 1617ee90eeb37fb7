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

package diag

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Collect(t *testing.T) {
	c := NewCollector()

	snap := c.Collect(context.Background())
	require.NotNil(t, snap)

	assert.Equal(t, runtime.Version(), snap.GoVersion)
	assert.False(t, snap.CapturedAt.IsZero())
	assert.Empty(t, snap.Note)
}

func TestCollector_CollectWithHost(t *testing.T) {
	c := NewCollector(WithHostFingerprint())

	snap := c.Collect(context.Background())
	require.NotNil(t, snap)
	require.NotNil(t, snap.Host)

	assert.Greater(t, snap.Host.NumGoroutine, 0)
}

func TestCollector_CustomProvider(t *testing.T) {
	fixed := []ModuleFingerprint{
		{Path: "github.com/kgraph-io/kgraph", Version: "v1.2.3"},
	}
	c := NewCollector(WithProvider(ProviderFunc(func() []ModuleFingerprint {
		return fixed
	})))

	snap := c.Collect(context.Background())
	require.NotNil(t, snap)
	assert.Equal(t, fixed, snap.Modules)
}

func TestCollector_ProviderPanicYieldsPartialSnapshot(t *testing.T) {
	c := NewCollector(WithProvider(ProviderFunc(func() []ModuleFingerprint {
		panic("boom")
	})))

	var snap *Snapshot
	assert.NotPanics(t, func() {
		snap = c.Collect(context.Background())
	})

	require.NotNil(t, snap)
	assert.Equal(t, runtime.Version(), snap.GoVersion)
	assert.Contains(t, snap.Note, "partial snapshot")
}

func TestSnapshot_Clone(t *testing.T) {
	var nilSnap *Snapshot
	assert.Nil(t, nilSnap.Clone())

	snap := &Snapshot{
		GoVersion: "go1.25",
		Modules:   []ModuleFingerprint{{Path: "a", Version: "v1"}},
		Host:      &HostFingerprint{Hostname: "node-1"},
	}

	cp := snap.Clone()
	require.NotNil(t, cp)

	cp.Modules[0].Version = "v2"
	cp.Host.Hostname = "node-2"

	assert.Equal(t, "v1", snap.Modules[0].Version)
	assert.Equal(t, "node-1", snap.Host.Hostname)
}

func TestStack(t *testing.T) {
	s := Stack()
	assert.Contains(t, s, "goroutine")
}
