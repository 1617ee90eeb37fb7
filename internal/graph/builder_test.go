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

package graph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kgraph-io/kgraph/internal/hadoop"
	"github.com/kgraph-io/kgraph/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T, handler http.Handler) *Builder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewBuilder(hadoop.NewClient(&hadoop.Conf{
		NameNodeURL: srv.URL,
		MaxRetries:  1,
		HTTPTimeout: 5,
	}))
}

func TestBuilder_BuildGraph(t *testing.T) {
	builder := newTestBuilder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/webhdfs/v1/kgraph/tasks/t1/text_chunk/part-00000", r.URL.Path)
		_, _ = w.Write([]byte("chunk one\nchunk two\n\nchunk three\n"))
	}))

	err := builder.BuildGraph(context.Background(), &queue.TaskPayload{
		TaskID:   "t1",
		Route:    queue.RouteGraphBuild,
		FileIDs:  []string{"doc-1"},
		HDFSPath: "/kgraph/tasks/t1/text_chunk",
	})
	require.NoError(t, err)
}

func TestBuilder_MissingPath(t *testing.T) {
	builder := newTestBuilder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	err := builder.BuildGraph(context.Background(), &queue.TaskPayload{TaskID: "t1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hdfs_path")

	err = builder.ProcessChunks(context.Background(), &queue.TaskPayload{TaskID: "t1"})
	require.Error(t, err)
}

func TestBuilder_ReadFailure(t *testing.T) {
	builder := newTestBuilder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := builder.ProcessChunks(context.Background(), &queue.TaskPayload{
		TaskID:   "t1",
		HDFSPath: "/kgraph/tasks/t1/text_chunk",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load chunks for task t1")
}

func TestBuilder_LoadChunks(t *testing.T) {
	builder := newTestBuilder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("a\nb\nc\n"))
	}))

	chunks, err := builder.loadChunks(context.Background(), "/out")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, chunks)
}
