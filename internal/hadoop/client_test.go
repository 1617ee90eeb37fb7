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

package hadoop

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&Conf{
		NameNodeURL: srv.URL,
		User:        "kgraph",
		BasePath:    "/kgraph",
		MaxRetries:  2,
		HTTPTimeout: 5,
	})
}

func TestConf_SetDefaults(t *testing.T) {
	c := &Conf{}
	c.SetDefaults()

	assert.Equal(t, "http://localhost:9870", c.NameNodeURL)
	assert.Equal(t, "hadoop", c.User)
	assert.Equal(t, "/kgraph", c.BasePath)
	assert.Equal(t, "hadoop", c.HadoopBin)
	assert.Equal(t, 1800, c.JobTimeout)
	assert.Equal(t, 3, c.MaxRetries)

	// 已设置的值不被覆盖
	c2 := &Conf{NameNodeURL: "http://nn:9870", MaxRetries: 1}
	c2.SetDefaults()
	assert.Equal(t, "http://nn:9870", c2.NameNodeURL)
	assert.Equal(t, 1, c2.MaxRetries)
}

func TestClient_MkdirAll(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/webhdfs/v1/kgraph/tasks/t1", r.URL.Path)
		assert.Equal(t, "MKDIRS", r.URL.Query().Get("op"))
		assert.Equal(t, "kgraph", r.URL.Query().Get("user.name"))
		_, _ = w.Write([]byte(`{"boolean":true}`))
	}))

	require.NoError(t, client.MkdirAll(context.Background(), "/kgraph/tasks/t1"))
}

func TestClient_Exists(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GETFILESTATUS", r.URL.Query().Get("op"))
		if r.URL.Path == "/webhdfs/v1/kgraph/present" {
			_, _ = w.Write([]byte(`{"FileStatus":{}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	exists, err := client.Exists(context.Background(), "/kgraph/present")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.Exists(context.Background(), "/kgraph/absent")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClient_Delete(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "DELETE", r.URL.Query().Get("op"))
		assert.Equal(t, "true", r.URL.Query().Get("recursive"))
		_, _ = w.Write([]byte(`{"boolean":true}`))
	}))

	require.NoError(t, client.Delete(context.Background(), "/kgraph/tasks/t1/out", true))
}

func TestClient_WriteFile(t *testing.T) {
	var datanodeURL string
	var written []byte

	mux := http.NewServeMux()
	mux.HandleFunc("/webhdfs/v1/", func(w http.ResponseWriter, r *http.Request) {
		// NameNode：重定向到 DataNode
		assert.Equal(t, "CREATE", r.URL.Query().Get("op"))
		w.Header().Set("Location", datanodeURL+r.URL.Path+"?op=CREATE&datanode=true")
		w.WriteHeader(http.StatusTemporaryRedirect)
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("datanode") == "true" {
			body, _ := io.ReadAll(r.Body)
			written = body
			w.WriteHeader(http.StatusCreated)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	datanodeURL = srv.URL

	client := NewClient(&Conf{
		NameNodeURL: srv.URL,
		User:        "kgraph",
		MaxRetries:  1,
		HTTPTimeout: 5,
	})

	require.NoError(t, client.WriteFile(context.Background(), "/kgraph/input/file_ids.txt", []byte("doc-1\ndoc-2\n")))
	assert.Equal(t, "doc-1\ndoc-2\n", string(written))
}

func TestClient_ReadFile(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OPEN", r.URL.Query().Get("op"))
		_, _ = w.Write([]byte("chunk data"))
	}))

	data, err := client.ReadFile(context.Background(), "/kgraph/out/part-00000")
	require.NoError(t, err)
	assert.Equal(t, "chunk data", string(data))
}

func TestClient_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"boolean":true}`))
	}))

	require.NoError(t, client.MkdirAll(context.Background(), "/kgraph/retry"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := client.MkdirAll(context.Background(), "/kgraph/fail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhdfs")
	assert.Equal(t, int32(2), calls.Load())
}
