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
	"path"
	"strings"

	"github.com/kgraph-io/kgraph/internal/hadoop"
	"github.com/kgraph-io/kgraph/internal/queue"
	"github.com/kgraph-io/kgraph/pkg/log"
	"github.com/pkg/errors"
)

// Builder 消费切块产物构建知识图谱
// 实现 queue.GraphBuilder 接口，由队列消费端调用
type Builder struct {
	hdfs *hadoop.Client
}

// NewBuilder 创建图谱构建器
func NewBuilder(hdfs *hadoop.Client) *Builder {
	return &Builder{hdfs: hdfs}
}

// BuildGraph 读取切块产物并构建图谱
func (b *Builder) BuildGraph(ctx context.Context, payload *queue.TaskPayload) error {
	if payload.HDFSPath == "" {
		return errors.New("payload hdfs_path is required")
	}

	chunks, err := b.loadChunks(ctx, payload.HDFSPath)
	if err != nil {
		return errors.Wrapf(err, "load chunks for task %s", payload.TaskID)
	}

	log.Infow("building graph from chunks",
		"task_id", payload.TaskID,
		"chunks", len(chunks),
		"files", len(payload.FileIDs),
	)

	// TODO: 接入图谱抽取流程后，这里把 chunks 交给实体关系抽取
	return nil
}

// ProcessChunks 对切块产物做后处理
func (b *Builder) ProcessChunks(ctx context.Context, payload *queue.TaskPayload) error {
	if payload.HDFSPath == "" {
		return errors.New("payload hdfs_path is required")
	}

	chunks, err := b.loadChunks(ctx, payload.HDFSPath)
	if err != nil {
		return errors.Wrapf(err, "load chunks for task %s", payload.TaskID)
	}

	log.Infow("processing chunks",
		"task_id", payload.TaskID,
		"chunks", len(chunks),
	)

	return nil
}

// loadChunks 读取 streaming 作业的输出分片，每行一个 chunk
func (b *Builder) loadChunks(ctx context.Context, outputPath string) ([]string, error) {
	partFile := path.Join(outputPath, "part-00000")

	data, err := b.hdfs.ReadFile(ctx, partFile)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	chunks := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			chunks = append(chunks, line)
		}
	}
	return chunks, nil
}
