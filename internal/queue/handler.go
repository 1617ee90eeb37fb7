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

package queue

import (
	"context"
	"fmt"
)

// GraphBuilder 图谱构建器接口
// 由消费端实现，处理流水线产物的下游加工
type GraphBuilder interface {
	// BuildGraph 基于切块产物构建知识图谱
	BuildGraph(ctx context.Context, payload *TaskPayload) error
	// ProcessChunks 对切块产物做后处理（向量化、入库等）
	ProcessChunks(ctx context.Context, payload *TaskPayload) error
}

// RegisterGraphHandlers 将图谱构建器挂载到队列消费端
func RegisterGraphHandlers(s *Server, builder GraphBuilder) error {
	if s == nil {
		return fmt.Errorf("queue server is required")
	}
	if builder == nil {
		return fmt.Errorf("graph builder is required")
	}

	s.RegisterHandlerFunc(RouteGraphBuild, func(ctx context.Context, payload *TaskPayload) error {
		return builder.BuildGraph(ctx, payload)
	})

	s.RegisterHandlerFunc(RouteProcessChunks, func(ctx context.Context, payload *TaskPayload) error {
		return builder.ProcessChunks(ctx, payload)
	})

	return nil
}
