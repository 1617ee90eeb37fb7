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

	"github.com/redis/go-redis/v9"
)

// Config queue 配置
type Config struct {
	RedisClient     redis.UniversalClient // Redis 客户端（复用已有的客户端）
	Concurrency     int                   // 并发处理数
	StrictPriority  bool                  // 是否严格优先级
	Queues          map[string]int        // 队列配置：队列名 -> 优先级权重
	DefaultQueue    string                // 默认队列名称
	LogLevel        string                // 日志级别: debug, info, warn, error
	ShutdownTimeout int                   // 关闭超时时间（秒）
	PingTimeout     int                   // broker 探活超时时间（秒）
}

// TaskPayload 任务负载
type TaskPayload struct {
	TaskID     string         `json:"task_id"`
	Route      string         `json:"route"`
	Priority   int            `json:"priority"`
	FileIDs    []string       `json:"file_ids"`
	HDFSPath   string         `json:"hdfs_path"`
	Timeout    int            `json:"timeout"`
	RetryCount int            `json:"retry_count"`
	Data       map[string]any `json:"data"` // 扩展数据
}

// TaskHandler 任务处理器接口
type TaskHandler interface {
	HandleTask(ctx context.Context, payload *TaskPayload) error
}

// TaskHandlerFunc 任务处理器函数类型
type TaskHandlerFunc func(ctx context.Context, payload *TaskPayload) error

func (f TaskHandlerFunc) HandleTask(ctx context.Context, payload *TaskPayload) error {
	return f(ctx, payload)
}

// 任务路由常量
const (
	RouteGraphBuild    = "kg:build"          // 图谱构建任务
	RouteProcessChunks = "kg:process_chunks" // 切块后处理任务
)

// 队列名称常量
const (
	Critical = "critical" // 关键队列（优先级最高）
	Default  = "default"  // 默认队列
	Low      = "low"      // 低优先级队列
)

// redisConnOptWrapper 包装已有的 Redis 客户端实现 RedisConnOpt 接口
type redisConnOptWrapper struct {
	client redis.UniversalClient
}

// MakeRedisClient 实现 RedisConnOpt 接口
func (r *redisConnOptWrapper) MakeRedisClient() interface{} {
	return r.client
}
