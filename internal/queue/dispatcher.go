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
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/hibiken/asynq"
	"github.com/kgraph-io/kgraph/pkg/log"
)

// DispatchHandle 投递成功后的回执
type DispatchHandle struct {
	QueueTaskID string    `json:"queue_task_id"` // asynq 任务 ID
	Queue       string    `json:"queue"`
	Route       string    `json:"route"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// Dispatcher 任务投递器
// 构造时探活 broker，探活失败不报错，只标记为不可用；
// 此时 Dispatch 返回 BrokerUnavailableError，由上层决定是否降级。
type Dispatcher struct {
	client *asynq.Client
	config *Config

	mu        sync.RWMutex
	available bool
	initErr   error
}

// NewDispatcher 创建任务投递器
func NewDispatcher(cfg *Config) (*Dispatcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("queue config is required")
	}
	if cfg.RedisClient == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	redisOpt := &redisConnOptWrapper{client: cfg.RedisClient}

	d := &Dispatcher{
		client: asynq.NewClient(redisOpt),
		config: cfg,
	}

	pingTimeout := 3 * time.Second
	if cfg.PingTimeout > 0 {
		pingTimeout = time.Duration(cfg.PingTimeout) * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := cfg.RedisClient.Ping(ctx).Err(); err != nil {
		d.initErr = err
		log.Warnw("task broker unreachable, dispatcher starts in degraded mode", "error", err)
	} else {
		d.available = true
		log.Infow("task dispatcher created", "defaultQueue", cfg.DefaultQueue)
	}

	return d, nil
}

// Available 返回 broker 是否可用
func (d *Dispatcher) Available() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.available
}

// Dispatch 投递任务
// broker 不可用返回 *BrokerUnavailableError，入队被拒绝返回 *DispatchRejectedError。
func (d *Dispatcher) Dispatch(ctx context.Context, payload *TaskPayload) (*DispatchHandle, error) {
	if payload == nil {
		return nil, &DispatchRejectedError{Err: fmt.Errorf("payload is required")}
	}
	if payload.Route == "" {
		return nil, &DispatchRejectedError{Err: fmt.Errorf("payload route is required")}
	}

	d.mu.RLock()
	available, initErr := d.available, d.initErr
	d.mu.RUnlock()

	if !available {
		return nil, &BrokerUnavailableError{Route: payload.Route, Err: initErr}
	}

	data, err := sonic.Marshal(payload)
	if err != nil {
		return nil, &DispatchRejectedError{Route: payload.Route, Err: fmt.Errorf("marshal task payload: %w", err)}
	}

	queueName := d.config.DefaultQueue
	if queueName == "" {
		queueName = Default
	}

	task := asynq.NewTask(payload.Route, data)

	opts := []asynq.Option{
		asynq.Queue(queueName),
		asynq.MaxRetry(payload.RetryCount),
	}
	if payload.Timeout > 0 {
		opts = append(opts, asynq.Timeout(time.Duration(payload.Timeout)*time.Second))
	}

	info, err := d.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return nil, &DispatchRejectedError{Route: payload.Route, Err: err}
	}

	log.Infow("task enqueued",
		"task_id", payload.TaskID,
		"route", payload.Route,
		"queue", info.Queue,
		"asynq_task_id", info.ID,
	)

	return &DispatchHandle{
		QueueTaskID: info.ID,
		Queue:       info.Queue,
		Route:       payload.Route,
		EnqueuedAt:  time.Now(),
	}, nil
}

// Close 关闭投递器
func (d *Dispatcher) Close() error {
	return d.client.Close()
}
