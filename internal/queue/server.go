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
	"time"

	"github.com/bytedance/sonic"
	"github.com/hibiken/asynq"
	"github.com/kgraph-io/kgraph/pkg/log"
)

// Server 队列消费端
// 负责执行任务，不发布任务
type Server struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	config   *Config
	handlers map[string]TaskHandler
	redisOpt asynq.RedisConnOpt
}

// NewServer 创建队列消费端
func NewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("queue config is required")
	}
	if cfg.RedisClient == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	redisOpt := &redisConnOptWrapper{client: cfg.RedisClient}

	// 默认队列配置
	queues := cfg.Queues
	if len(queues) == 0 {
		queues = map[string]int{
			Critical: 6,
			Default:  3,
			Low:      1,
		}
	}

	var logLevel asynq.LogLevel
	if cfg.LogLevel != "" {
		if err := logLevel.Set(cfg.LogLevel); err != nil {
			log.Warnw("invalid log level, using default info", "logLevel", cfg.LogLevel, "error", err)
			logLevel = asynq.InfoLevel
		}
	} else {
		logLevel = asynq.InfoLevel
	}

	shutdownTimeout := 10 * time.Second
	if cfg.ShutdownTimeout > 0 {
		shutdownTimeout = time.Duration(cfg.ShutdownTimeout) * time.Second
	}

	serverConfig := asynq.Config{
		Concurrency:     cfg.Concurrency,
		StrictPriority:  cfg.StrictPriority,
		Queues:          queues,
		Logger:          &asynqLoggerAdapter{}, // 使用 pkg/log 作为 logger
		LogLevel:        logLevel,
		RetryDelayFunc:  asynq.DefaultRetryDelayFunc,
		ShutdownTimeout: shutdownTimeout,
	}

	srv := &Server{
		server:   asynq.NewServer(redisOpt, serverConfig),
		mux:      asynq.NewServeMux(),
		config:   cfg,
		handlers: make(map[string]TaskHandler),
		redisOpt: redisOpt,
	}

	log.Infow("queue server created",
		"concurrency", cfg.Concurrency,
		"queues", queues,
	)

	return srv, nil
}

// RegisterHandler 注册任务处理器
func (s *Server) RegisterHandler(route string, handler TaskHandler) {
	s.handlers[route] = handler

	// 注册到 asynq ServeMux
	s.mux.HandleFunc(route, func(ctx context.Context, t *asynq.Task) error {
		var taskPayload TaskPayload
		if err := sonic.Unmarshal(t.Payload(), &taskPayload); err != nil {
			return fmt.Errorf("unmarshal task payload: %w", err)
		}

		log.Infow("processing task",
			"task_id", taskPayload.TaskID,
			"route", taskPayload.Route,
		)

		if err := handler.HandleTask(ctx, &taskPayload); err != nil {
			log.Errorw("task execution failed",
				"task_id", taskPayload.TaskID,
				"route", taskPayload.Route,
				"error", err,
			)
			return err
		}

		log.Infow("task execution completed",
			"task_id", taskPayload.TaskID,
			"route", taskPayload.Route,
		)

		return nil
	})

	log.Infow("task handler registered", "route", route)
}

// RegisterHandlerFunc 注册任务处理器函数
func (s *Server) RegisterHandlerFunc(route string, handlerFunc TaskHandlerFunc) {
	s.RegisterHandler(route, handlerFunc)
}

// Start 启动队列消费端，立即返回不阻塞
func (s *Server) Start() error {
	log.Info("starting queue server")
	return s.server.Start(s.mux)
}

// Run 启动队列消费端并阻塞等待信号
func (s *Server) Run() error {
	log.Info("running queue server")
	return s.server.Run(s.mux)
}

// Shutdown 关闭队列消费端
func (s *Server) Shutdown() {
	log.Info("shutting down queue server")
	s.server.Shutdown()
}

// GetRedisConnOpt 获取 Redis 连接选项（用于创建 Inspector）
func (s *Server) GetRedisConnOpt() asynq.RedisConnOpt {
	return s.redisOpt
}
