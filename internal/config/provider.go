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

package config

import (
	"time"

	"github.com/google/wire"
	"github.com/kgraph-io/kgraph/internal/hadoop"
	"github.com/kgraph-io/kgraph/internal/queue"
	"github.com/kgraph-io/kgraph/internal/server/http"
	"github.com/kgraph-io/kgraph/pkg/log"
	"github.com/redis/go-redis/v9"
)

// ProviderSet 提供配置层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideHttpConfig,
	ProvideLogConfig,
	ProvideHadoopConfig,
	ProvideRedisClient,
	ProvideQueueConfig,
)

// ProvideConf 提供应用配置
func ProvideConf(configPath string) *AppConfig {
	appCfg := NewConf(configPath)
	return &appCfg
}

// ProvideHttpConfig 提供 HTTP 配置
func ProvideHttpConfig(appConf *AppConfig) *http.HTTP {
	httpConfig := &appConf.Http
	httpConfig.SetDefaults()
	return httpConfig
}

// ProvideLogConfig 提供日志配置
func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

// ProvideHadoopConfig 提供 Hadoop 配置
func ProvideHadoopConfig(appConf *AppConfig) *hadoop.Conf {
	hadoopConfig := &appConf.Hadoop
	hadoopConfig.SetDefaults()
	return hadoopConfig
}

// ProvideQueueConfig 提供 queue 配置
func ProvideQueueConfig(appConf *AppConfig, redisClient *redis.Client) *queue.Config {
	taskQueueConf := appConf.TaskQueue

	// 默认队列配置
	queues := taskQueueConf.Priority
	if len(queues) == 0 {
		queues = map[string]int{
			queue.Critical: 6,
			queue.Default:  3,
			queue.Low:      1,
		}
	}

	// 默认并发数
	concurrency := taskQueueConf.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	defaultQueue := taskQueueConf.DefaultQueue
	if defaultQueue == "" {
		defaultQueue = queue.Default
	}

	return &queue.Config{
		RedisClient:     redisClient, // 复用已有的 Redis 客户端
		Concurrency:     concurrency,
		StrictPriority:  taskQueueConf.StrictPriority,
		Queues:          queues,
		DefaultQueue:    defaultQueue,
		LogLevel:        taskQueueConf.LogLevel,
		ShutdownTimeout: taskQueueConf.ShutdownTimeout,
		PingTimeout:     taskQueueConf.PingTimeout,
	}
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(appConf *AppConfig) *redis.Client {
	dialTimeout := 5 * time.Second
	if appConf.Redis.DialTimeout > 0 {
		dialTimeout = time.Duration(appConf.Redis.DialTimeout) * time.Second
	}

	return redis.NewClient(&redis.Options{
		Addr:        appConf.Redis.Addr,
		Password:    appConf.Redis.Password,
		DB:          appConf.Redis.DB,
		DialTimeout: dialTimeout,
	})
}
