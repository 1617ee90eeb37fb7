package config

import (
	"fmt"
	"sync"

	"github.com/kgraph-io/kgraph/internal/hadoop"
	"github.com/kgraph-io/kgraph/internal/server/http"
	"github.com/kgraph-io/kgraph/pkg/conf"
	"github.com/kgraph-io/kgraph/pkg/log"
)

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout int // 秒
}

// TaskQueueConfig 任务队列配置
type TaskQueueConfig struct {
	Enabled         bool
	Concurrency     int
	StrictPriority  bool
	Priority        map[string]int // 队列名 -> 权重
	DefaultQueue    string
	LogLevel        string
	ShutdownTimeout int
	PingTimeout     int
}

// RetentionConfig 任务记录保留配置
type RetentionConfig struct {
	SweepInterval int // 清理周期（分钟），0 表示不清理
	MaxAgeHours   int // 终态任务保留时长（小时）
}

type AppConfig struct {
	Log       log.Conf
	Http      http.HTTP
	Redis     RedisConfig
	TaskQueue TaskQueueConfig
	Hadoop    hadoop.Conf
	Retention RetentionConfig
}

var (
	cfg  AppConfig
	once sync.Once
)

// NewConf 加载配置，进程内只加载一次
func NewConf(confDir string) AppConfig {
	once.Do(func() {
		if err := conf.LoadConfigFile(confDir, &cfg); err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return cfg
}
