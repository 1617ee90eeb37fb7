package queue

import (
	"github.com/google/wire"
)

// ProviderSet 提供 queue 相关的依赖
var ProviderSet = wire.NewSet(
	ProvideDispatcher,
	ProvideServer,
)

// ProvideDispatcher 提供任务投递器
func ProvideDispatcher(cfg *Config) (*Dispatcher, error) {
	return NewDispatcher(cfg)
}

// ProvideServer 提供队列消费端
func ProvideServer(cfg *Config) (*Server, error) {
	return NewServer(cfg)
}
