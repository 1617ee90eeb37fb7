package orchestrator

import (
	"github.com/google/wire"
	"github.com/kgraph-io/kgraph/internal/orchestrator/diag"
	"github.com/kgraph-io/kgraph/internal/queue"
)

// ProviderSet 提供编排器相关的依赖
var ProviderSet = wire.NewSet(
	NewStore,
	ProvideCollector,
	ProvideOrchestrator,
)

// ProvideCollector 提供环境快照采集器
func ProvideCollector() *diag.Collector {
	return diag.NewCollector(diag.WithHostFingerprint())
}

// ProvideOrchestrator 提供任务编排器
func ProvideOrchestrator(store *Store, dispatcher *queue.Dispatcher, stages []Stage, collector *diag.Collector) *Orchestrator {
	return NewOrchestrator(store, dispatcher, stages, WithCollector(collector))
}
