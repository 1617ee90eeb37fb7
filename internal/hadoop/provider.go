package hadoop

import (
	"github.com/google/wire"
	"github.com/kgraph-io/kgraph/internal/orchestrator"
)

// ProviderSet 提供 Hadoop 相关的依赖
var ProviderSet = wire.NewSet(
	NewClient,
	ProvideStages,
)

// ProvideStages 提供文档处理流水线
func ProvideStages(client *Client) []orchestrator.Stage {
	return Pipeline(client)
}
