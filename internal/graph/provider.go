package graph

import (
	"github.com/google/wire"
)

// ProviderSet 提供图谱构建相关的依赖
var ProviderSet = wire.NewSet(
	NewBuilder,
)
