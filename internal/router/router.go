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

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kgraph-io/kgraph/internal/orchestrator"
)

type Router struct {
	Orc *orchestrator.Orchestrator
}

func NewRouter(orc *orchestrator.Orchestrator) *Router {
	return &Router{Orc: orc}
}

// Register 挂载业务路由
func (rt *Router) Register(r *gin.RouterGroup) {
	hadoop := r.Group("/hadoop")
	{
		hadoop.POST("/build/batch", rt.buildBatch)
		hadoop.GET("/status/:taskId", rt.taskStatus)
	}
}
