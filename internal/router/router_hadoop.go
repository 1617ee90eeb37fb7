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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kgraph-io/kgraph/internal/orchestrator"
	"github.com/kgraph-io/kgraph/pkg/httpx"
	"github.com/pkg/errors"
)

type buildBatchReq struct {
	FileIDs []string `json:"fileIds" binding:"required,min=1"`
}

// buildBatch 触发批量文档构建，立即返回 PENDING 任务
func (rt *Router) buildBatch(r *gin.Context) {

	var req buildBatchReq

	if err := r.BindJSON(&req); err != nil {
		httpx.WithRepErrMsg(r, httpx.BadRequest.Code, httpx.BadRequest.Msg, r.Request.URL.Path)
		return
	}

	rec, err := rt.Orc.Trigger(r.Request.Context(), req.FileIDs)
	if err != nil {
		httpx.WithRepErrMsg(r, httpx.BadRequest.Code, err.Error(), r.Request.URL.Path)
		return
	}

	r.JSON(http.StatusAccepted, gin.H{
		"taskId": rec.TaskID,
		"status": rec.Status,
	})
}

// taskStatus 查询任务状态
func (rt *Router) taskStatus(r *gin.Context) {

	taskID := r.Param("taskId")

	rec, err := rt.Orc.Get(taskID)
	if err != nil {
		if errors.Is(err, orchestrator.ErrTaskNotFound) {
			httpx.WithRepErrMsg(r, httpx.NotFound.Code, "task not found", r.Request.URL.Path)
			return
		}
		httpx.WithRepErrMsg(r, httpx.InternalError.Code, httpx.InternalError.Msg, r.Request.URL.Path)
		return
	}

	r.JSON(http.StatusOK, gin.H{
		"task": rec,
	})
}
