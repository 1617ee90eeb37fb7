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

package hadoop

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/kgraph-io/kgraph/internal/orchestrator"
)

// 流水线阶段名
const (
	StagePDFExtract = "pdf_extract"
	StageTextClean  = "text_clean"
	StageTextChunk  = "text_chunk"
)

// Pipeline 返回文档处理流水线
// pdf_extract 抽取文本（带 reducer 合并分页），text_clean 清洗，text_chunk 切块，
// 每个阶段的输出目录作为下一阶段的输入
func Pipeline(client *Client) []orchestrator.Stage {
	return []orchestrator.Stage{
		client.stage(StagePDFExtract, "pdf_extract_mapper.py", "pdf_extract_reducer.py"),
		client.stage(StageTextClean, "text_clean_mapper.py", ""),
		client.stage(StageTextChunk, "text_chunk_mapper.py", ""),
	}
}

// stage 把一个 streaming 作业包装成流水线阶段
func (c *Client) stage(name, mapper, reducer string) orchestrator.Stage {
	return orchestrator.Stage{
		Name: name,
		Run: func(ctx context.Context, in orchestrator.StageInput) orchestrator.StageResult {
			inputPath := in.InputPath
			if inputPath == "" {
				// 首个阶段：先把待处理文件清单写入 HDFS
				prepared, err := c.prepareInput(ctx, in)
				if err != nil {
					return orchestrator.StageResult{
						Success: false,
						Error:   fmt.Sprintf("prepare input: %v", err),
					}
				}
				inputPath = prepared
			}

			result := c.RunStreamingJob(ctx, JobSpec{
				Name:       fmt.Sprintf("kgraph-%s-%s", name, in.TaskID),
				InputPath:  inputPath,
				OutputPath: c.stageOutputPath(in.TaskID, name),
				Mapper:     mapper,
				Reducer:    reducer,
			})

			return orchestrator.StageResult{
				Success: result.Success,
				Output:  result.OutputPath,
				Error:   result.Error,
			}
		},
	}
}

// prepareInput 在 HDFS 上写入文件 ID 清单，作为首个阶段的输入
func (c *Client) prepareInput(ctx context.Context, in orchestrator.StageInput) (string, error) {
	inputDir := path.Join(c.conf.BasePath, "tasks", in.TaskID, "input")
	if err := c.MkdirAll(ctx, inputDir); err != nil {
		return "", err
	}

	manifest := path.Join(inputDir, "file_ids.txt")
	data := []byte(strings.Join(in.FileIDs, "\n") + "\n")
	if err := c.WriteFile(ctx, manifest, data); err != nil {
		return "", err
	}

	return inputDir, nil
}

func (c *Client) stageOutputPath(taskID, stage string) string {
	return path.Join(c.conf.BasePath, "tasks", taskID, stage)
}
