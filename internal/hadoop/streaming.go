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
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kgraph-io/kgraph/pkg/log"
)

// JobSpec 一次 hadoop-streaming 作业
type JobSpec struct {
	Name       string
	InputPath  string
	OutputPath string
	Mapper     string // mapper 脚本文件名，相对 ScriptDir
	Reducer    string // reducer 脚本文件名，为空表示 map-only 作业
}

// JobResult 作业执行结果
type JobResult struct {
	Success    bool
	OutputPath string
	Error      string
}

// RunStreamingJob 提交 hadoop-streaming 作业并等待完成
// 作业失败不返回 error，失败信息放在 JobResult.Error 里
func (c *Client) RunStreamingJob(ctx context.Context, spec JobSpec) JobResult {
	jobCtx, cancel := context.WithTimeout(ctx, time.Duration(c.conf.JobTimeout)*time.Second)
	defer cancel()

	// streaming 作业要求输出目录不存在
	if err := c.Delete(jobCtx, spec.OutputPath, true); err != nil {
		log.Warnw("cleanup stale output failed", "job", spec.Name, "path", spec.OutputPath, "error", err)
	}

	mapperPath := filepath.Join(c.conf.ScriptDir, spec.Mapper)

	args := []string{
		"jar", c.conf.StreamingJar,
		"-D", fmt.Sprintf("mapreduce.job.name=%s", spec.Name),
		"-input", spec.InputPath,
		"-output", spec.OutputPath,
		"-mapper", filepath.Base(mapperPath),
		"-file", mapperPath,
	}

	if spec.Reducer != "" {
		reducerPath := filepath.Join(c.conf.ScriptDir, spec.Reducer)
		args = append(args,
			"-reducer", filepath.Base(reducerPath),
			"-file", reducerPath,
		)
	} else {
		args = append(args, "-numReduceTasks", "0")
	}

	log.Infow("submitting streaming job",
		"job", spec.Name,
		"input", spec.InputPath,
		"output", spec.OutputPath,
	)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(jobCtx, c.conf.HadoopBin, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := fmt.Sprintf("streaming job %s failed: %v", spec.Name, err)
		if tail := stderrTail(stderr.String()); tail != "" {
			msg = fmt.Sprintf("%s: %s", msg, tail)
		}
		log.Errorw("streaming job failed", "job", spec.Name, "error", msg)
		return JobResult{Success: false, Error: msg}
	}

	log.Infow("streaming job completed", "job", spec.Name, "output", spec.OutputPath)
	return JobResult{Success: true, OutputPath: spec.OutputPath}
}

// stderrTail 截取 stderr 末尾若干行，作业失败时日志很长
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "; ")
}
