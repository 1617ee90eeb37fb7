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

// Package diag 在任务异常失败时采集运行环境快照，用于事后排障。
// 采集过程自身绝不允许影响任务终态的写入，任何内部错误都只产生部分快照。
package diag

import (
	"context"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/kgraph-io/kgraph/pkg/log"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// ModuleFingerprint 依赖模块指纹
type ModuleFingerprint struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// HostFingerprint 宿主机指纹
type HostFingerprint struct {
	Hostname       string  `json:"hostname,omitempty"`
	MemTotalMB     uint64  `json:"memTotalMb,omitempty"`
	MemUsedPercent float64 `json:"memUsedPercent,omitempty"`
	Load1          float64 `json:"load1,omitempty"`
	NumGoroutine   int     `json:"numGoroutine,omitempty"`
}

// Snapshot 环境快照
type Snapshot struct {
	GoVersion  string              `json:"goVersion"`
	CapturedAt time.Time           `json:"capturedAt"`
	Modules    []ModuleFingerprint `json:"modules,omitempty"`
	Host       *HostFingerprint    `json:"host,omitempty"`
	Note       string              `json:"note,omitempty"` // 采集降级说明
}

// Clone 深拷贝快照
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Modules != nil {
		cp.Modules = append([]ModuleFingerprint(nil), s.Modules...)
	}
	if s.Host != nil {
		host := *s.Host
		cp.Host = &host
	}
	return &cp
}

// Provider 模块指纹提供者
// 默认实现读取二进制的构建信息，测试中可注入固定指纹
type Provider interface {
	Modules() []ModuleFingerprint
}

// ProviderFunc 函数式 Provider
type ProviderFunc func() []ModuleFingerprint

func (f ProviderFunc) Modules() []ModuleFingerprint {
	return f()
}

// buildInfoProvider 从二进制构建信息读取依赖模块
type buildInfoProvider struct{}

func (buildInfoProvider) Modules() []ModuleFingerprint {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	modules := make([]ModuleFingerprint, 0, len(info.Deps)+1)
	modules = append(modules, ModuleFingerprint{
		Path:    info.Main.Path,
		Version: info.Main.Version,
	})
	for _, dep := range info.Deps {
		modules = append(modules, ModuleFingerprint{
			Path:    dep.Path,
			Version: dep.Version,
		})
	}
	return modules
}

// Collector 环境快照采集器
type Collector struct {
	provider Provider
	withHost bool
}

// Option 采集器选项
type Option func(*Collector)

// WithProvider 注入自定义模块指纹提供者
func WithProvider(p Provider) Option {
	return func(c *Collector) {
		c.provider = p
	}
}

// WithHostFingerprint 开启宿主机指纹采集
func WithHostFingerprint() Option {
	return func(c *Collector) {
		c.withHost = true
	}
}

// NewCollector 创建采集器
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		provider: buildInfoProvider{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect 采集环境快照，保证不 panic、不返回 nil
func (c *Collector) Collect(ctx context.Context) (snap *Snapshot) {
	snap = &Snapshot{
		GoVersion:  runtime.Version(),
		CapturedAt: time.Now(),
	}

	defer func() {
		if r := recover(); r != nil {
			log.Warnw("diag collector panicked, returning partial snapshot", "panic", r)
			snap.Note = "partial snapshot: collector failed"
		}
	}()

	if c.provider != nil {
		snap.Modules = c.provider.Modules()
	}

	if c.withHost {
		snap.Host = collectHost(ctx)
	}

	return snap
}

// collectHost 采集宿主机指纹，单项失败不影响其他项
func collectHost(ctx context.Context) *HostFingerprint {
	host := &HostFingerprint{
		NumGoroutine: runtime.NumGoroutine(),
	}

	if hostname, err := os.Hostname(); err == nil {
		host.Hostname = hostname
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		host.MemTotalMB = vm.Total / 1024 / 1024
		host.MemUsedPercent = vm.UsedPercent
	} else {
		log.Debugw("virtual memory stat unavailable", "error", err)
	}

	if avg, err := load.AvgWithContext(ctx); err == nil {
		host.Load1 = avg.Load1
	} else {
		log.Debugw("load average unavailable", "error", err)
	}

	return host
}

// Stack 返回当前调用栈
func Stack() string {
	return string(debug.Stack())
}
