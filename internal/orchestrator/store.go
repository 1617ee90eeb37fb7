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

package orchestrator

import (
	"sync"
	"time"

	"github.com/kgraph-io/kgraph/pkg/id"
	"github.com/kgraph-io/kgraph/pkg/log"
	"github.com/kgraph-io/kgraph/pkg/statemachine"
	"github.com/pkg/errors"
)

// ErrTaskNotFound 任务不存在
var ErrTaskNotFound = errors.New("task not found")

// taskEntry 单个任务的存储单元，自带锁保证任务内更新串行
type taskEntry struct {
	mu     sync.Mutex
	record *TaskRecord
}

// Store 内存任务存储
// 任务内更新串行，任务间互不阻塞；终态记录冻结，后续更新为幂等空操作。
// 读操作只返回深拷贝，调用方拿不到内部指针。
type Store struct {
	mu    sync.RWMutex
	tasks map[string]*taskEntry
}

// NewStore 创建任务存储
func NewStore() *Store {
	return &Store{
		tasks: make(map[string]*taskEntry),
	}
}

// Create 创建一条 PENDING 任务记录并返回副本
func (s *Store) Create(fileIDs []string) *TaskRecord {
	now := time.Now()
	record := &TaskRecord{
		TaskID:     id.GetUUID(),
		Status:     statemachine.TaskPending,
		Progress:   ProgressCreated,
		Message:    "task created",
		FileIDs:    append([]string(nil), fileIDs...),
		Stages:     make(map[string]*StageResult),
		CreateTime: now,
		UpdateTime: now,
	}

	s.mu.Lock()
	s.tasks[record.TaskID] = &taskEntry{record: record}
	s.mu.Unlock()

	log.Infow("task created", "task_id", record.TaskID, "files", len(fileIDs))

	return record.Clone()
}

// Get 按 ID 查询任务，返回副本
func (s *Store) Get(taskID string) (*TaskRecord, error) {
	entry, ok := s.entry(taskID)
	if !ok {
		return nil, errors.Wrapf(ErrTaskNotFound, "task %s", taskID)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.record.Clone(), nil
}

// Update 原子更新任务记录
// mutator 在任务锁内对记录副本操作，校验通过后整体提交：
//   - 终态记录不再变化，返回 nil（幂等）
//   - 状态变更必须符合状态机，否则整体回滚
//   - 进度只增不减，且被钳制在 [0, 100]
func (s *Store) Update(taskID string, mutator func(*TaskRecord) error) error {
	entry, ok := s.entry(taskID)
	if !ok {
		return errors.Wrapf(ErrTaskNotFound, "task %s", taskID)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	prev := entry.record
	if prev.Status.IsTerminal() {
		log.Debugw("task already terminal, update ignored", "task_id", taskID, "status", prev.Status)
		return nil
	}

	next := prev.Clone()
	if err := mutator(next); err != nil {
		return err
	}

	// 记录主键不可变
	next.TaskID = prev.TaskID
	next.CreateTime = prev.CreateTime

	if next.Status != prev.Status {
		sm := statemachine.NewTaskStateMachine()
		sm.SetCurrent(prev.Status)
		if !sm.CanTransitTo(next.Status) {
			return errors.Errorf("invalid status transition: %s → %s", prev.Status, next.Status)
		}
	}

	// 进度单调递增
	if next.Progress < prev.Progress {
		next.Progress = prev.Progress
	}
	if next.Progress > ProgressDone {
		next.Progress = ProgressDone
	}

	now := time.Now()
	next.UpdateTime = now

	if next.Status.IsTerminal() {
		next.Progress = ProgressDone
		completed := now
		next.CompletedTime = &completed
		next.DurationMs = completed.Sub(next.CreateTime).Milliseconds()
	}

	entry.record = next
	return nil
}

// List 返回全部任务记录副本
func (s *Store) List() []*TaskRecord {
	s.mu.RLock()
	entries := make([]*taskEntry, 0, len(s.tasks))
	for _, entry := range s.tasks {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	records := make([]*TaskRecord, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		records = append(records, entry.record.Clone())
		entry.mu.Unlock()
	}
	return records
}

// Count 返回任务总数
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Sweep 清理在 cutoff 之前进入终态的任务记录，返回清理数量
func (s *Store) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for taskID, entry := range s.tasks {
		entry.mu.Lock()
		expired := entry.record.Status.IsTerminal() &&
			entry.record.CompletedTime != nil &&
			entry.record.CompletedTime.Before(cutoff)
		entry.mu.Unlock()

		if expired {
			delete(s.tasks, taskID)
			removed++
		}
	}

	if removed > 0 {
		log.Infow("swept terminal task records", "removed", removed)
	}

	return removed
}

func (s *Store) entry(taskID string) (*taskEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.tasks[taskID]
	return entry, ok
}
