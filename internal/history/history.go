/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history keeps bounded undo/redo stacks of value snapshots.
package history

import (
	"sync"
	"time"
)

// Entry is a state captured before a change was applied.
type Entry[T any] struct {
	State T
	TS    time.Time
}

// Config controls depth and coalescing.
type Config struct {
	// MaxDepth limits the undo stack; the oldest entries are dropped first (0 means unlimited).
	MaxDepth int
	// MinInterval merges pushes that arrive within the interval of the previous one.
	// The earlier state is kept so a burst (e.g. a held arrow key) undoes as one step.
	MinInterval time.Duration
}

// Manager is an undo/redo stack of snapshots. It is safe for concurrent use.
type Manager[T any] struct {
	cfg  Config
	mu   sync.Mutex
	undo []Entry[T]
	redo []Entry[T]
}

func NewManager[T any](cfg Config) *Manager[T] {
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = 0
	}
	return &Manager[T]{cfg: cfg}
}

// Push records the state that existed before a change. Any pending redo is discarded.
func (m *Manager[T]) Push(state T, ts time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redo = nil
	if n := len(m.undo); n > 0 && m.cfg.MinInterval > 0 {
		last := &m.undo[n-1]
		if d := ts.Sub(last.TS); d >= 0 && d < m.cfg.MinInterval {
			last.TS = ts
			return
		}
	}
	m.undo = append(m.undo, Entry[T]{State: state, TS: ts})
	m.enforceCapsLocked()
}

// Commit records state as a step of its own; it never merges with neighbours.
func (m *Manager[T]) Commit(state T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redo = nil
	m.undo = append(m.undo, Entry[T]{State: state})
	m.enforceCapsLocked()
}

// Undo returns the state to restore and remembers current for Redo.
func (m *Manager[T]) Undo(current T) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	n := len(m.undo)
	if n == 0 {
		return zero, false
	}
	e := m.undo[n-1]
	m.undo = m.undo[:n-1]
	m.redo = append(m.redo, Entry[T]{State: current, TS: e.TS})
	return e.State, true
}

// Redo reverses the last Undo.
func (m *Manager[T]) Redo(current T) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	n := len(m.redo)
	if n == 0 {
		return zero, false
	}
	e := m.redo[n-1]
	m.redo = m.redo[:n-1]
	// a redo must not merge with the previous entry
	m.undo = append(m.undo, Entry[T]{State: current, TS: time.Time{}})
	m.enforceCapsLocked()
	return e.State, true
}

// CanUndo and CanRedo report whether the stacks are non-empty.
func (m *Manager[T]) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

func (m *Manager[T]) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// Clear drops both stacks.
func (m *Manager[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo, m.redo = nil, nil
}

// Stats returns current stack depths for diagnostics.
func (m *Manager[T]) Stats() (undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo), len(m.redo)
}

func (m *Manager[T]) enforceCapsLocked() {
	if m.cfg.MaxDepth > 0 && len(m.undo) > m.cfg.MaxDepth {
		toDrop := len(m.undo) - m.cfg.MaxDepth
		m.undo = append([]Entry[T]{}, m.undo[toDrop:]...)
	}
}
