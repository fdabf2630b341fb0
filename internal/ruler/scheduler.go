/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ruler

import "sync"

// Scheduler runs fn after the current input turn has been processed.
type Scheduler interface {
	Post(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

func (f SchedulerFunc) Post(fn func()) { f(fn) }

// Queue collects posted callbacks until Drain runs them. Hosts without their
// own dispatcher call Drain once per event turn.
type Queue struct {
	mu sync.Mutex
	q  []func()
}

func (q *Queue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.q = append(q.q, fn)
	q.mu.Unlock()
}

// Drain runs the callbacks queued so far and returns how many ran. Callbacks
// posted while draining wait for the next Drain.
func (q *Queue) Drain() int {
	q.mu.Lock()
	callbacks := append([]func(){}, q.q...)
	q.q = nil
	q.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
	return len(callbacks)
}

// Len returns the number of pending callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.q)
}
