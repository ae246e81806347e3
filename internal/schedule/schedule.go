// Package schedule runs keyed periodic tasks. Starting a task under a key
// that is already scheduled replaces it; cancelling is idempotent.
package schedule

import (
	"context"
	"sync"
	"time"
)

// TickFunc is called on every tick. Returning false ends the task.
type TickFunc func(now time.Time) bool

type task struct {
	cancel context.CancelFunc
	gen    uint64
}

// Scheduler owns one goroutine and ticker per active key.
type Scheduler struct {
	mu    sync.Mutex
	tasks map[string]*task
	gen   uint64
}

func New() *Scheduler {
	return &Scheduler{tasks: make(map[string]*task)}
}

// Every starts fn on a ticker of the given interval under key, cancelling
// any task already running under that key. The task ends when fn returns
// false, when Cancel(key) is called, or when ctx is done.
func (s *Scheduler) Every(ctx context.Context, key string, interval time.Duration, fn TickFunc) {
	s.Cancel(key)

	tctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.gen++
	t := &task{cancel: cancel, gen: s.gen}
	s.tasks[key] = t
	s.mu.Unlock()

	go func() {
		defer s.release(key, t)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-tctx.Done():
				return
			case now := <-ticker.C:
				if tctx.Err() != nil {
					return
				}
				if !fn(now) {
					return
				}
			}
		}
	}()
}

// release drops the map entry if it still belongs to t.
func (s *Scheduler) release(key string, t *task) {
	t.cancel()
	s.mu.Lock()
	if cur, ok := s.tasks[key]; ok && cur.gen == t.gen {
		delete(s.tasks, key)
	}
	s.mu.Unlock()
}

// Cancel stops the task under key and reports whether one was scheduled.
// A tick already in progress finishes, but no further ticks are delivered.
// Safe to call from inside the task's own TickFunc.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	t, ok := s.tasks[key]
	if ok {
		delete(s.tasks, key)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	t.cancel()
	return true
}

// CancelAll stops every task and returns how many were running.
func (s *Scheduler) CancelAll() int {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = make(map[string]*task)
	s.mu.Unlock()
	for _, t := range tasks {
		t.cancel()
	}
	return len(tasks)
}

// Active reports whether a task is scheduled under key.
func (s *Scheduler) Active(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

// Len returns the number of scheduled tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
