package app

import "sync"

// taskQueue hands work from background goroutines to the render loop
type taskQueue struct {
	mu    sync.Mutex
	tasks []func()
}

// Post queues fn for the next frame. It is safe to call from any goroutine.
func (q *taskQueue) Post(fn func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

// Drain runs every queued task on the calling goroutine and returns how
// many ran. Tasks posted while draining run on the next call.
func (q *taskQueue) Drain() int {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}
