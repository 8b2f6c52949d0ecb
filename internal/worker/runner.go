// Package worker serializes background work onto a single goroutine. The
// settlement engine does no locking of its own, so callers that want to keep
// a foreground loop responsive submit engine operations here: tasks run
// strictly one at a time, in submission order.
package worker

import "sync"

// Task is one unit of background work.
type Task func() error

// Runner executes submitted tasks sequentially on one goroutine.
type Runner struct {
	tasks chan job
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type job struct {
	task   Task
	onDone func()
	onErr  func(error)
}

// NewRunner starts a runner. The buffer bounds how many tasks may queue
// before Submit blocks.
func NewRunner(buffer int) *Runner {
	r := &Runner{tasks: make(chan job, buffer)}
	r.wg.Add(1)
	go r.loop()
	return r
}

func (r *Runner) loop() {
	defer r.wg.Done()
	for j := range r.tasks {
		if err := j.task(); err != nil {
			if j.onErr != nil {
				j.onErr(err)
			}
			continue
		}
		if j.onDone != nil {
			j.onDone()
		}
	}
}

// Submit queues a task. Exactly one of onDone or onErr fires when it
// finishes; either may be nil. Callbacks run on the runner's goroutine.
// Submit reports false once the runner is closed.
func (r *Runner) Submit(task Task, onDone func(), onErr func(error)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.tasks <- job{task: task, onDone: onDone, onErr: onErr}
	return true
}

// Close stops accepting tasks and waits for the queue to drain.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.tasks)
	r.mu.Unlock()

	r.wg.Wait()
}
