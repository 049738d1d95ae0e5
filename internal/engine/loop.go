package engine

import (
	"context"
	"log/slog"
)

// Loop runs scheduled tasks on the engine's goroutine, in post order, after
// the currently running task returns.
type Loop interface {
	Post(task func())
}

// ManualLoop is a Loop driven explicitly by the caller.
//
// Tests and the CLI use it: mutations happen synchronously, then Drain runs
// the deferred apply pass deterministically.
type ManualLoop struct {
	tasks []func()
}

// NewManualLoop creates an empty manual loop.
func NewManualLoop() *ManualLoop {
	return &ManualLoop{}
}

// Post appends task to the queue.
func (l *ManualLoop) Post(task func()) {
	l.tasks = append(l.tasks, task)
}

// Len returns the number of queued tasks.
func (l *ManualLoop) Len() int {
	return len(l.tasks)
}

// Step runs the front task. It returns false if the queue was empty.
func (l *ManualLoop) Step() bool {
	if len(l.tasks) == 0 {
		return false
	}
	task := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	task()
	return true
}

// Drain runs tasks until the queue is empty, including tasks posted while
// draining, and returns how many ran.
func (l *ManualLoop) Drain() int {
	n := 0
	for l.Step() {
		n++
	}
	return n
}

// EventLoop is a Loop owned by one goroutine running Run.
//
// Thread-safety model:
//   - Post(): safe from any goroutine
//   - Stop(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine, which then owns the
//     engine and registry
type EventLoop struct {
	queue  *taskQueue
	logger *slog.Logger
}

// NewEventLoop creates an event loop. A nil logger uses slog.Default().
func NewEventLoop(logger *slog.Logger) *EventLoop {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLoop{
		queue:  newTaskQueue(),
		logger: logger,
	}
}

// Post schedules task. Tasks posted after Stop are dropped.
func (l *EventLoop) Post(task func()) {
	if !l.queue.Enqueue(task) {
		l.logger.Debug("task dropped: loop stopped")
	}
}

// Len returns the number of queued tasks.
func (l *EventLoop) Len() int {
	return l.queue.Len()
}

// Run executes tasks until ctx is cancelled or Stop is called.
// Tasks already queued when Stop is called still run.
func (l *EventLoop) Run(ctx context.Context) error {
	l.logger.Debug("event loop starting")

	for {
		if task, ok := l.queue.TryDequeue(); ok {
			task()
			continue
		}

		select {
		case <-ctx.Done():
			l.logger.Debug("event loop stopping: context cancelled")
			l.queue.Close()
			return ctx.Err()

		case <-l.queue.Wait():
			// The signal channel is closed with the queue, which makes this
			// case fire immediately
			if l.queue.Len() == 0 && l.isClosed() {
				l.logger.Debug("event loop stopping: queue closed")
				return nil
			}
		}
	}
}

func (l *EventLoop) isClosed() bool {
	l.queue.mu.Lock()
	defer l.queue.mu.Unlock()
	return l.queue.closed
}

// Stop closes the loop. Run returns once the queue is drained.
func (l *EventLoop) Stop() {
	l.queue.Close()
}
