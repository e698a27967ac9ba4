// Package queue runs submitted functions one at a time on a single worker
// goroutine.
package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/brettbedarf/hostfs/internal/util"
)

// ErrStopped is returned by Do once the queue has been stopped.
var ErrStopped = errors.New("queue stopped")

type task struct {
	fn   func()
	done chan struct{}
}

// Queue serializes work onto one goroutine. Callers block in Do until their
// function has run.
type Queue struct {
	tasks   chan task
	stopCh  chan struct{}
	stopped chan struct{}

	// mu orders submissions against Stop: no task is sent after stopCh closes.
	mu     sync.RWMutex
	closed bool
}

// New starts a queue that buffers up to depth pending tasks. A depth below
// one gives an unbuffered queue.
func New(depth int) *Queue {
	q := &Queue{
		tasks:   make(chan task, max(depth, 0)),
		stopCh:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	logger := util.GetLogger("Queue.Run")
	logger.Debug().Int("depth", cap(q.tasks)).Msg("Worker started")
	defer close(q.stopped)

	for {
		select {
		case <-q.stopCh:
			// Drain what was accepted before Stop so no caller is left waiting.
			for {
				select {
				case t := <-q.tasks:
					t.fn()
					close(t.done)
				default:
					logger.Debug().Msg("Worker stopped")
					return
				}
			}
		case t := <-q.tasks:
			t.fn()
			close(t.done)
		}
	}
}

// Do runs fn on the worker and waits for it to return. It fails without
// running fn when ctx ends or the queue stops before fn is accepted. Once
// accepted, fn always runs to completion and Do waits for it.
func (q *Queue) Do(ctx context.Context, fn func()) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrStopped
	}
	t := task{fn: fn, done: make(chan struct{})}
	select {
	case q.tasks <- t:
	case <-ctx.Done():
		q.mu.RUnlock()
		return ctx.Err()
	}
	q.mu.RUnlock()

	<-t.done
	return nil
}

// Stop finishes the accepted tasks, stops the worker and waits for it to
// exit. It is safe to call more than once.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.stopCh)
	}
	q.mu.Unlock()
	<-q.stopped
}
