// Package worker runs verification jobs concurrently and bounds the rate
// of reasoning-backend calls.
package worker

import (
	"context"
	"sync"
)

// Task is one unit of pool work
type Task[T any] func(ctx context.Context) T

type queued[T any] struct {
	seq  int
	task Task[T]
}

// Pool runs submitted tasks on a fixed number of goroutines and keeps
// their results in submission order
type Pool[T any] struct {
	workers int
	queue   chan queued[T]
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	next    int
	results []T
	done    []bool
	closed  bool
}

// NewPool creates a pool whose tasks run under a child of ctx
func NewPool[T any](ctx context.Context, workers int) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Pool[T]{
		workers: workers,
		queue:   make(chan queued[T], workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool[T]) Start() {
	for range p.workers {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool[T]) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case q, ok := <-p.queue:
			if !ok {
				return
			}
			v := q.task(p.ctx)
			p.mu.Lock()
			p.results[q.seq] = v
			p.done[q.seq] = true
			p.mu.Unlock()
		}
	}
}

// Submit queues a task. It returns false once the pool has been shut down
// or waited on. Submit and Wait must be called from the same goroutine.
func (p *Pool[T]) Submit(task Task[T]) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	seq := p.next
	p.next++
	var zero T
	p.results = append(p.results, zero)
	p.done = append(p.done, false)
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.queue <- queued[T]{seq: seq, task: task}:
		return true
	}
}

// Wait stops accepting tasks and waits for queued ones to finish. The
// returned slice has one entry per submitted task; ran reports which
// entries actually executed before the pool was canceled.
func (p *Pool[T]) Wait() (results []T, ran []bool) {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	results = make([]T, len(p.results))
	copy(results, p.results)
	ran = make([]bool, len(p.done))
	copy(ran, p.done)
	return results, ran
}

// Shutdown cancels running tasks and returns once every worker has exited
func (p *Pool[T]) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
