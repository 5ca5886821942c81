package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned by Submit once Stop has been called.
var ErrStopped = errors.New("worker pool stopped")

// Task represents a unit of work executed by the pool.
type Task func()

// Pool bounds how many tasks run at the same time.
type Pool interface {
	// Submit blocks until a worker picks t up, ctx is done, or the pool stops.
	Submit(ctx context.Context, t Task) error
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Task), quit: make(chan struct{})}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.loop()
	}
	return p
}

type pool struct {
	jobs chan Task
	quit chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func (p *pool) loop() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			if job != nil {
				job()
			}
		case <-p.quit:
			return
		}
	}
}

func (p *pool) Submit(ctx context.Context, t Task) error {
	select {
	case <-p.quit:
		return ErrStopped
	default:
	}
	select {
	case p.jobs <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.quit:
		return ErrStopped
	}
}

// Stop waits for running tasks to finish. Safe to call more than once.
func (p *pool) Stop() {
	p.once.Do(func() { close(p.quit) })
	p.wg.Wait()
}
