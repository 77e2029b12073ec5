package engine

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ErrPoolClosed is returned by Acquire after Close has been called.
var ErrPoolClosed = errors.New("engine pool is closed")

// Factory builds the nth worker during pool construction.
type Factory func(id int) (Engine, error)

// Pool owns a fixed set of workers and arbitrates exclusive access to them.
// A worker is either idle in the pool or lent to exactly one borrower; the
// total never changes between startup and shutdown.
type Pool struct {
	log zerolog.Logger

	mu      sync.Mutex
	idle    []Engine
	waiters *list.List // of chan Engine, one-shot hand-off handles, FIFO
	size    int
	borrows uint64
	closed  bool
}

// Stats is a point-in-time snapshot of pool occupancy.
type Stats struct {
	Size    int    `json:"size"`
	Idle    int    `json:"idle"`
	Waiting int    `json:"waiting"`
	Borrows uint64 `json:"borrows"`
}

// NewPool constructs size workers sequentially via factory. If any worker
// fails to start, the ones already started are closed and the error is
// returned; a partial pool never runs.
func NewPool(size int, factory Factory, logger zerolog.Logger) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pool size must be positive, got %d", size)
	}

	p := &Pool{
		log:     logger.With().Str("component", "engine_pool").Logger(),
		idle:    make([]Engine, 0, size),
		waiters: list.New(),
		size:    size,
	}

	for i := 0; i < size; i++ {
		eng, err := factory(i)
		if err != nil {
			for _, started := range p.idle {
				started.Close()
			}
			return nil, fmt.Errorf("worker %d failed to start: %w", i, err)
		}
		p.idle = append(p.idle, eng)
	}

	p.log.Info().Int("size", size).Msg("engine pool ready")
	return p, nil
}

// Acquire returns an idle worker immediately when one is available.
// Otherwise the caller joins a FIFO queue and waits, without bound, until a
// Release hands a worker to it. Cancelling ctx abandons the queue slot; a
// worker handed over in the same instant is put back into circulation.
func (p *Pool) Acquire(ctx context.Context) (Engine, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if len(p.idle) > 0 {
		eng := p.idle[0]
		p.idle = p.idle[1:]
		p.borrows++
		p.mu.Unlock()
		return eng, nil
	}

	ready := make(chan Engine, 1)
	elem := p.waiters.PushBack(ready)
	p.mu.Unlock()

	select {
	case eng, ok := <-ready:
		if !ok {
			return nil, ErrPoolClosed
		}
		return eng, nil
	case <-ctx.Done():
		p.mu.Lock()
		// A Release (or Close) may have already dequeued us.
		select {
		case eng, ok := <-ready:
			p.mu.Unlock()
			if ok {
				p.Release(eng)
			}
			return nil, ctx.Err()
		default:
		}
		p.waiters.Remove(elem)
		p.mu.Unlock()
		return nil, ctx.Err()
	}
}

// Release returns a worker to the pool. If anyone is waiting, the worker goes
// directly to the longest-waiting caller; otherwise it rejoins the idle list.
// Release never blocks and never fails.
func (p *Pool) Release(eng Engine) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		eng.Close()
		return
	}

	if front := p.waiters.Front(); front != nil {
		p.waiters.Remove(front)
		p.borrows++
		front.Value.(chan Engine) <- eng // buffered, never blocks
		return
	}

	p.idle = append(p.idle, eng)
}

// Stats reports current occupancy.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Size:    p.size,
		Idle:    len(p.idle),
		Waiting: p.waiters.Len(),
		Borrows: p.borrows,
	}
}

// Size returns the configured pool size.
func (p *Pool) Size() int {
	return p.size
}

// Close shuts down the pool: idle workers are closed now, queued waiters fail
// with ErrPoolClosed, and lent workers are closed as they come back through
// Release.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

	for e := p.waiters.Front(); e != nil; e = e.Next() {
		close(e.Value.(chan Engine))
	}
	p.waiters.Init()

	for _, eng := range p.idle {
		eng.Close()
	}
	p.idle = nil

	p.log.Info().Msg("engine pool closed")
}
