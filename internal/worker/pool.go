package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Pool runs named background tasks and lets shutdown wait for them.
type Pool struct {
	ctx    context.Context
	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool returns a pool whose tasks receive ctx.
func NewPool(ctx context.Context, logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{ctx: ctx, logger: logger}
}

// Go runs fn on its own goroutine. A panic in fn is logged and swallowed.
func (p *Pool) Go(name string, fn func(ctx context.Context)) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("task panicked", zap.String("task", name), zap.String("panic", fmt.Sprint(r)))
			}
		}()
		p.logger.Debug("task started", zap.String("task", name))
		fn(p.ctx)
	}()
}

// Wait blocks until every task finished or ctx is done.
func (p *Pool) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
