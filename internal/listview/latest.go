package listview

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned for a response dropped because a newer request started.
var ErrSuperseded = errors.New("superseded by a newer request")

// Latest sequences overlapping fetches for one piece of derived state so that
// only the most recently started request is applied.
type Latest struct {
	mu     sync.Mutex
	epoch  uint64
	cancel context.CancelFunc
}

// Begin starts a new request generation. The previous generation's context is
// cancelled and its result will be rejected by Apply.
func (l *Latest) Begin(ctx context.Context) (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.epoch++
	reqCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	return reqCtx, l.epoch
}

// Apply runs fn only if epoch is still the latest generation and then
// releases that generation's context. It reports whether fn ran.
func (l *Latest) Apply(epoch uint64, fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if epoch != l.epoch {
		return false
	}
	fn()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	return true
}
