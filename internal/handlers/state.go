package handlers

import (
	"context"
	"sync"

	"shelfsmart/internal/services"
)

// loaded remembers which screens have fetched their collection at least once,
// so that paging through a list does not refetch it.
type loaded struct {
	mu   sync.Mutex
	done map[string]bool
}

func newLoaded() *loaded {
	return &loaded{done: make(map[string]bool)}
}

func (l *loaded) needs(screen string, refresh bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return refresh || !l.done[screen]
}

func (l *loaded) mark(screen string) {
	l.mu.Lock()
	l.done[screen] = true
	l.mu.Unlock()
}

func (l *loaded) reset() {
	l.mu.Lock()
	l.done = make(map[string]bool)
	l.mu.Unlock()
}

type confirmKey struct{}

// withConfirmation records the caller's answer to a delete prompt.
func withConfirmation(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, confirmKey{}, confirmed)
}

// RequestConfirmer answers delete prompts with the confirm flag of the request
// being served. A request without the flag declines.
var RequestConfirmer services.Confirmer = services.ConfirmFunc(func(ctx context.Context, _ string) (bool, error) {
	confirmed, _ := ctx.Value(confirmKey{}).(bool)
	return confirmed, nil
})
