package services

import (
	"context"
	"errors"
	"sync"

	"shelfsmart/internal/common"
	"shelfsmart/internal/notify"

	"go.uber.org/zap"
)

// Action names used for in-flight tracking.
const (
	ActionLoad    = "loading"
	ActionAdd     = "adding"
	ActionEdit    = "editing"
	ActionDelete  = "deleting"
	ActionConsume = "consuming"
)

// inFlight tracks one flag per action kind. Different kinds may run at the same time.
type inFlight struct {
	mu     sync.Mutex
	active map[string]bool
}

// begin marks action as running, or fails with ErrRequestInFlight.
func (f *inFlight) begin(action string) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == nil {
		f.active = make(map[string]bool)
	}
	if f.active[action] {
		return nil, common.ErrRequestInFlight
	}
	f.active[action] = true
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.active, action)
	}, nil
}

func (f *inFlight) busy(action string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active[action]
}

// coordinator holds what every screen coordinator shares.
type coordinator struct {
	session  SessionState
	notifier notify.Notifier
	logger   *zap.Logger
	flights  inFlight

	mu      sync.RWMutex
	lastErr error
}

func newCoordinator(session SessionState, notifier notify.Notifier, logger *zap.Logger) *coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &coordinator{session: session, notifier: notifier, logger: logger}
}

// requireSession fails with ErrNotAuthenticated when no credential is stored.
// No request is made in that case.
func (c *coordinator) requireSession() error {
	if c.session == nil || !c.session.Authenticated() {
		notify.Failure(c.notifier, common.ErrNotAuthenticated, notify.KindAuth, "")
		return common.ErrNotAuthenticated
	}
	return nil
}

// start checks the credential and claims the action's in-flight flag.
func (c *coordinator) start(action string) (func(), error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	done, err := c.flights.begin(action)
	if err != nil {
		return nil, err
	}
	return done, nil
}

// fail converts err into a notification. A session expiry also clears the session.
func (c *coordinator) fail(ctx context.Context, err error, kind notify.Kind, message string) error {
	if errors.Is(err, common.ErrSessionExpired) && c.session != nil {
		if clearErr := c.session.Clear(ctx); clearErr != nil {
			c.logger.Warn("Failed to clear expired session", zap.Error(clearErr))
		}
	}
	shown := notify.Failure(c.notifier, err, kind, message)
	if shown == notify.KindRead {
		c.setLastError(err)
	}
	c.logger.Warn(message, zap.Error(err), zap.String("kind", string(shown)))
	return err
}

func (c *coordinator) setLastError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
}

// LastError is the most recent read failure, cleared by the next successful load.
func (c *coordinator) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Busy reports whether action has a request in flight.
func (c *coordinator) Busy(action string) bool {
	return c.flights.busy(action)
}
