// Package notify carries user-facing notices raised at operation boundaries.
package notify

import (
	"errors"
	"sync"
	"time"

	"shelfsmart/internal/common"

	"go.uber.org/zap"
)

// Kind classifies a failure the way the dashboard surfaces it.
type Kind string

const (
	KindAuth       Kind = "auth"
	KindRead       Kind = "read"
	KindWrite      Kind = "write"
	KindValidation Kind = "validation"
	KindSuccess    Kind = "success"
)

// Notification is one toast.
type Notification struct {
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notifications. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(n Notification)
}

// Classify maps err to the kind it is shown as. fallback is KindRead or KindWrite
// depending on the operation that failed.
func Classify(err error, fallback Kind) Kind {
	switch {
	case common.IsAuthError(err):
		return KindAuth
	case common.IsValidationError(err):
		return KindValidation
	case errors.Is(err, common.ErrRequestInFlight):
		return KindValidation
	}
	return fallback
}

// Failure notifies n about err with message and returns the kind used.
func Failure(n Notifier, err error, fallback Kind, message string) Kind {
	kind := Classify(err, fallback)
	if kind == KindAuth {
		message = "Session expired. Please log in again."
	}
	if kind == KindValidation && message == "" {
		message = err.Error()
	}
	if n != nil {
		n.Notify(Notification{Kind: kind, Message: message, At: time.Now()})
	}
	return kind
}

// Success notifies n about a completed action.
func Success(n Notifier, message string) {
	if n != nil {
		n.Notify(Notification{Kind: KindSuccess, Message: message, At: time.Now()})
	}
}

// Logger writes notifications to a zap logger.
type Logger struct {
	logger *zap.Logger
}

func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Notify(n Notification) {
	if n.Kind == KindSuccess {
		l.logger.Info(n.Message, zap.String("kind", string(n.Kind)))
		return
	}
	l.logger.Warn(n.Message, zap.String("kind", string(n.Kind)))
}

// Recorder keeps the most recent notifications in memory.
type Recorder struct {
	mu    sync.Mutex
	limit int
	items []Notification
}

// NewRecorder keeps at most limit notifications; limit <= 0 keeps 50.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 50
	}
	return &Recorder{limit: limit}
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	if len(r.items) > r.limit {
		r.items = r.items[len(r.items)-r.limit:]
	}
}

// All returns the recorded notifications, oldest first.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}
