// Package notify carries short user-facing feedback (toasts) out of the core.
package notify

import (
	"sync"

	"github.com/ethanbaker/wikiai/pkg/logging"
	"go.uber.org/zap"
)

// Kind is the severity of a notification
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Notification is one piece of advisory feedback
type Notification struct {
	Kind  Kind
	Title string
	Text  string
}

// Notifier receives notifications. Implementations must not block for long
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to a Notifier
type Func func(Notification)

func (f Func) Notify(n Notification) {
	if f != nil {
		f(n)
	}
}

// Nop drops every notification
var Nop Notifier = Func(nil)

// LogNotifier writes notifications to a zap logger
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by logger
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logging.OrNop(logger).Named("notify")}
}

func (l *LogNotifier) Notify(n Notification) {
	fields := []zap.Field{zap.String("kind", string(n.Kind)), zap.String("title", n.Title)}
	if n.Kind == KindError {
		l.logger.Warn(n.Text, fields...)
		return
	}
	l.logger.Info(n.Text, fields...)
}

// Multi fans a notification out to every non-nil notifier
func Multi(notifiers ...Notifier) Notifier {
	var list []Notifier
	for _, n := range notifiers {
		if n != nil {
			list = append(list, n)
		}
	}
	return Func(func(n Notification) {
		for _, target := range list {
			target.Notify(n)
		}
	})
}

// Recorder keeps every notification it receives
type Recorder struct {
	mu   sync.Mutex
	seen []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
}

// All returns a copy of the recorded notifications
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.seen...)
}

// Len is the number of recorded notifications
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
