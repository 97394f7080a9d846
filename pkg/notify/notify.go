// Package notify carries the transient, user-visible notifications (toasts)
// that storefront operations emit.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/hastilong/storefront/pkg/enums"
	"github.com/hastilong/storefront/pkg/logger"
)

type Notification struct {
	Kind    enums.NotificationKind `json:"kind"`
	Message string                 `json:"message"`
	At      time.Time              `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

func Success(ctx context.Context, n Notifier, message string) {
	send(ctx, n, enums.NotificationKindSuccess, message)
}

func Error(ctx context.Context, n Notifier, message string) {
	send(ctx, n, enums.NotificationKindError, message)
}

func Info(ctx context.Context, n Notifier, message string) {
	send(ctx, n, enums.NotificationKindInfo, message)
}

func send(ctx context.Context, n Notifier, kind enums.NotificationKind, message string) {
	if n == nil {
		return
	}
	n.Notify(ctx, Notification{Kind: kind, Message: message, At: time.Now().UTC()})
}

// Feed is a bounded queue of notifications waiting to be shown. When full the
// oldest entry is dropped.
type Feed struct {
	mu    sync.Mutex
	items []Notification
	limit int
}

func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 1
	}
	return &Feed{limit: limit}
}

func (f *Feed) Notify(_ context.Context, n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, n)
	if over := len(f.items) - f.limit; over > 0 {
		f.items = append([]Notification(nil), f.items[over:]...)
	}
}

// Drain returns pending notifications and empties the feed.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	if out == nil {
		return []Notification{}
	}
	return out
}

// LogNotifier records notifications in the service log.
type LogNotifier struct {
	logg *logger.Logger
}

func NewLogNotifier(logg *logger.Logger) *LogNotifier {
	return &LogNotifier{logg: logg}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) {
	if l == nil || l.logg == nil {
		return
	}
	ctx = l.logg.WithFields(ctx, map[string]any{
		"kind": n.Kind.String(),
		"text": n.Message,
	})
	l.logg.Debug(ctx, "notification")
}

// Multi fans a notification out to every non-nil notifier.
func Multi(notifiers ...Notifier) Notifier {
	out := make(multi, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

type multi []Notifier

func (m multi) Notify(ctx context.Context, n Notification) {
	for _, notifier := range m {
		notifier.Notify(ctx, n)
	}
}
