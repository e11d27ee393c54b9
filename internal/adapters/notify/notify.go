// Package notify delivers transient user-visible messages. Components
// receive a Notifier explicitly instead of reaching for a global.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/okian/heartcheck/pkg/logger"
)

// Level is the severity of a notification.
type Level string

// Levels.
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier shows a message to the user.
type Notifier interface {
	Notify(ctx context.Context, message string, level Level)
}

// Message is one delivered notification.
type Message struct {
	Text  string `json:"message"`
	Level Level  `json:"level"`
}

// Flash collects notifications raised while serving one request so they can
// be rendered with the response.
type Flash struct {
	mu       sync.Mutex
	messages []Message
	max      int
}

// NewFlash returns a collector keeping at most max messages (the oldest are
// dropped). max <= 0 keeps everything.
func NewFlash(max int) *Flash {
	return &Flash{max: max}
}

// Notify records the message.
func (f *Flash) Notify(_ context.Context, message string, level Level) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, Message{Text: message, Level: level})
	if f.max > 0 && len(f.messages) > f.max {
		f.messages = f.messages[len(f.messages)-f.max:]
	}
}

// Messages returns the collected messages in arrival order.
func (f *Flash) Messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.messages))
	copy(out, f.messages)
	return out
}

// Log writes notifications through a logger.
type Log struct {
	logger logger.Logger
}

// NewLog returns a notifier backed by l.
func NewLog(l logger.Logger) *Log {
	return &Log{logger: l}
}

// Notify logs the message at a level matching its severity.
func (n *Log) Notify(ctx context.Context, message string, level Level) {
	f := logger.String("severity", string(level))
	switch level {
	case LevelError:
		n.logger.Error(ctx, message, f)
	case LevelWarning:
		n.logger.Warn(ctx, message, f)
	default:
		n.logger.Info(ctx, message, f)
	}
}

// Writer prints each notification as one "level: message" line.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a notifier printing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Notify writes the message line. Write errors are dropped.
func (n *Writer) Notify(_ context.Context, message string, level Level) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "%s: %s\n", level, message)
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

// Notify forwards to every non-nil notifier.
func (m Multi) Notify(ctx context.Context, message string, level Level) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, message, level)
		}
	}
}
