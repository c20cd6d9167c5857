// Package notify delivers user-facing toast notifications raised by the widgets.
package notify

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/telnet2/go-practice/go-boatbus/internal/logging"
)

// Variant is the toast style.
type Variant string

const (
	Success Variant = "success"
	Error   Variant = "error"
	Warning Variant = "warning"
	Info    Variant = "info"
)

// Toast is a short notification.
type Toast struct {
	Title   string  `json:"title"`
	Message string  `json:"message,omitempty"`
	Variant Variant `json:"variant"`
}

// Toaster shows toasts.
type Toaster interface {
	Show(t Toast)
}

// ToasterFunc adapts a function to Toaster.
type ToasterFunc func(t Toast)

// Show calls f(t).
func (f ToasterFunc) Show(t Toast) {
	f(t)
}

// Recorder keeps the most recent toasts in memory.
type Recorder struct {
	mu     sync.Mutex
	limit  int
	toasts []Toast
}

// NewRecorder creates a Recorder holding at most limit toasts. A limit <= 0
// keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Show records t, dropping the oldest toast when full.
func (r *Recorder) Show(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
	if r.limit > 0 && len(r.toasts) > r.limit {
		r.toasts = r.toasts[len(r.toasts)-r.limit:]
	}
}

// Toasts returns the recorded toasts, oldest first.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Last returns the most recent toast.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

// Logger writes toasts to the log; errors at warn level, everything else at info.
type Logger struct {
	log zerolog.Logger
}

// NewLogger creates a logging toaster.
func NewLogger() *Logger {
	return &Logger{log: logging.Component("notify")}
}

// Show logs t.
func (l *Logger) Show(t Toast) {
	ev := l.log.Info()
	if t.Variant == Error {
		ev = l.log.Warn()
	}
	ev.Str("variant", string(t.Variant)).Str("message", t.Message).Msg(t.Title)
}

// Multi fans a toast out to several toasters.
func Multi(toasters ...Toaster) Toaster {
	return ToasterFunc(func(t Toast) {
		for _, to := range toasters {
			to.Show(t)
		}
	})
}
