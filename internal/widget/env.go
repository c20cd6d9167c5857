package widget

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/telnet2/go-practice/go-boatbus/internal/boatdata"
	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/internal/lifecycle"
	"github.com/telnet2/go-practice/go-boatbus/internal/navigation"
	"github.com/telnet2/go-practice/go-boatbus/internal/notify"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// DefaultTimeout bounds data calls made from bus callbacks.
const DefaultTimeout = 5 * time.Second

// Env holds the collaborators shared by every widget on a page.
type Env struct {
	Lifecycle *lifecycle.Adapter
	Data      boatdata.Service
	Nav       navigation.Navigator
	Toast     notify.Toaster
	// Context scopes narrow publishes to one page.
	Context string
	// User authors reviews submitted from this page.
	User types.ReviewAuthor
	// Timeout applies to data calls made outside a request context.
	Timeout time.Duration
}

// NewEnv creates an Env over bus and data with a logging toaster, a recording
// navigator and a fresh page context.
func NewEnv(bus *event.Bus, data boatdata.Service) Env {
	return Env{
		Lifecycle: lifecycle.New(bus),
		Data:      data,
		Nav:       navigation.Logged(navigation.NewRecorder()),
		Toast:     notify.NewLogger(),
		Context:   "page-" + ulid.Make().String(),
		Timeout:   DefaultTimeout,
	}
}

func (e Env) validate() error {
	switch {
	case e.Lifecycle == nil:
		return errors.New("widget: env has no lifecycle adapter")
	case e.Data == nil:
		return errors.New("widget: env has no data service")
	case e.Nav == nil:
		return errors.New("widget: env has no navigator")
	case e.Toast == nil:
		return errors.New("widget: env has no toaster")
	}
	return nil
}

func (e Env) bus() *event.Bus {
	return e.Lifecycle.Bus()
}

// publish sends msg to every broad subscriber.
func (e Env) publish(msg event.Message) {
	e.bus().Publish(msg)
}

// publishLocal sends msg to this page's narrow subscribers and to broad ones.
func (e Env) publishLocal(msg event.Message) {
	e.bus().PublishFrom(event.Narrow(e.Context), msg)
}

// local is the audience for subscriptions that only care about this page.
func (e Env) local() event.Audience {
	return event.Narrow(e.Context)
}

// background returns a context for work triggered by a bus callback.
func (e Env) background() (context.Context, context.CancelFunc) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (e Env) toastError(title string, err error) {
	e.Toast.Show(notify.Toast{Title: title, Message: err.Error(), Variant: notify.Error})
}

// Mountable is a widget that holds bus subscriptions while mounted.
type Mountable interface {
	lifecycle.Widget
	Mount() error
	Unmount()
}

func newID(kind string) string {
	return kind + "-" + ulid.Make().String()
}

// typed adapts a function over one message type to a bus callback.
func typed[M event.Message](fn func(M)) event.Callback {
	return func(msg event.Message) {
		if m, ok := msg.(M); ok {
			fn(m)
		}
	}
}
