// Package navigation describes page references the boat widgets navigate to and
// the navigators that carry them out.
package navigation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/telnet2/go-practice/go-boatbus/internal/logging"
)

// PageType identifies the kind of page a reference points at.
type PageType string

const (
	RecordPage PageType = "standard__recordPage"
	ObjectPage PageType = "standard__objectPage"
	FormPage   PageType = "standard__form"
)

// Action is what the target page should do with its record.
type Action string

const (
	ActionView Action = "view"
	ActionNew  Action = "new"
	ActionEdit Action = "edit"
)

// Object API names used by the widgets.
const (
	BoatObject   = "Boat__c"
	ReviewObject = "BoatReview__c"
	UserObject   = "User"
)

// ErrInvalidReference is returned for references that cannot be navigated to.
var ErrInvalidReference = errors.New("invalid page reference")

// Attributes are the parameters of a page reference.
type Attributes struct {
	RecordID      string `json:"recordId,omitempty"`
	ObjectAPIName string `json:"objectApiName,omitempty"`
	ActionName    Action `json:"actionName,omitempty"`
}

// PageReference is a navigation target.
type PageReference struct {
	Type       PageType   `json:"type"`
	Attributes Attributes `json:"attributes"`
}

// RecordView references the view page of a record.
func RecordView(recordID, object string) PageReference {
	return PageReference{
		Type: RecordPage,
		Attributes: Attributes{
			RecordID:      recordID,
			ObjectAPIName: object,
			ActionName:    ActionView,
		},
	}
}

// NewRecord references the creation page for an object.
func NewRecord(object string) PageReference {
	return PageReference{
		Type: ObjectPage,
		Attributes: Attributes{
			ObjectAPIName: object,
			ActionName:    ActionNew,
		},
	}
}

// Validate checks that the reference carries what its type needs.
func (r PageReference) Validate() error {
	switch r.Type {
	case RecordPage:
		if r.Attributes.RecordID == "" {
			return fmt.Errorf("%w: record page without record id", ErrInvalidReference)
		}
	case ObjectPage, FormPage:
		if r.Attributes.ObjectAPIName == "" {
			return fmt.Errorf("%w: %s without object", ErrInvalidReference, r.Type)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidReference, r.Type)
	}
	return nil
}

// Path renders the reference as an application path.
func (r PageReference) Path() string {
	action := r.Attributes.ActionName
	if action == "" {
		action = ActionView
	}
	switch r.Type {
	case RecordPage:
		if r.Attributes.ObjectAPIName == "" {
			return fmt.Sprintf("/r/%s/%s", r.Attributes.RecordID, action)
		}
		return fmt.Sprintf("/r/%s/%s/%s", r.Attributes.ObjectAPIName, r.Attributes.RecordID, action)
	default:
		return fmt.Sprintf("/o/%s/%s", r.Attributes.ObjectAPIName, action)
	}
}

// Navigator performs navigation.
type Navigator interface {
	Navigate(ref PageReference) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ref PageReference) error

// Navigate calls f(ref).
func (f NavigatorFunc) Navigate(ref PageReference) error {
	return f(ref)
}

// Recorder is a Navigator that keeps every valid reference it was given.
type Recorder struct {
	mu      sync.Mutex
	history []PageReference
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Navigate validates and records ref.
func (r *Recorder) Navigate(ref PageReference) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, ref)
	return nil
}

// History returns a copy of every recorded reference, oldest first.
func (r *Recorder) History() []PageReference {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PageReference(nil), r.history...)
}

// Last returns the most recent reference.
func (r *Recorder) Last() (PageReference, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return PageReference{}, false
	}
	return r.history[len(r.history)-1], true
}

// logNavigator logs each navigation and forwards it.
type logNavigator struct {
	next Navigator
	log  zerolog.Logger
}

// Logged wraps next so every navigation is logged at debug level.
func Logged(next Navigator) Navigator {
	return &logNavigator{next: next, log: logging.Component("navigation")}
}

func (n *logNavigator) Navigate(ref PageReference) error {
	err := n.next.Navigate(ref)
	n.log.Debug().
		Str("type", string(ref.Type)).
		Str("path", ref.Path()).
		Err(err).
		Msg("navigate")
	return err
}
