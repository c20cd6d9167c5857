package event

import (
	"fmt"
	"strings"
)

// Scope is the visibility boundary of a subscription or a publication.
type Scope int

const (
	// ScopeBroad reaches every subscriber in the process. It is the zero value,
	// so an unspecified scope is broad.
	ScopeBroad Scope = iota
	// ScopeNarrow is limited to a single embedding context, such as one page instance.
	ScopeNarrow
)

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case ScopeBroad:
		return "broad"
	case ScopeNarrow:
		return "narrow"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// ParseScope parses "broad" or "narrow" (case-insensitive). Empty input is broad.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "broad", "application":
		return ScopeBroad, nil
	case "narrow", "active":
		return ScopeNarrow, nil
	default:
		return ScopeBroad, fmt.Errorf("unknown scope %q", s)
	}
}

// Audience attaches a scope to the embedding context it applies to.
// Context is only meaningful for ScopeNarrow.
type Audience struct {
	Scope   Scope  `json:"scope"`
	Context string `json:"context,omitempty"`
}

// Broad returns the process-wide audience.
func Broad() Audience {
	return Audience{Scope: ScopeBroad}
}

// Narrow returns an audience limited to the given embedding context.
func Narrow(context string) Audience {
	return Audience{Scope: ScopeNarrow, Context: context}
}

// String implements fmt.Stringer.
func (a Audience) String() string {
	if a.Scope == ScopeNarrow {
		return "narrow:" + a.Context
	}
	return a.Scope.String()
}

// Admits reports whether a subscriber registered for sub receives a message
// published for pub.
//
// Broad subscribers receive everything. Narrow subscribers receive only narrow
// publications from their own context; a broad publication carries no context
// and is not admitted.
func Admits(sub, pub Audience) bool {
	if sub.Scope != ScopeNarrow {
		return true
	}
	return pub.Scope == ScopeNarrow && pub.Context == sub.Context
}
