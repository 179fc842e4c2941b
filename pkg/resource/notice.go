package resource

import (
	"fmt"
	"time"

	"github.com/marketdesk/marketdesk-terminal/pkg/api"
)

const (
	// DefaultClearAfter is how long a transient notice stays visible
	DefaultClearAfter = 3 * time.Second
	// DefaultRedirectAfter is the pause before navigating after a success
	DefaultRedirectAfter = 2 * time.Second
)

// Timing controls notice expiry and delayed redirects
type Timing struct {
	ClearAfter    time.Duration
	RedirectAfter time.Duration
}

// DefaultTiming returns the standard notice timings
func DefaultTiming() Timing {
	return Timing{ClearAfter: DefaultClearAfter, RedirectAfter: DefaultRedirectAfter}
}

// NoticeKind classifies a notice for display
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// View names a screen a notice can redirect to
type View string

const (
	ViewList   View = "list"
	ViewDetail View = "detail"
)

// Route is a navigation target
type Route struct {
	View     View
	Resource string
	ID       string
}

// Notice is the outcome of a mutation as shown to the admin. A zero
// ClearAfter means the notice stays until replaced. A non-nil Redirect is
// followed after RedirectAfter.
type Notice struct {
	Kind          NoticeKind
	Text          string
	ClearAfter    time.Duration
	Redirect      *Route
	RedirectAfter time.Duration
}

// IsError reports whether the notice describes a failure
func (n Notice) IsError() bool {
	return n.Kind == NoticeError
}

// LoadError is a failed fetch, rendered as "Failed to load <subject>: <msg>"
type LoadError struct {
	Subject string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("Failed to load %s: %s", e.Subject, api.Message(e.Err))
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
