package ports

import (
	"time"

	"github.com/aretw0/exitintent/pkg/domain"
)

// Viewport exposes the live viewport dimensions.
type Viewport interface {
	Width() float64
	Height() float64
}

// Document exposes the scroll metrics, visibility flag and title of the host document.
type Document interface {
	ScrollTop() float64
	// ScrollHeight is the full scrollable height of the document.
	ScrollHeight() float64
	Hidden() bool
	Title() string
	SetTitle(title string)
}

// Listener receives host events.
type Listener func(domain.Event)

// EventTarget registers listeners for host events.
type EventTarget interface {
	// AddListener registers fn for kind and returns the function that removes it.
	// Calling the returned function more than once must be safe.
	AddListener(kind domain.EventKind, fn Listener) (remove func())
}

// Scheduler runs deferred callbacks on the host's dispatch loop.
type Scheduler interface {
	// AfterFunc schedules fn after d. The returned stop function cancels it and
	// reports whether the call was prevented.
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// Host bundles the collaborators the engine needs. Nil fields are missing capabilities.
type Host struct {
	Viewport  Viewport
	Document  Document
	Events    EventTarget
	Scheduler Scheduler
	Session   SessionStore
}
