// Package sim provides a simulated host environment for the exit-intent engine.
//
// The Host plays the role of a browser window: it owns the viewport, the document and
// the event listeners, and runs deferred callbacks from a manual clock unless another
// scheduler is plugged in. A Host is not safe for concurrent use; callers serialize
// access to it the way a browser event loop does.
package sim

import (
	"sort"
	"time"

	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/aretw0/exitintent/pkg/ports"
)

type listener struct {
	fn      ports.Listener
	removed bool
}

type timer struct {
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// Host is a simulated window and document.
type Host struct {
	width, height float64
	scrollTop     float64
	scrollHeight  float64
	hidden        bool
	title         string

	listeners map[domain.EventKind][]*listener

	now    time.Duration
	seq    int
	timers []*timer

	session   ports.SessionStore
	scheduler ports.Scheduler
}

// Option configures a Host.
type Option func(*Host)

// WithTitle sets the initial document title.
func WithTitle(title string) Option {
	return func(h *Host) {
		h.title = title
	}
}

// WithScrollHeight sets the full scrollable height of the document.
func WithScrollHeight(height float64) Option {
	return func(h *Host) {
		h.scrollHeight = height
	}
}

// WithSessionStore attaches a session store to the host.
func WithSessionStore(store ports.SessionStore) Option {
	return func(h *Host) {
		h.session = store
	}
}

// WithScheduler replaces the manual clock with sched for deferred callbacks.
// Advance then only affects timers scheduled through the host itself.
func WithScheduler(sched ports.Scheduler) Option {
	return func(h *Host) {
		h.scheduler = sched
	}
}

// New creates a visible host with the given viewport size.
// The document is not scrollable unless WithScrollHeight is used.
func New(width, height float64, opts ...Option) *Host {
	h := &Host{
		width:        width,
		height:       height,
		scrollHeight: height,
		listeners:    make(map[domain.EventKind][]*listener),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Ports returns the host as the collaborators the engine consumes.
func (h *Host) Ports() ports.Host {
	var sched ports.Scheduler = h
	if h.scheduler != nil {
		sched = h.scheduler
	}
	return ports.Host{
		Viewport:  h,
		Document:  h,
		Events:    h,
		Scheduler: sched,
		Session:   h.session,
	}
}

func (h *Host) Width() float64        { return h.width }
func (h *Host) Height() float64       { return h.height }
func (h *Host) ScrollTop() float64    { return h.scrollTop }
func (h *Host) ScrollHeight() float64 { return h.scrollHeight }
func (h *Host) Hidden() bool          { return h.hidden }
func (h *Host) Title() string         { return h.title }

// SetTitle replaces the document title.
func (h *Host) SetTitle(title string) {
	h.title = title
}

// AddListener registers fn for kind.
func (h *Host) AddListener(kind domain.EventKind, fn ports.Listener) func() {
	l := &listener{fn: fn}
	h.listeners[kind] = append(h.listeners[kind], l)

	return func() {
		if l.removed {
			return
		}
		l.removed = true
		kept := h.listeners[kind][:0]
		for _, other := range h.listeners[kind] {
			if other != l {
				kept = append(kept, other)
			}
		}
		h.listeners[kind] = kept
	}
}

// ListenerCount returns the number of listeners registered for kind.
func (h *Host) ListenerCount(kind domain.EventKind) int {
	return len(h.listeners[kind])
}

// TotalListeners returns the number of registered listeners of every kind.
func (h *Host) TotalListeners() int {
	total := 0
	for _, ls := range h.listeners {
		total += len(ls)
	}
	return total
}

func (h *Host) dispatch(ev domain.Event) {
	// Snapshot so listeners may remove themselves while dispatching.
	snapshot := append([]*listener(nil), h.listeners[ev.Kind]...)
	for _, l := range snapshot {
		if l.removed {
			continue
		}
		l.fn(ev)
	}
}

// Resize changes the viewport size.
func (h *Host) Resize(width, height float64) {
	h.width = width
	h.height = height
}

// SetScrollHeight changes the full scrollable height without dispatching.
func (h *Host) SetScrollHeight(height float64) {
	h.scrollHeight = height
}

// MovePointer dispatches a pointer move at viewport coordinates (x, y).
func (h *Host) MovePointer(x, y float64) {
	h.dispatch(domain.Event{Kind: domain.EventPointerMove, X: x, Y: y})
}

// ScrollTo sets the scroll offset and dispatches a scroll event.
func (h *Host) ScrollTo(top float64) {
	h.scrollTop = top
	h.dispatch(domain.Event{Kind: domain.EventScroll})
}

// SetHidden changes the document visibility, dispatching only on an actual change.
func (h *Host) SetHidden(hidden bool) {
	if h.hidden == hidden {
		return
	}
	h.hidden = hidden
	h.dispatch(domain.Event{Kind: domain.EventVisibilityChange})
}

// AfterFunc schedules fn on the manual clock.
func (h *Host) AfterFunc(d time.Duration, fn func()) func() bool {
	h.seq++
	t := &timer{due: h.now + d, seq: h.seq, fn: fn}
	h.timers = append(h.timers, t)

	return func() bool {
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		h.prune()
		return true
	}
}

// Advance moves the clock forward by d, running every timer that falls due in order.
func (h *Host) Advance(d time.Duration) {
	target := h.now + d
	for {
		next := h.nextDue(target)
		if next == nil {
			break
		}
		h.now = next.due
		next.fired = true
		h.prune()
		next.fn()
	}
	h.now = target
}

// Elapsed returns the simulated time since the host was created.
func (h *Host) Elapsed() time.Duration {
	return h.now
}

// PendingTimers returns the number of scheduled callbacks that have not run.
func (h *Host) PendingTimers() int {
	return len(h.timers)
}

func (h *Host) nextDue(limit time.Duration) *timer {
	sort.SliceStable(h.timers, func(i, j int) bool {
		if h.timers[i].due == h.timers[j].due {
			return h.timers[i].seq < h.timers[j].seq
		}
		return h.timers[i].due < h.timers[j].due
	})
	for _, t := range h.timers {
		if !t.stopped && !t.fired && t.due <= limit {
			return t
		}
	}
	return nil
}

func (h *Host) prune() {
	kept := h.timers[:0]
	for _, t := range h.timers {
		if !t.stopped && !t.fired {
			kept = append(kept, t)
		}
	}
	h.timers = kept
}
