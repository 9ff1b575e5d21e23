package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/exitintent"
	"github.com/aretw0/exitintent/pkg/adapters/sim"
	"github.com/aretw0/exitintent/pkg/domain"
)

// ErrInvalidInput is returned for client events the engine cannot dispatch.
var ErrInvalidInput = errors.New("invalid input")

// Init is the client snapshot sent when a session is mounted.
type Init struct {
	Title        string  `json:"title" mapstructure:"title"`
	Width        float64 `json:"width" mapstructure:"width"`
	Height       float64 `json:"height" mapstructure:"height"`
	ScrollHeight float64 `json:"scrollHeight" mapstructure:"scrollHeight"`
}

func (i Init) asInput() Input {
	in := Input{}
	if i.Width > 0 {
		in.Width = &i.Width
	}
	if i.Height > 0 {
		in.Height = &i.Height
	}
	if i.ScrollHeight > 0 {
		in.ScrollHeight = &i.ScrollHeight
	}
	return in
}

// Input is one client event, optionally carrying fresh viewport and document metrics.
// Metrics are applied before the event is dispatched. An empty Kind only updates metrics.
type Input struct {
	Kind         domain.EventKind `json:"kind,omitempty"`
	X            float64          `json:"x,omitempty"`
	Y            float64          `json:"y,omitempty"`
	Width        *float64         `json:"width,omitempty"`
	Height       *float64         `json:"height,omitempty"`
	ScrollTop    *float64         `json:"scrollTop,omitempty"`
	ScrollHeight *float64         `json:"scrollHeight,omitempty"`
	Hidden       *bool            `json:"hidden,omitempty"`
}

// Validate rejects unknown event kinds.
func (in Input) Validate() error {
	switch in.Kind {
	case "", domain.EventPointerMove, domain.EventScroll, domain.EventVisibilityChange:
		return nil
	}
	return fmt.Errorf("%w: unknown event kind %q", ErrInvalidInput, in.Kind)
}

// Status is the externally visible state of a session.
type Status struct {
	ID          string             `json:"id"`
	Active      bool               `json:"active"`
	Triggered   bool               `json:"triggered"`
	Triggers    int                `json:"triggers"`
	TriggeredAt *time.Time         `json:"triggeredAt,omitempty"`
	Title       string             `json:"title"`
	Hidden      bool               `json:"hidden"`
	Attached    []domain.EventKind `json:"attached"`
}

// Session is one remote client: its mirrored host and its engine.
type Session struct {
	ID          string
	host        *sim.Host
	engine      *exitintent.Engine
	handle      *exitintent.Handle
	triggers    int
	triggeredAt time.Time
	now         func() time.Time
}

func (m *Manager) newSession(id string, init Init) *Session {
	width, height := init.Width, init.Height
	scrollHeight := init.ScrollHeight
	if scrollHeight <= 0 {
		scrollHeight = height
	}

	host := sim.New(width, height,
		sim.WithTitle(init.Title),
		sim.WithScrollHeight(scrollHeight),
		sim.WithSessionStore(m.backend.Session(id)),
		sim.WithScheduler(&lockedScheduler{m: m, sessionID: id}),
	)

	opts := append([]exitintent.Option{exitintent.WithLogger(m.logger.With("session_id", id))}, m.engineOpts...)
	return &Session{
		ID:     id,
		host:   host,
		engine: exitintent.New(host.Ports(), opts...),
		now:    m.now,
	}
}

func (s *Session) onTrigger() {
	s.triggers++
	s.triggeredAt = s.now()
}

func (s *Session) apply(in Input) {
	if in.Width != nil || in.Height != nil {
		w, h := s.host.Width(), s.host.Height()
		if in.Width != nil {
			w = *in.Width
		}
		if in.Height != nil {
			h = *in.Height
		}
		s.host.Resize(w, h)
	}
	if in.ScrollHeight != nil {
		s.host.SetScrollHeight(*in.ScrollHeight)
	}

	switch in.Kind {
	case domain.EventPointerMove:
		s.host.MovePointer(in.X, in.Y)
	case domain.EventScroll:
		top := s.host.ScrollTop()
		if in.ScrollTop != nil {
			top = *in.ScrollTop
		}
		s.host.ScrollTo(top)
	case domain.EventVisibilityChange:
		if in.Hidden != nil {
			s.host.SetHidden(*in.Hidden)
		}
	}
}

func (s *Session) status() Status {
	st := Status{
		ID:        s.ID,
		Triggered: s.engine.Triggered(),
		Triggers:  s.triggers,
		Title:     s.host.Title(),
		Hidden:    s.host.Hidden(),
		Attached:  []domain.EventKind{},
	}
	if s.handle != nil {
		st.Active = s.handle.Active()
		if st.Active {
			st.Attached = s.handle.Attached()
		}
	}
	if s.triggers > 0 {
		at := s.triggeredAt
		st.TriggeredAt = &at
	}
	return st
}

// lockedScheduler runs deferred callbacks on real timers under the session lock.
type lockedScheduler struct {
	m         *Manager
	sessionID string
}

func (l *lockedScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, func() {
		_ = l.m.WithLock(context.Background(), l.sessionID, func(context.Context) error {
			fn()
			return nil
		})
	})
	return t.Stop
}
