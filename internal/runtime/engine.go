package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/exitintent/internal/logging"
	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/aretw0/exitintent/pkg/ports"
)

// State is the mutable state owned by exactly one Engine.
// It survives re-activation; only a new Engine starts from scratch.
type State struct {
	hasTriggered  bool
	originalTitle string
	titleCaptured bool

	// stopTimer cancels the pending title flash, if any.
	stopTimer func() bool
	// timerGen invalidates callbacks of replaced or cancelled timers.
	timerGen uint64
}

// Engine owns the trigger state and at most one live Activation.
type Engine struct {
	host   ports.Host
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time

	state  State
	active *Activation
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock sets the wall clock used to timestamp lifecycle events.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine bound to a host.
func NewEngine(host ports.Host, opts ...EngineOption) *Engine {
	e := &Engine{
		host:   host,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Triggered reports whether this engine has invoked its callback.
func (e *Engine) Triggered() bool {
	return e.state.hasTriggered
}

// Active returns the live activation, or nil.
func (e *Engine) Active() *Activation {
	return e.active
}

// Deactivate tears down the live activation, if any.
func (e *Engine) Deactivate() {
	if e.active != nil {
		e.active.Deactivate()
	}
}

// Activate attaches the heuristics described by cfg and calls onTrigger the first time
// one of them fires. A live activation is torn down first, so re-activating with a new
// configuration never leaves listeners of the old one behind.
func (e *Engine) Activate(ctx context.Context, cfg domain.Config, onTrigger func()) (*Activation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if onTrigger == nil {
		return nil, fmt.Errorf("%w: onTrigger is required", domain.ErrInvalidConfig)
	}

	e.Deactivate()

	// The activation outlives the caller's context (an HTTP request, for instance)
	// and ends only on Deactivate.
	actx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	a := &Activation{
		engine:    e,
		cfg:       cfg,
		onTrigger: onTrigger,
		ctx:       actx,
		cancel:    cancel,
		caps:      probe(e.host),
		removers:  make(map[domain.EventKind]func()),
	}
	a.gate = newGate(&e.state, a.sessionStore(), e.logger)

	if a.caps.document && !e.state.titleCaptured {
		e.state.originalTitle = e.host.Document.Title()
		e.state.titleCaptured = true
	}

	e.active = a
	satisfied := a.attach()

	attached := a.Attached()
	e.logger.Debug("activated",
		"attached", attached,
		"satisfied", satisfied,
		"persist", cfg.StoreInUserSession,
	)
	if e.hooks.OnActivate != nil {
		e.hooks.OnActivate(actx, &domain.ActivationEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.LifecycleActivate},
			Attached:  attached,
			Satisfied: satisfied,
		})
	}

	return a, nil
}

func (e *Engine) cancelTitleTimer() {
	if e.state.stopTimer != nil {
		e.state.stopTimer()
		e.state.stopTimer = nil
	}
	e.state.timerGen++
}

// capabilities records which host collaborators exist, probed once per activation.
type capabilities struct {
	viewport  bool
	document  bool
	events    bool
	scheduler bool
	session   bool
}

func probe(h ports.Host) capabilities {
	return capabilities{
		viewport:  h.Viewport != nil,
		document:  h.Document != nil,
		events:    h.Events != nil,
		scheduler: h.Scheduler != nil,
		session:   h.Session != nil,
	}
}
