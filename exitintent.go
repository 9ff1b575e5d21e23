package exitintent

import (
	"context"
	"log/slog"

	"github.com/aretw0/exitintent/internal/logging"
	"github.com/aretw0/exitintent/internal/runtime"
	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/aretw0/exitintent/pkg/ports"
)

// Engine is the high-level entry point for the exitintent library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime   *runtime.Engine
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	onTrigger func()
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// New creates an engine bound to host. Missing host capabilities are not an error:
// the features that depend on them stay off.
func New(host ports.Host, opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.runtime = runtime.NewEngine(host,
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)
	return eng
}

// Use creates an engine and activates it in one call.
func Use(ctx context.Context, host ports.Host, onTrigger func(), cfg *domain.Config, opts ...Option) (*Engine, *Handle, error) {
	eng := New(host, opts...)
	h, err := eng.Activate(ctx, onTrigger, cfg)
	if err != nil {
		return nil, nil, err
	}
	return eng, h, nil
}

// Activate attaches the heuristics. A nil cfg uses domain.DefaultConfig().
// Any live activation of this engine is torn down first.
func (e *Engine) Activate(ctx context.Context, onTrigger func(), cfg *domain.Config) (*Handle, error) {
	c := domain.DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	act, err := e.runtime.Activate(ctx, c, onTrigger)
	if err != nil {
		return nil, err
	}
	e.onTrigger = onTrigger
	return &Handle{act: act}, nil
}

// Reconfigure re-activates with cfg and the callback of the previous activation.
// Returns domain.ErrNotActive if the engine was never activated.
func (e *Engine) Reconfigure(ctx context.Context, cfg domain.Config) (*Handle, error) {
	if e.onTrigger == nil {
		return nil, domain.ErrNotActive
	}
	return e.Activate(ctx, e.onTrigger, &cfg)
}

// Deactivate tears down h. A nil or stale handle is a no-op.
func (e *Engine) Deactivate(h *Handle) {
	if h != nil {
		h.Deactivate()
	}
}

// Triggered reports whether the callback already ran for this engine.
func (e *Engine) Triggered() bool {
	return e.runtime.Triggered()
}

// Handle identifies one activation.
type Handle struct {
	act *runtime.Activation
}

// Deactivate removes every listener of the activation and cancels its pending title flash.
func (h *Handle) Deactivate() {
	h.act.Deactivate()
}

// Active reports whether the activation is still attached.
func (h *Handle) Active() bool {
	return !h.act.Done()
}

// Config returns the configuration of the activation.
func (h *Handle) Config() domain.Config {
	return h.act.Config()
}

// Attached returns the event kinds the activation currently listens to.
func (h *Handle) Attached() []domain.EventKind {
	return h.act.Attached()
}
