package runtime

import (
	"context"
	"sort"

	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/aretw0/exitintent/pkg/ports"
)

// Activation is one attachment of the heuristics to the host under a fixed configuration.
type Activation struct {
	engine    *Engine
	cfg       domain.Config
	onTrigger func()

	ctx    context.Context
	cancel context.CancelFunc
	caps   capabilities

	gate     *gate
	flasher  *titleFlasher
	removers map[domain.EventKind]func()
	done     bool
}

// Config returns the configuration the activation was created with.
func (a *Activation) Config() domain.Config {
	return a.cfg
}

// Attached returns the event kinds currently listened to, sorted.
func (a *Activation) Attached() []domain.EventKind {
	kinds := make([]domain.EventKind, 0, len(a.removers))
	for k := range a.removers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Satisfied reports whether the gate would refuse to fire now.
func (a *Activation) Satisfied() bool {
	return a.gate.alreadySatisfied(a.ctx)
}

// Done reports whether the activation was torn down.
func (a *Activation) Done() bool {
	return a.done
}

// Deactivate removes every listener the activation registered and cancels the pending
// title flash. It is idempotent.
func (a *Activation) Deactivate() {
	if a.done {
		return
	}
	a.done = true

	e := a.engine
	e.cancelTitleTimer()
	for kind, remove := range a.removers {
		remove()
		delete(a.removers, kind)
	}
	if e.active == a {
		e.active = nil
	}

	e.logger.Debug("deactivated", "triggered", e.state.hasTriggered)
	if e.hooks.OnDeactivate != nil {
		e.hooks.OnDeactivate(a.ctx, &domain.ActivationEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.LifecycleDeactivate},
			Satisfied: e.state.hasTriggered,
		})
	}
	a.cancel()
}

func (a *Activation) sessionStore() ports.SessionStore {
	if !a.cfg.StoreInUserSession || !a.caps.session {
		return nil
	}
	return a.engine.host.Session
}

// attach registers the listeners and reports whether the gate was already satisfied.
func (a *Activation) attach() bool {
	e := a.engine
	satisfied := a.gate.alreadySatisfied(a.ctx)
	if !a.caps.events {
		e.logger.Debug("host has no event target, nothing attached")
		return satisfied
	}

	if a.caps.document && a.caps.scheduler {
		a.flasher = &titleFlasher{
			state:     &e.state,
			doc:       e.host.Document,
			sched:     e.host.Scheduler,
			cfg:       a.cfg.TriggerTabChange,
			ctx:       a.ctx,
			viewport:  a.viewportClass,
			onFlash:   a.emitTitle(domain.LifecycleTitleFlash),
			onRestore: a.emitTitle(domain.LifecycleTitleRestore),
			cancel:    e.cancelTitleTimer,
			guard:     a.guard,
		}
		a.listen(domain.EventVisibilityChange, func(domain.Event) { a.flasher.handleVisibility() })
	} else {
		e.logger.Debug("title flash disabled", "document", a.caps.document, "scheduler", a.caps.scheduler)
	}

	if satisfied {
		return true
	}

	if a.cfg.TriggerMouseMove {
		if a.caps.viewport {
			a.listen(domain.EventPointerMove, a.onPointerMove)
		} else {
			e.logger.Debug("pointer corner disabled", "viewport", false)
		}
	}
	if a.cfg.TriggerScroll.Any() {
		if a.caps.viewport && a.caps.document {
			a.listen(domain.EventScroll, a.onScroll)
		} else {
			e.logger.Debug("scroll depth disabled", "viewport", a.caps.viewport, "document", a.caps.document)
		}
	}
	return false
}

// listen registers fn for kind. Handlers are inert once the activation is done and
// never let a panic escape into the host's dispatch loop.
func (a *Activation) listen(kind domain.EventKind, fn ports.Listener) {
	a.removers[kind] = a.engine.host.Events.AddListener(kind, func(ev domain.Event) {
		if a.done {
			return
		}
		a.guard(string(kind), func() { fn(ev) })
	})
}

func (a *Activation) detach(kinds ...domain.EventKind) {
	for _, kind := range kinds {
		if remove, ok := a.removers[kind]; ok {
			remove()
			delete(a.removers, kind)
		}
	}
}

func (a *Activation) guard(handler string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.engine.logger.Error("recovered panic in event handler", "handler", handler, "panic", r)
		}
	}()
	fn()
}

func (a *Activation) width() float64 {
	if !a.caps.viewport {
		return 0
	}
	return a.engine.host.Viewport.Width()
}

func (a *Activation) viewportClass() domain.ViewportClass {
	return domain.Classify(a.width(), a.cfg.MobileWidthThreshold)
}

// fire passes a heuristic through the gate. Once the gate is satisfied the detectors
// have nothing left to do, so they are detached.
func (a *Activation) fire(h domain.Heuristic, class domain.ViewportClass) {
	e := a.engine
	fired := a.gate.fire(a.ctx, a.onTrigger)
	if !fired {
		return
	}
	a.detach(domain.EventPointerMove, domain.EventScroll)

	e.logger.Info("exit intent triggered", "heuristic", h, "viewport", class.String())
	if e.hooks.OnTrigger != nil {
		e.hooks.OnTrigger(a.ctx, &domain.TriggerEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.LifecycleTrigger},
			Heuristic: h,
			Viewport:  class,
		})
	}
}

func (a *Activation) emitTitle(t domain.LifecycleType) func(string) {
	e := a.engine
	return func(title string) {
		e.logger.Debug("title changed", "type", t, "title", title)
		var hook func(context.Context, *domain.TitleEvent)
		switch t {
		case domain.LifecycleTitleFlash:
			hook = e.hooks.OnTitleFlash
		case domain.LifecycleTitleRestore:
			hook = e.hooks.OnTitleRestore
		}
		if hook != nil {
			hook(a.ctx, &domain.TitleEvent{
				EventBase: domain.EventBase{Timestamp: e.now(), Type: t},
				Title:     title,
			})
		}
	}
}
