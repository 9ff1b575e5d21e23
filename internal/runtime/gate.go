package runtime

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/aretw0/exitintent/pkg/ports"
)

// gate is the single authority on whether the trigger callback may run.
// store is nil when persistence is disabled or the host has no session store.
type gate struct {
	state  *State
	store  ports.SessionStore
	logger *slog.Logger
}

func newGate(state *State, store ports.SessionStore, logger *slog.Logger) *gate {
	return &gate{state: state, store: store, logger: logger}
}

func (g *gate) alreadySatisfied(ctx context.Context) bool {
	if g.state.hasTriggered {
		return true
	}
	if g.store == nil {
		return false
	}
	val, err := g.store.Get(ctx, domain.SessionMarkerKey)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			g.logger.Debug("session store read failed, using in-memory state", "err", err)
		}
		return false
	}
	return val != ""
}

// fire invokes onTrigger unless the gate is already satisfied and reports whether it did.
func (g *gate) fire(ctx context.Context, onTrigger func()) bool {
	if g.alreadySatisfied(ctx) {
		return false
	}
	g.state.hasTriggered = true

	if g.store != nil {
		defer func() {
			if err := g.store.Set(ctx, domain.SessionMarkerKey, domain.SessionMarkerValue); err != nil {
				g.logger.Debug("session store write failed, using in-memory state", "err", err)
			}
		}()
	}

	onTrigger()
	return true
}
