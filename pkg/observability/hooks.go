package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/exitintent/pkg/domain"
)

// LoggingHooks logs every lifecycle event at Info level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnActivate: func(ctx context.Context, e *domain.ActivationEvent) {
			logger.InfoContext(ctx, "activate", "attached", e.Attached, "satisfied", e.Satisfied)
		},
		OnDeactivate: func(ctx context.Context, e *domain.ActivationEvent) {
			logger.InfoContext(ctx, "deactivate", "triggered", e.Satisfied)
		},
		OnTrigger: func(ctx context.Context, e *domain.TriggerEvent) {
			logger.InfoContext(ctx, "trigger", "heuristic", e.Heuristic, "viewport", e.Viewport.String())
		},
		OnTitleFlash: func(ctx context.Context, e *domain.TitleEvent) {
			logger.InfoContext(ctx, "title_flash", "title", e.Title)
		},
		OnTitleRestore: func(ctx context.Context, e *domain.TitleEvent) {
			logger.InfoContext(ctx, "title_restore", "title", e.Title)
		},
	}
}

// ChainHooks calls each hook set in order.
func ChainHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnActivate: func(ctx context.Context, e *domain.ActivationEvent) {
			for _, s := range sets {
				if s.OnActivate != nil {
					s.OnActivate(ctx, e)
				}
			}
		},
		OnDeactivate: func(ctx context.Context, e *domain.ActivationEvent) {
			for _, s := range sets {
				if s.OnDeactivate != nil {
					s.OnDeactivate(ctx, e)
				}
			}
		},
		OnTrigger: func(ctx context.Context, e *domain.TriggerEvent) {
			for _, s := range sets {
				if s.OnTrigger != nil {
					s.OnTrigger(ctx, e)
				}
			}
		},
		OnTitleFlash: func(ctx context.Context, e *domain.TitleEvent) {
			for _, s := range sets {
				if s.OnTitleFlash != nil {
					s.OnTitleFlash(ctx, e)
				}
			}
		},
		OnTitleRestore: func(ctx context.Context, e *domain.TitleEvent) {
			for _, s := range sets {
				if s.OnTitleRestore != nil {
					s.OnTitleRestore(ctx, e)
				}
			}
		},
	}
}
