package observability

import (
	"context"

	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records engine activity as Prometheus collectors.
type Metrics struct {
	Activations  prometheus.Counter
	Triggers     *prometheus.CounterVec
	TitleFlashes prometheus.Counter
	Active       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Activations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exitintent_activations_total",
			Help: "Total number of engine activations",
		}),
		Triggers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exitintent_triggers_total",
				Help: "Total number of trigger callbacks, by heuristic and viewport class",
			},
			[]string{"heuristic", "viewport"},
		),
		TitleFlashes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exitintent_title_flashes_total",
			Help: "Total number of title flashes applied",
		}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "exitintent_active_engines",
			Help: "Number of live activations",
		}),
	}

	for _, c := range []prometheus.Collector{m.Activations, m.Triggers, m.TitleFlashes, m.Active} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnActivate: func(ctx context.Context, e *domain.ActivationEvent) {
			m.Activations.Inc()
			m.Active.Inc()
		},
		OnDeactivate: func(ctx context.Context, e *domain.ActivationEvent) {
			m.Active.Dec()
		},
		OnTrigger: func(ctx context.Context, e *domain.TriggerEvent) {
			m.Triggers.WithLabelValues(string(e.Heuristic), e.Viewport.String()).Inc()
		},
		OnTitleFlash: func(ctx context.Context, e *domain.TitleEvent) {
			m.TitleFlashes.Inc()
		},
	}
}
