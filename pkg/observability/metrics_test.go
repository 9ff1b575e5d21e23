package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/exitintent/internal/runtime"
	"github.com/aretw0/exitintent/pkg/adapters/sim"
	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/aretw0/exitintent/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordEngineActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	host := sim.New(1024, 768, sim.WithTitle("Home"))
	eng := runtime.NewEngine(host.Ports(),
		runtime.WithLifecycleHooks(observability.ChainHooks(m.Hooks(), observability.LoggingHooks(logger))),
	)

	act, err := eng.Activate(context.Background(), domain.DefaultConfig(), func() {})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Active))

	host.MovePointer(10, 10)
	host.SetHidden(true)
	host.Advance(200 * time.Millisecond)
	act.Deactivate()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Activations))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Active))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Triggers.WithLabelValues("pointer_corner", "desktop")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TitleFlashes))

	out := buf.String()
	assert.Contains(t, out, "msg=trigger")
	assert.Contains(t, out, "heuristic=pointer_corner")
	assert.Contains(t, out, "msg=title_flash")
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestChainHooks_SkipsNil(t *testing.T) {
	calls := 0
	hooks := observability.ChainHooks(
		domain.LifecycleHooks{},
		domain.LifecycleHooks{OnTrigger: func(context.Context, *domain.TriggerEvent) { calls++ }},
	)

	hooks.OnTrigger(context.Background(), &domain.TriggerEvent{})
	hooks.OnActivate(context.Background(), &domain.ActivationEvent{})
	assert.Equal(t, 1, calls)
}
