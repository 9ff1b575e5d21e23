package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/exitintent/internal/config"
	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	path := writeFile(t, "exitintent.yaml", `
mobileWidthThreshold: 1024
triggerScroll:
  desktop: true
triggerTabChange:
  title: "Come back!"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1024.0, cfg.MobileWidthThreshold)
	assert.True(t, cfg.TriggerScroll.Desktop)
	assert.True(t, cfg.TriggerScroll.Mobile, "untouched nested field keeps its default")
	assert.Equal(t, 30.0, cfg.TriggerScroll.PercentThreshold)
	assert.Equal(t, "Come back!", cfg.TriggerTabChange.Title)
	assert.Equal(t, 200, cfg.TriggerTabChange.DelayMS)
	assert.True(t, cfg.StoreInUserSession)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "exitintent.json", `{"triggerMouseMove": false, "triggerTabChange": {"delay": 500}}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.TriggerMouseMove)
	assert.Equal(t, 500, cfg.TriggerTabChange.DelayMS)
	assert.Equal(t, "We miss you!", cfg.TriggerTabChange.Title)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeFile(t, "bad.yaml", "triggerScroll:\n  percentThreshold: 120\n")
	_, err := config.Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	path = writeFile(t, "broken.yaml", "triggerScroll: [\n")
	_, err = config.Load(path)
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	cfg, err := config.Decode(map[string]any{
		"triggerScroll": map[string]any{
			"desktop":          true,
			"percentThreshold": "45",
		},
		"triggerTabChange": map[string]any{
			"delay": 1000.0,
		},
		"storeInUserSession": false,
	})
	require.NoError(t, err)

	assert.True(t, cfg.TriggerScroll.Desktop)
	assert.True(t, cfg.TriggerScroll.Mobile)
	assert.Equal(t, 45.0, cfg.TriggerScroll.PercentThreshold)
	assert.Equal(t, 1000, cfg.TriggerTabChange.DelayMS)
	assert.False(t, cfg.StoreInUserSession)
	assert.True(t, cfg.TriggerMouseMove)
}

func TestDecode_Empty(t *testing.T) {
	cfg, err := config.Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestDecode_Rejects(t *testing.T) {
	_, err := config.Decode(map[string]any{"triggerMouse": true})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	_, err = config.Decode(map[string]any{"mobileWidthThreshold": -3})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestMarshal_RoundTripsThroughLoad(t *testing.T) {
	want := domain.DefaultConfig()
	want.TriggerTabChange.Title = "Still there?"

	out, err := config.Marshal(want)
	require.NoError(t, err)
	assert.Contains(t, string(out), "mobileWidthThreshold: 768")

	got, err := config.Load(writeFile(t, "rt.yaml", string(out)))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOverlay_KeepsBase(t *testing.T) {
	base := domain.DefaultConfig()
	base.TriggerMouseMove = false

	cfg, err := config.Overlay(base, map[string]any{"mobileWidthThreshold": 600})
	require.NoError(t, err)
	assert.False(t, cfg.TriggerMouseMove)
	assert.Equal(t, 600.0, cfg.MobileWidthThreshold)
	assert.True(t, domain.DefaultConfig().TriggerMouseMove, "defaults are not mutated")
}
