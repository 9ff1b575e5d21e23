package domain_test

import (
	"testing"
	"time"

	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()

	assert.Equal(t, 768.0, cfg.MobileWidthThreshold)
	assert.True(t, cfg.TriggerScroll.Mobile)
	assert.False(t, cfg.TriggerScroll.Desktop)
	assert.Equal(t, 30.0, cfg.TriggerScroll.PercentThreshold)
	assert.True(t, cfg.TriggerMouseMove)
	assert.False(t, cfg.TriggerTabChange.Mobile)
	assert.True(t, cfg.TriggerTabChange.Desktop)
	assert.Equal(t, 200*time.Millisecond, cfg.TriggerTabChange.Delay())
	assert.Equal(t, "We miss you!", cfg.TriggerTabChange.Title)
	assert.True(t, cfg.StoreInUserSession)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Config)
	}{
		{"negative threshold", func(c *domain.Config) { c.MobileWidthThreshold = -1 }},
		{"percent below zero", func(c *domain.Config) { c.TriggerScroll.PercentThreshold = -0.1 }},
		{"percent above hundred", func(c *domain.Config) { c.TriggerScroll.PercentThreshold = 101 }},
		{"negative delay", func(c *domain.Config) { c.TriggerTabChange.DelayMS = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidConfig)
		})
	}
}

func TestConfig_Enabled(t *testing.T) {
	cfg := domain.DefaultConfig()

	assert.True(t, cfg.TriggerScroll.Enabled(domain.Mobile))
	assert.False(t, cfg.TriggerScroll.Enabled(domain.Desktop))
	assert.True(t, cfg.TriggerScroll.Any())

	assert.False(t, cfg.TriggerTabChange.Enabled(domain.Mobile))
	assert.True(t, cfg.TriggerTabChange.Enabled(domain.Desktop))

	cfg.TriggerScroll.Mobile = false
	assert.False(t, cfg.TriggerScroll.Any())
}
