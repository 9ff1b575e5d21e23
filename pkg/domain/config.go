package domain

import (
	"fmt"
	"time"
)

// Config holds the options of one activation.
// Field names follow the public option keys so YAML, JSON and option maps share one shape.
type Config struct {
	MobileWidthThreshold float64         `yaml:"mobileWidthThreshold" json:"mobileWidthThreshold" mapstructure:"mobileWidthThreshold"`
	TriggerScroll        ScrollConfig    `yaml:"triggerScroll" json:"triggerScroll" mapstructure:"triggerScroll"`
	TriggerMouseMove     bool            `yaml:"triggerMouseMove" json:"triggerMouseMove" mapstructure:"triggerMouseMove"`
	TriggerTabChange     TabChangeConfig `yaml:"triggerTabChange" json:"triggerTabChange" mapstructure:"triggerTabChange"`
	StoreInUserSession   bool            `yaml:"storeInUserSession" json:"storeInUserSession" mapstructure:"storeInUserSession"`
}

// ScrollConfig enables the scroll-depth heuristic per viewport class.
type ScrollConfig struct {
	Mobile           bool    `yaml:"mobile" json:"mobile" mapstructure:"mobile"`
	Desktop          bool    `yaml:"desktop" json:"desktop" mapstructure:"desktop"`
	PercentThreshold float64 `yaml:"percentThreshold" json:"percentThreshold" mapstructure:"percentThreshold"`
}

// TabChangeConfig drives the title flash shown while the tab is hidden.
type TabChangeConfig struct {
	Mobile  bool   `yaml:"mobile" json:"mobile" mapstructure:"mobile"`
	Desktop bool   `yaml:"desktop" json:"desktop" mapstructure:"desktop"`
	DelayMS int    `yaml:"delay" json:"delay" mapstructure:"delay"`
	Title   string `yaml:"title" json:"title" mapstructure:"title"`
}

// DefaultConfig returns the options used when the caller supplies none.
func DefaultConfig() Config {
	return Config{
		MobileWidthThreshold: 768,
		TriggerScroll: ScrollConfig{
			Mobile:           true,
			Desktop:          false,
			PercentThreshold: 30,
		},
		TriggerMouseMove: true,
		TriggerTabChange: TabChangeConfig{
			Mobile:  false,
			Desktop: true,
			DelayMS: 200,
			Title:   "We miss you!",
		},
		StoreInUserSession: true,
	}
}

// Validate reports options the engine cannot act on.
func (c Config) Validate() error {
	if c.MobileWidthThreshold < 0 {
		return fmt.Errorf("%w: mobileWidthThreshold must not be negative, got %v", ErrInvalidConfig, c.MobileWidthThreshold)
	}
	if p := c.TriggerScroll.PercentThreshold; p < 0 || p > 100 {
		return fmt.Errorf("%w: triggerScroll.percentThreshold must be within [0,100], got %v", ErrInvalidConfig, p)
	}
	if c.TriggerTabChange.DelayMS < 0 {
		return fmt.Errorf("%w: triggerTabChange.delay must not be negative, got %d", ErrInvalidConfig, c.TriggerTabChange.DelayMS)
	}
	return nil
}

// Delay returns the title flash delay as a duration.
func (t TabChangeConfig) Delay() time.Duration {
	return time.Duration(t.DelayMS) * time.Millisecond
}

// Enabled reports whether the tab-change flash applies to the given viewport class.
func (t TabChangeConfig) Enabled(class ViewportClass) bool {
	if class == Desktop {
		return t.Desktop
	}
	return t.Mobile
}

// Enabled reports whether scroll depth is tracked for the given viewport class.
func (s ScrollConfig) Enabled(class ViewportClass) bool {
	if class == Desktop {
		return s.Desktop
	}
	return s.Mobile
}

// Any reports whether scroll depth is tracked for at least one viewport class.
func (s ScrollConfig) Any() bool {
	return s.Mobile || s.Desktop
}
