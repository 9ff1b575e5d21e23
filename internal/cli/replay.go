package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aretw0/exitintent"
	"github.com/aretw0/exitintent/internal/config"
	"github.com/aretw0/exitintent/internal/logging"
	"github.com/aretw0/exitintent/internal/presentation/tui"
	"github.com/aretw0/exitintent/pkg/adapters/memory"
	"github.com/aretw0/exitintent/pkg/adapters/redis"
	"github.com/aretw0/exitintent/pkg/adapters/sim"
	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/aretw0/exitintent/pkg/ports"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario is returned for malformed scenario files.
var ErrInvalidScenario = errors.New("invalid scenario")

// Size is a viewport size.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Point is a pointer position in viewport coordinates.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Step is one scripted action. Exactly one field must be set.
type Step struct {
	Resize  *Size    `yaml:"resize,omitempty"`
	Pointer *Point   `yaml:"pointer,omitempty"`
	Scroll  *float64 `yaml:"scroll,omitempty"`
	Hide    bool     `yaml:"hide,omitempty"`
	Show    bool     `yaml:"show,omitempty"`
	Wait    string   `yaml:"wait,omitempty"`
	Remount bool     `yaml:"remount,omitempty"`
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{s.Resize != nil, s.Pointer != nil, s.Scroll != nil, s.Hide, s.Show, s.Wait != "", s.Remount} {
		if set {
			n++
		}
	}
	return n
}

// Scenario scripts a page visit against the simulated host.
type Scenario struct {
	Viewport     Size           `yaml:"viewport"`
	Title        string         `yaml:"title"`
	ScrollHeight float64        `yaml:"scrollHeight"`
	Options      map[string]any `yaml:"options"`
	Steps        []Step         `yaml:"steps"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a YAML scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if sc.Viewport.Width <= 0 || sc.Viewport.Height <= 0 {
		return nil, fmt.Errorf("%w: viewport width and height must be positive", ErrInvalidScenario)
	}
	for i, step := range sc.Steps {
		if n := step.actions(); n != 1 {
			return nil, fmt.Errorf("%w: step %d has %d actions, want 1", ErrInvalidScenario, i+1, n)
		}
		if step.Wait != "" {
			if d, err := time.ParseDuration(step.Wait); err != nil || d < 0 {
				return nil, fmt.Errorf("%w: step %d: bad wait %q", ErrInvalidScenario, i+1, step.Wait)
			}
		}
	}
	return &sc, nil
}

// ReplayOptions configures a replay run.
type ReplayOptions struct {
	// Config is the base configuration the scenario options are overlaid on.
	Config domain.Config
	// Store backs the session marker. A fresh memory store is used when nil.
	Store  ports.SessionStore
	Logger *slog.Logger
}

// ReplayResult is the transcript of a replay run.
type ReplayResult struct {
	Entries  []tui.Entry
	Triggers int
	Title    string
}

// Replay runs the scenario on a simulated host and records every lifecycle event.
func Replay(ctx context.Context, sc *Scenario, opts ReplayOptions) (ReplayResult, error) {
	var res ReplayResult

	cfg, err := config.Overlay(opts.Config, sc.Options)
	if err != nil {
		return res, err
	}
	store := opts.Store
	if store == nil {
		store = memory.NewStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	hostOpts := []sim.Option{sim.WithTitle(sc.Title), sim.WithSessionStore(store)}
	if sc.ScrollHeight > 0 {
		hostOpts = append(hostOpts, sim.WithScrollHeight(sc.ScrollHeight))
	}
	host := sim.New(sc.Viewport.Width, sc.Viewport.Height, hostOpts...)

	step := 0
	record := func(event, detail string) {
		res.Entries = append(res.Entries, tui.Entry{Step: step, Elapsed: host.Elapsed(), Event: event, Detail: detail})
	}
	hooks := domain.LifecycleHooks{
		OnActivate: func(_ context.Context, e *domain.ActivationEvent) {
			detail := joinKinds(e.Attached)
			if e.Satisfied {
				detail += " (already triggered)"
			}
			record("activate", detail)
		},
		OnDeactivate: func(_ context.Context, _ *domain.ActivationEvent) {
			record("deactivate", "")
		},
		OnTrigger: func(_ context.Context, e *domain.TriggerEvent) {
			record("trigger", fmt.Sprintf("%s on %s", e.Heuristic, e.Viewport))
		},
		OnTitleFlash: func(_ context.Context, e *domain.TitleEvent) {
			record("title_flash", e.Title)
		},
		OnTitleRestore: func(_ context.Context, e *domain.TitleEvent) {
			record("title_restore", e.Title)
		},
	}
	onTrigger := func() {
		res.Triggers++
		record("callback", "")
	}

	mount := func() (*exitintent.Engine, *exitintent.Handle, error) {
		eng := exitintent.New(host.Ports(), exitintent.WithLogger(logger), exitintent.WithLifecycleHooks(hooks))
		h, err := eng.Activate(ctx, onTrigger, &cfg)
		return eng, h, err
	}

	eng, h, err := mount()
	if err != nil {
		return res, err
	}

	for i, s := range sc.Steps {
		if err := ctx.Err(); err != nil {
			eng.Deactivate(h)
			return res, err
		}
		step = i + 1
		switch {
		case s.Resize != nil:
			host.Resize(s.Resize.Width, s.Resize.Height)
		case s.Pointer != nil:
			host.MovePointer(s.Pointer.X, s.Pointer.Y)
		case s.Scroll != nil:
			host.ScrollTo(*s.Scroll)
		case s.Hide:
			host.SetHidden(true)
		case s.Show:
			host.SetHidden(false)
		case s.Wait != "":
			d, _ := time.ParseDuration(s.Wait)
			host.Advance(d)
		case s.Remount:
			eng.Deactivate(h)
			if eng, h, err = mount(); err != nil {
				return res, err
			}
		}
	}

	eng.Deactivate(h)
	res.Title = host.Title()
	return res, nil
}

func joinKinds(kinds []domain.EventKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}

// ReplayFlags are the command line inputs of the replay command.
type ReplayFlags struct {
	ConfigPath string
	RedisAddr  string
	SessionID  string
	JSON       bool
	LogLevel   string
}

// RunReplay loads a scenario, replays it and prints the transcript to out.
// Output is NDJSON when requested or when out is not a terminal.
func RunReplay(ctx context.Context, path string, flags ReplayFlags, out io.Writer) error {
	logger, err := createLogger(flags.LogLevel)
	if err != nil {
		return err
	}
	sc, err := LoadScenario(path)
	if err != nil {
		return err
	}
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return err
	}

	opts := ReplayOptions{Config: cfg, Logger: logger}
	if flags.RedisAddr != "" {
		rs := redis.New(flags.RedisAddr, "", 0)
		defer rs.Close()
		if err := rs.Ping(ctx); err != nil {
			return fmt.Errorf("redis unavailable: %w", err)
		}
		id := flags.SessionID
		if id == "" {
			id = "replay"
		}
		opts.Store = rs.Session(id)
	}

	res, err := Replay(ctx, sc, opts)
	if err != nil {
		return err
	}

	p := tui.NewPrinter(out, flags.JSON || !tui.IsTerminal(out))
	for _, e := range res.Entries {
		if err := p.Print(e); err != nil {
			return err
		}
	}
	return p.Summary(res.Triggers, res.Title)
}
