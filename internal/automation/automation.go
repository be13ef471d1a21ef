// Package automation loads scripted input scenarios and runs parameter
// sweeps over headless sessions.
package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/sim"
)

// Scenario defines a scripted input sequence
type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Frames      int             `yaml:"frames"`
	ClickEvery  int             `yaml:"click_every"`
	Events      []ScenarioEvent `yaml:"events"`
}

// ScenarioEvent is one input delivered before frame Frame. Kind is move,
// click or resize; resize uses Width and Height.
type ScenarioEvent struct {
	Frame  int     `yaml:"frame"`
	Kind   string  `yaml:"kind"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DPR    float64 `yaml:"dpr"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if scenario.Frames <= 0 {
		return nil, fmt.Errorf("scenario %q: frames must be positive", scenario.Name)
	}

	return &scenario, nil
}

// Script converts the scenario to controller input. A scenario without
// events orbits the pointer over surface.
func (sc *Scenario) Script(surface scene.Surface) (sim.Script, error) {
	if len(sc.Events) == 0 {
		return sim.OrbitScript(surface, sc.Frames, sc.ClickEvery), nil
	}

	script := make(sim.Script, 0, len(sc.Events))
	for i, e := range sc.Events {
		ev := sim.Event{Frame: e.Frame, Pos: scene.Vec2{X: e.X, Y: e.Y}}
		switch e.Kind {
		case "move":
			ev.Kind = sim.EventMove
		case "click":
			ev.Kind = sim.EventClick
		case "resize":
			ev.Kind = sim.EventResize
			ev.Surface = scene.Surface{Width: e.Width, Height: e.Height, DPR: e.DPR}
		default:
			return nil, fmt.Errorf("event %d: unknown kind %q", i, e.Kind)
		}
		script = append(script, ev)
	}
	sort.SliceStable(script, func(i, j int) bool { return script[i].Frame < script[j].Frame })
	return script, nil
}

// Session is the fixed part of a headless run.
type Session struct {
	Params  scene.Params
	Seed    int64
	Surface scene.Surface
	Frames  int
	Script  sim.Script
	Logger  *zap.Logger
}

// Play runs one session with the default metric set.
func (s Session) Play(ctx context.Context) (*sim.Result, error) {
	opts := make([]sim.Option, 0, 8)
	for _, m := range metrics.Defaults() {
		opts = append(opts, sim.WithMetric(m))
	}
	ctrl := sim.NewController(scene.New(s.Params, s.Seed), s.Logger, opts...)
	defer ctrl.Unmount()
	if !ctrl.Mount(s.Surface) {
		return nil, fmt.Errorf("cannot mount on %vx%v surface", s.Surface.Width, s.Surface.Height)
	}
	res, err := ctrl.Play(ctx, s.Frames, s.Script, nil, nil)
	if res != nil {
		res.Seed = s.Seed
	}
	return res, err
}

// ParameterSweep runs sessions across a range of one parameter's values
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Reseeds    int
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, base Session) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}
	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		s := base
		if err := SetParam(&s.Params, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}
		if err := s.Params.Validate(); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res, err := s.Play(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    res.Metrics,
			Reseeds:    res.Reseeds,
		})
	}

	return results, nil
}
