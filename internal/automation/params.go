package automation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/backdrop/internal/scene"
)

var ErrUnknownParam = errors.New("unknown parameter")

// setters maps dotted parameter names, as they appear in the YAML config,
// to the field they tune.
var setters = map[string]func(p *scene.Params, v float64){
	"bodies.max_speed":       func(p *scene.Params, v float64) { p.Bodies.MaxSpeed = v },
	"bodies.pulse_amplitude": func(p *scene.Params, v float64) { p.Bodies.PulseAmplitude = v },
	"agents.count":           func(p *scene.Params, v float64) { p.Agents.Count = int(v) },
	"agents.max_speed":       func(p *scene.Params, v float64) { p.Agents.MaxSpeed = v },
	"agents.drift_strength":  func(p *scene.Params, v float64) { p.Agents.DriftStrength = v },
	"agents.friction":        func(p *scene.Params, v float64) { p.Agents.Friction = v },
	"pointer.radius":         func(p *scene.Params, v float64) { p.Pointer.Radius = v },
	"pointer.strength":       func(p *scene.Params, v float64) { p.Pointer.Strength = v },
	"repulsion.radius":       func(p *scene.Params, v float64) { p.Repulsion.Radius = v },
	"repulsion.strength":     func(p *scene.Params, v float64) { p.Repulsion.Strength = v },
	"links.radius":           func(p *scene.Params, v float64) { p.Links.Radius = v },
	"pulse.speed":            func(p *scene.Params, v float64) { p.Pulse.Speed = v },
	"pulse.force":            func(p *scene.Params, v float64) { p.Pulse.Force = v },
}

// SetParam sets the named parameter on p.
func SetParam(p *scene.Params, name string, v float64) error {
	set, ok := setters[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	set(p, v)
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
