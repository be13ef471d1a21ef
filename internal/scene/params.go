package scene

import (
	"fmt"
	"math"
)

// BodyParams tunes the field body population.
type BodyParams struct {
	Count          int     `yaml:"count"`
	MinRadius      float64 `yaml:"min_radius"`
	RadiusSpread   float64 `yaml:"radius_spread"`
	MaxSpeed       float64 `yaml:"max_speed"`
	PulseAmplitude float64 `yaml:"pulse_amplitude"`
	MinAngular     float64 `yaml:"min_angular_speed"`
	AngularSpread  float64 `yaml:"angular_speed_spread"`
	Palette        []Color `yaml:"palette"`
}

// AgentParams tunes the point agent population and its per-agent forces.
type AgentParams struct {
	Count         int     `yaml:"count"`
	MaxSpeed      float64 `yaml:"max_speed"`
	MinSize       float64 `yaml:"min_size"`
	SizeSpread    float64 `yaml:"size_spread"`
	MinAlpha      float64 `yaml:"min_alpha"`
	AlphaSpread   float64 `yaml:"alpha_spread"`
	Tint          Color   `yaml:"tint"`
	DriftStep     float64 `yaml:"drift_step"`
	DriftStrength float64 `yaml:"drift_strength"`
	Friction      float64 `yaml:"friction"`
	Flicker       float64 `yaml:"flicker"`
}

// PointerParams tunes pointer attraction. No force at or beyond Radius.
type PointerParams struct {
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
}

// RepulsionParams tunes the pairwise anti-clumping force.
type RepulsionParams struct {
	Radius   float64 `yaml:"radius"`
	Strength float64 `yaml:"strength"`
}

// LinkParams tunes the plexus renderer.
type LinkParams struct {
	Radius   float64 `yaml:"radius"`
	MaxAlpha float64 `yaml:"max_alpha"`
	Exponent float64 `yaml:"exponent"`
	MaxWidth float64 `yaml:"max_width"`
	Color    Color   `yaml:"color"`
}

// PulseParams tunes the impulse ring. Lead and Trail bound the push band
// around the ring edge; FadeDistance is fixed, not surface-relative.
type PulseParams struct {
	Speed        float64 `yaml:"speed"`
	Lead         float64 `yaml:"lead"`
	Trail        float64 `yaml:"trail"`
	Force        float64 `yaml:"force"`
	FadeDistance float64 `yaml:"fade_distance"`
	MaxAlpha     float64 `yaml:"max_alpha"`
	Width        float64 `yaml:"width"`
	ExtentFactor float64 `yaml:"extent_factor"`
	Color        Color   `yaml:"color"`
}

type BackgroundParams struct {
	Top    Color `yaml:"top"`
	Bottom Color `yaml:"bottom"`
}

type Params struct {
	Bodies     BodyParams       `yaml:"bodies"`
	Agents     AgentParams      `yaml:"agents"`
	Pointer    PointerParams    `yaml:"pointer"`
	Repulsion  RepulsionParams  `yaml:"repulsion"`
	Links      LinkParams       `yaml:"links"`
	Pulse      PulseParams      `yaml:"pulse"`
	Background BackgroundParams `yaml:"background"`
}

func DefaultParams() Params {
	return Params{
		Bodies: BodyParams{
			Count:          5,
			MinRadius:      150,
			RadiusSpread:   300,
			MaxSpeed:       0.25,
			PulseAmplitude: 30,
			MinAngular:     0.001,
			AngularSpread:  0.002,
			Palette: []Color{
				RGBA(6, 182, 212, 0.4),  // cyan
				RGBA(59, 130, 246, 0.4), // blue
				RGBA(139, 92, 246, 0.3), // violet
				RGBA(217, 70, 239, 0.2), // fuchsia
			},
		},
		Agents: AgentParams{
			Count:         90,
			MaxSpeed:      0.15,
			MinSize:       1.5,
			SizeSpread:    2,
			MinAlpha:      0.2,
			AlphaSpread:   0.5,
			Tint:          RGBA(255, 255, 255, 1),
			DriftStep:     0.01,
			DriftStrength: 0.002,
			Friction:      0.94,
			Flicker:       0.1,
		},
		Pointer:   PointerParams{Radius: 250, Strength: 0.25},
		Repulsion: RepulsionParams{Radius: 60, Strength: 0.5},
		Links: LinkParams{
			Radius:   130,
			MaxAlpha: 0.25,
			Exponent: 1.5,
			MaxWidth: 0.8,
			Color:    RGBA(120, 220, 255, 1),
		},
		Pulse: PulseParams{
			Speed:        8,
			Lead:         60,
			Trail:        120,
			Force:        3,
			FadeDistance: 700,
			MaxAlpha:     0.3,
			Width:        2,
			ExtentFactor: 1.2,
			Color:        RGBA(100, 255, 255, 1),
		},
		Background: BackgroundParams{
			Top:    RGBA(0x02, 0x06, 0x17, 1),
			Bottom: RGBA(0x0f, 0x17, 0x2a, 1),
		},
	}
}

// Validate reports the first out-of-range value, wrapped in ErrInvalidParams.
func (p Params) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"bodies.count", p.Bodies.Count >= 0},
		{"bodies.min_radius", p.Bodies.MinRadius > 0},
		{"bodies.radius_spread", p.Bodies.RadiusSpread >= 0},
		{"bodies.pulse_amplitude", p.Bodies.PulseAmplitude >= 0 && p.Bodies.PulseAmplitude < p.Bodies.MinRadius},
		{"bodies.palette", p.Bodies.Count == 0 || len(p.Bodies.Palette) > 0},
		{"agents.count", p.Agents.Count >= 0},
		{"agents.min_size", p.Agents.MinSize > 0},
		{"agents.friction", p.Agents.Friction > 0 && p.Agents.Friction < 1},
		{"agents.flicker", p.Agents.Flicker >= 0 && p.Agents.Flicker <= 1},
		{"pointer.radius", p.Pointer.Radius > 0},
		{"repulsion.radius", p.Repulsion.Radius > 0},
		{"links.radius", p.Links.Radius > 0},
		{"links.exponent", p.Links.Exponent > 0},
		{"pulse.speed", p.Pulse.Speed > 0},
		{"pulse.fade_distance", p.Pulse.FadeDistance > 0},
		{"pulse.extent_factor", p.Pulse.ExtentFactor > 0},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s", ErrInvalidParams, c.name)
		}
	}
	if math.IsNaN(p.Agents.DriftStrength) || math.IsNaN(p.Pointer.Strength) || math.IsNaN(p.Pulse.Force) {
		return fmt.Errorf("%w: NaN force", ErrInvalidParams)
	}
	return nil
}
