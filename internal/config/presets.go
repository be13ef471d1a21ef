package config

import (
	"sort"

	"github.com/san-kum/backdrop/internal/scene"
)

// Presets tweak the default tuning. Each applies on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"dense": func(c *Config) {
		c.Scene.Agents.Count = 220
		c.Scene.Links.Radius = 90
		c.Scene.Links.MaxAlpha = 0.18
		c.Scene.Repulsion.Radius = 40
	},
	"calm": func(c *Config) {
		c.Scene.Agents.Count = 60
		c.Scene.Agents.MaxSpeed = 0.08
		c.Scene.Agents.DriftStrength = 0.001
		c.Scene.Agents.Flicker = 0.02
		c.Scene.Bodies.MaxSpeed = 0.1
		c.Scene.Bodies.PulseAmplitude = 15
		c.Scene.Pointer.Strength = 0.1
		c.Scene.Pulse.Force = 1.5
	},
	"storm": func(c *Config) {
		c.Scene.Agents.Count = 140
		c.Scene.Agents.MaxSpeed = 1.5
		c.Scene.Agents.DriftStrength = 0.02
		c.Scene.Agents.Friction = 0.97
		c.Scene.Bodies.MaxSpeed = 1.2
		c.Scene.Pointer.Strength = 0.6
		c.Scene.Pulse.Speed = 14
		c.Scene.Pulse.Force = 5
	},
	"mono": func(c *Config) {
		c.Scene.Bodies.Palette = []scene.Color{
			scene.RGBA(148, 163, 184, 0.25),
			scene.RGBA(71, 85, 105, 0.3),
		}
		c.Scene.Links.Color = scene.RGBA(226, 232, 240, 1)
		c.Scene.Pulse.Color = scene.RGBA(255, 255, 255, 1)
	},
	"sparse": func(c *Config) {
		c.Scene.Bodies.Count = 3
		c.Scene.Agents.Count = 30
		c.Scene.Links.Radius = 200
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Apply applies the named preset to cfg in place.
func Apply(cfg *Config, name string) bool {
	apply, ok := Presets[name]
	if !ok {
		return false
	}
	apply(cfg)
	return true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
