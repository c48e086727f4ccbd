package config

// Preset represents a named physics profile layered over a loaded config.
type Preset string

const (
	PresetElastic Preset = "elastic" // Lossless bounces, no drag
	PresetDamped  Preset = "damped"  // Heavy energy loss, settles quickly
	PresetDead    Preset = "dead"    // No rebound at all
	PresetWindy   Preset = "windy"   // Strong rightwards wind, balls keep wrapping
)

// Presets returns all known presets in display order.
func Presets() []Preset {
	return []Preset{PresetElastic, PresetDamped, PresetDead, PresetWindy}
}

// ParsePreset resolves a preset name. The empty string is not a preset.
func ParsePreset(name string) (Preset, bool) {
	for _, p := range Presets() {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}

// ApplyPreset modifies the config based on a physics preset.
func ApplyPreset(cfg *SimConfig, preset Preset) {
	switch preset {
	case PresetElastic:
		cfg.Physics.Hysteresis = 0
		cfg.Physics.AirResistance = 0
		cfg.Physics.RollingResistance = 0
	case PresetDamped:
		cfg.Physics.Hysteresis = 0.6
		cfg.Physics.AirResistance = 0.01
		cfg.Physics.RollingResistance = 0.1
	case PresetDead:
		cfg.Physics.Hysteresis = 1
	case PresetWindy:
		cfg.Physics.Wind = 5
		cfg.Physics.AirResistance = 0.05
		cfg.Run.HaltWhenStopped = false
	}
}
