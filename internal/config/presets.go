package config

// Preset names. A preset is a named bundle of default interval and
// safety-mode values; everything else can still be overridden per field.
const (
	PresetSane     = "sane"
	PresetParanoid = "paranoid"
	PresetChaos    = "chaos"
)

// PresetNames lists the valid presets in display order.
var PresetNames = []string{PresetSane, PresetParanoid, PresetChaos}

// ValidPreset reports whether name is a known preset.
func ValidPreset(name string) bool {
	switch name {
	case PresetSane, PresetParanoid, PresetChaos:
		return true
	}
	return false
}

// Defaults returns the built-in defaults for a preset. The preset rows differ
// in interval, notify mode, and log ceiling; everything else is shared.
func Defaults(preset string) Config {
	cfg := Config{
		Preset:              preset,
		RunOnStart:          true,
		HeartbeatMD:         "HEARTBEAT.md",
		AgentBin:            "claude",
		AgentTimeoutSeconds: 120,
	}
	switch preset {
	case PresetParanoid:
		cfg.IntervalMinutes = 15
		cfg.NotifyOnly = true
		cfg.MaxLogLines = 5000
	case PresetChaos:
		// chaos mode: the agent may act. You've been warned.
		cfg.IntervalMinutes = 5
		cfg.NotifyOnly = false
		cfg.MaxLogLines = 10000
	default:
		cfg.IntervalMinutes = 30
		cfg.NotifyOnly = true
		cfg.MaxLogLines = 1000
	}
	return cfg
}
