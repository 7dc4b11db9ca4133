package config

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tinmanhq/tinman/internal/errors"
)

// overlay is one configuration layer. Nil fields mean "not set in this layer".
type overlay struct {
	Preset              *string
	IntervalMinutes     *int
	RunOnStart          *bool
	NotifyOnly          *bool
	HeartbeatMD         *string
	LogFile             *string
	MaxLogLines         *int
	AgentBin            *string
	AgentTimeoutSeconds *int
	NotifyBridge        *bool
	BridgeEndpoint      *string
}

// apply overlays the set fields onto cfg.
func (o overlay) apply(cfg *Config) {
	if o.Preset != nil {
		cfg.Preset = *o.Preset
	}
	if o.IntervalMinutes != nil {
		cfg.IntervalMinutes = *o.IntervalMinutes
	}
	if o.RunOnStart != nil {
		cfg.RunOnStart = *o.RunOnStart
	}
	if o.NotifyOnly != nil {
		cfg.NotifyOnly = *o.NotifyOnly
	}
	if o.HeartbeatMD != nil {
		cfg.HeartbeatMD = *o.HeartbeatMD
	}
	if o.LogFile != nil {
		cfg.LogFile = *o.LogFile
	}
	if o.MaxLogLines != nil {
		cfg.MaxLogLines = *o.MaxLogLines
	}
	if o.AgentBin != nil {
		cfg.AgentBin = *o.AgentBin
	}
	if o.AgentTimeoutSeconds != nil {
		cfg.AgentTimeoutSeconds = *o.AgentTimeoutSeconds
	}
	if o.NotifyBridge != nil {
		cfg.NotifyBridge = *o.NotifyBridge
	}
	if o.BridgeEndpoint != nil {
		cfg.BridgeEndpoint = *o.BridgeEndpoint
	}
}

// parseFileOverlay parses one JSON config file into an overlay.
// Unknown keys are ignored; a known key with the wrong type is an
// E_INVALID_CONFIG for the layer it appears in, regardless of whether a
// higher-precedence layer would override it.
func parseFileOverlay(source string, data []byte) (overlay, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return overlay{}, errors.New(errors.EInvalidConfig, source+": invalid json: "+err.Error())
	}

	var o overlay
	var err error
	if o.Preset, err = stringField(source, raw, "preset"); err != nil {
		return overlay{}, err
	}
	if o.IntervalMinutes, err = intField(source, raw, "interval_minutes"); err != nil {
		return overlay{}, err
	}
	if o.RunOnStart, err = boolField(source, raw, "run_on_start"); err != nil {
		return overlay{}, err
	}
	if o.NotifyOnly, err = boolField(source, raw, "notify_only"); err != nil {
		return overlay{}, err
	}
	if o.HeartbeatMD, err = stringField(source, raw, "heartbeat_md"); err != nil {
		return overlay{}, err
	}
	if o.LogFile, err = stringField(source, raw, "log_file"); err != nil {
		return overlay{}, err
	}
	if o.MaxLogLines, err = intField(source, raw, "max_log_lines"); err != nil {
		return overlay{}, err
	}
	if o.AgentBin, err = stringField(source, raw, "agent_bin"); err != nil {
		return overlay{}, err
	}
	if o.AgentTimeoutSeconds, err = intField(source, raw, "agent_timeout_seconds"); err != nil {
		return overlay{}, err
	}
	if o.NotifyBridge, err = boolField(source, raw, "notify_bridge"); err != nil {
		return overlay{}, err
	}
	if o.BridgeEndpoint, err = stringField(source, raw, "bridge_endpoint"); err != nil {
		return overlay{}, err
	}
	return o, nil
}

func stringField(source string, raw map[string]json.RawMessage, key string) (*string, error) {
	rawVal, ok := raw[key]
	if !ok {
		return nil, nil
	}
	var v string
	if err := json.Unmarshal(rawVal, &v); err != nil {
		return nil, errors.New(errors.EInvalidConfig, source+": "+key+" must be a string")
	}
	return &v, nil
}

func intField(source string, raw map[string]json.RawMessage, key string) (*int, error) {
	rawVal, ok := raw[key]
	if !ok {
		return nil, nil
	}
	var v int
	if err := json.Unmarshal(rawVal, &v); err != nil {
		return nil, errors.New(errors.EInvalidConfig, source+": "+key+" must be an integer")
	}
	return &v, nil
}

func boolField(source string, raw map[string]json.RawMessage, key string) (*bool, error) {
	rawVal, ok := raw[key]
	if !ok {
		return nil, nil
	}
	var v bool
	if err := json.Unmarshal(rawVal, &v); err != nil {
		return nil, errors.New(errors.EInvalidConfig, source+": "+key+" must be a boolean")
	}
	return &v, nil
}

// Environment variable names, one per config key.
const (
	EnvPreset              = "TINMAN_PRESET"
	EnvIntervalMinutes     = "TINMAN_INTERVAL_MINUTES"
	EnvRunOnStart          = "TINMAN_RUN_ON_START"
	EnvNotifyOnly          = "TINMAN_NOTIFY_ONLY"
	EnvHeartbeatMD         = "TINMAN_HEARTBEAT_MD"
	EnvLogFile             = "TINMAN_LOG_FILE"
	EnvMaxLogLines         = "TINMAN_MAX_LOG_LINES"
	EnvAgentBin            = "TINMAN_AGENT_BIN"
	EnvAgentTimeoutSeconds = "TINMAN_AGENT_TIMEOUT_SECONDS"
	EnvNotifyBridge        = "TINMAN_NOTIFY_BRIDGE"
	EnvBridgeEndpoint      = "TINMAN_BRIDGE_ENDPOINT"
)

// parseEnvOverlay builds the environment layer from an already-merged
// variable map (.env entries overlaid by real process variables).
func parseEnvOverlay(env map[string]string) (overlay, error) {
	var o overlay
	if v, ok := env[EnvPreset]; ok {
		o.Preset = &v
	}
	for _, f := range []struct {
		key  string
		dest **int
	}{
		{EnvIntervalMinutes, &o.IntervalMinutes},
		{EnvMaxLogLines, &o.MaxLogLines},
		{EnvAgentTimeoutSeconds, &o.AgentTimeoutSeconds},
	} {
		if v, ok := env[f.key]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return overlay{}, errors.New(errors.EInvalidConfig, f.key+" must be an integer, got "+strconv.Quote(v))
			}
			*f.dest = &n
		}
	}
	for _, f := range []struct {
		key  string
		dest **bool
	}{
		{EnvRunOnStart, &o.RunOnStart},
		{EnvNotifyOnly, &o.NotifyOnly},
		{EnvNotifyBridge, &o.NotifyBridge},
	} {
		if v, ok := env[f.key]; ok {
			b, err := parseEnvBool(v)
			if err != nil {
				return overlay{}, errors.New(errors.EInvalidConfig, f.key+" must be a boolean, got "+strconv.Quote(v))
			}
			*f.dest = &b
		}
	}
	if v, ok := env[EnvHeartbeatMD]; ok {
		o.HeartbeatMD = &v
	}
	if v, ok := env[EnvLogFile]; ok {
		o.LogFile = &v
	}
	if v, ok := env[EnvAgentBin]; ok {
		o.AgentBin = &v
	}
	if v, ok := env[EnvBridgeEndpoint]; ok {
		o.BridgeEndpoint = &v
	}
	return o, nil
}

func parseEnvBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}
	return false, strconv.ErrSyntax
}
