// Package config handles loading, merging, and validation of tinman
// configuration. Precedence, highest wins: environment variables (including a
// project-local .env file, where real process variables beat .env entries) >
// project-local tinman.json > ~/.tinman/config.json > preset defaults.
package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/tinmanhq/tinman/internal/errors"
	"github.com/tinmanhq/tinman/internal/fs"
)

// Config is the effective configuration for one run. Built once by Resolve
// and treated as immutable afterwards.
type Config struct {
	// Preset is the security preset the defaults came from.
	Preset string `json:"preset"`

	// Core timing.
	IntervalMinutes int  `json:"interval_minutes"`
	RunOnStart      bool `json:"run_on_start"`

	// Safety rails. For the sane and paranoid presets NotifyOnly is clamped
	// to true after the merge; no file or environment override can lower it.
	NotifyOnly bool `json:"notify_only"`

	// Checklist and log locations.
	HeartbeatMD string `json:"heartbeat_md"`
	LogFile     string `json:"log_file"`
	MaxLogLines int    `json:"max_log_lines"`

	// External agent invocation.
	AgentBin            string `json:"agent_bin"`
	AgentTimeoutSeconds int    `json:"agent_timeout_seconds"`

	// Messaging bridge forwarding.
	NotifyBridge   bool   `json:"notify_bridge"`
	BridgeEndpoint string `json:"bridge_endpoint"`
}

// Interval returns the heartbeat interval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// AgentTimeout returns the hard wall-clock limit for one agent invocation.
func (c Config) AgentTimeout() time.Duration {
	return time.Duration(c.AgentTimeoutSeconds) * time.Second
}

// Validate checks structural validity of the effective configuration.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Preset, validation.Required, validation.In(PresetSane, PresetParanoid, PresetChaos)),
		validation.Field(&c.IntervalMinutes, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxLogLines, validation.Required, validation.Min(1)),
		validation.Field(&c.AgentBin, validation.Required),
		validation.Field(&c.AgentTimeoutSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.HeartbeatMD, validation.Required),
		validation.Field(&c.LogFile, validation.Required),
		validation.Field(&c.BridgeEndpoint,
			validation.Required.When(c.NotifyBridge),
			validation.When(c.NotifyBridge, is.URL)),
	)
	if err != nil {
		return errors.Wrap(errors.EInvalidConfig, "invalid configuration", err)
	}
	return nil
}

// Save writes the configuration as indented JSON. Used by install and init so
// scheduled ticks resolve the same configuration the operator confirmed.
func (c Config) Save(fsys fs.FS, path string) error {
	if err := fs.WriteJSONAtomic(fsys, path, c, 0o644); err != nil {
		return errors.Wrap(errors.EInvalidConfig, "failed to write config to "+path, err)
	}
	return nil
}
