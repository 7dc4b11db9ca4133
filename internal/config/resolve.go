package config

import (
	stderrors "errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/tinmanhq/tinman/internal/errors"
	"github.com/tinmanhq/tinman/internal/fs"
)

// File names for the configuration layers.
const (
	ProjectConfigName = "tinman.json"
	DotenvName        = ".env"
	HomeConfigDirName = ".tinman"
	HomeConfigName    = "config.json"
)

// HomeConfigPath returns the path to the user-scoped config file.
func HomeConfigPath(home string) string {
	return filepath.Join(home, HomeConfigDirName, HomeConfigName)
}

// ProjectConfigPath returns the path to the project-local config file.
func ProjectConfigPath(cwd string) string {
	return filepath.Join(cwd, ProjectConfigName)
}

// ResolveOpts holds the inputs to one configuration resolution.
type ResolveOpts struct {
	// PresetFlag, if non-empty, pins the preset before the merge runs so a
	// stale config file in a lower layer cannot downgrade it.
	PresetFlag string
	Cwd        string
	Home       string
	// Env is the process environment as a map. Use EnvFromOS for production.
	Env map[string]string
	FS  fs.FS
}

// EnvFromOS converts os.Environ into a map.
func EnvFromOS() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}

// Resolve builds the effective configuration for one run.
//
// Merge order: preset defaults, then the home file, then the project file,
// then environment variables, field by field. An invalid value is rejected on
// the layer it appears in, before higher-precedence layers are consulted.
// After the merge the sane and paranoid presets clamp notify_only to true.
func Resolve(opts ResolveOpts) (Config, error) {
	homeOverlay, err := loadFileOverlay(opts.FS, HomeConfigPath(opts.Home))
	if err != nil {
		return Config{}, err
	}
	projectOverlay, err := loadFileOverlay(opts.FS, ProjectConfigPath(opts.Cwd))
	if err != nil {
		return Config{}, err
	}
	envOverlay, err := loadEnvOverlay(opts)
	if err != nil {
		return Config{}, err
	}

	preset := choosePreset(opts.PresetFlag, envOverlay, projectOverlay, homeOverlay)
	if !ValidPreset(preset) {
		return Config{}, errors.New(errors.EInvalidConfig,
			"unknown preset "+strconv.Quote(preset)+" (valid: "+strings.Join(PresetNames, ", ")+")")
	}

	cfg := Defaults(preset)
	cfg.LogFile = filepath.Join(opts.Home, HomeConfigDirName, "heartbeat.log")

	homeOverlay.apply(&cfg)
	projectOverlay.apply(&cfg)
	envOverlay.apply(&cfg)
	cfg.Preset = preset

	// Mode invariant: sane and paranoid are notify-only no matter what any
	// user-editable layer said.
	if cfg.Preset == PresetSane || cfg.Preset == PresetParanoid {
		cfg.NotifyOnly = true
	}

	cfg.HeartbeatMD = expandPath(cfg.HeartbeatMD, opts.Home, opts.Cwd)
	cfg.LogFile = expandPath(cfg.LogFile, opts.Home, opts.Cwd)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFileOverlay(fsys fs.FS, path string) (overlay, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, iofs.ErrNotExist) || os.IsNotExist(err) {
			return overlay{}, nil
		}
		return overlay{}, errors.Wrap(errors.EInvalidConfig, "failed to read "+path, err)
	}
	return parseFileOverlay(path, data)
}

// loadEnvOverlay merges a project-local .env file (if present) under the real
// process environment and parses the TINMAN_* variables out of the result.
func loadEnvOverlay(opts ResolveOpts) (overlay, error) {
	merged := make(map[string]string)

	dotenvPath := filepath.Join(opts.Cwd, DotenvName)
	if _, err := opts.FS.Stat(dotenvPath); err == nil {
		vars, err := godotenv.Read(dotenvPath)
		if err != nil {
			return overlay{}, errors.Wrap(errors.EInvalidConfig, "failed to parse "+dotenvPath, err)
		}
		for k, v := range vars {
			merged[k] = v
		}
	}
	for k, v := range opts.Env {
		merged[k] = v
	}
	return parseEnvOverlay(merged)
}

func choosePreset(flag string, layers ...overlay) string {
	if flag != "" {
		return flag
	}
	// layers are passed highest precedence first
	for _, l := range layers {
		if l.Preset != nil {
			return *l.Preset
		}
	}
	return PresetSane
}

// expandPath expands a leading ~ against home and resolves relative paths
// against cwd.
func expandPath(p, home, cwd string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	if !filepath.IsAbs(p) {
		return filepath.Join(cwd, p)
	}
	return p
}
