package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name searched for in config directories.
const FileName = "sorter.yaml"

// SourceEmbedded is reported by Load when no file was found.
const SourceEmbedded = "embedded"

// Load loads the sorter configuration and reports where it came from.
// Search order: customPath -> ~/.shapesort/configs/sorter.yaml -> ./configs/sorter.yaml -> embedded default.
// Files are decoded on top of the defaults, so a partial file only overrides what it names.
func Load(customPath string) (SorterConfig, string, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return SorterConfig{}, "", fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return SorterConfig{}, "", fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, customPath, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, userCfgPath, nil
			}
		}
	}

	// Try local configs directory
	localPath := filepath.Join("configs", FileName)
	if data, err := os.ReadFile(localPath); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, localPath, nil
		}
	}

	// Use embedded default YAML
	var cfg SorterConfig
	if err := yaml.Unmarshal(defaultSorterYAML, &cfg); err != nil {
		return DefaultSorterConfig(), SourceEmbedded, nil // Fallback to hardcoded if embed fails
	}
	return cfg, SourceEmbedded, nil
}

// Parse decodes YAML on top of DefaultSorterConfig.
func Parse(data []byte) (SorterConfig, error) {
	cfg := DefaultSorterConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SorterConfig{}, err
	}
	return cfg, nil
}

// Validate reports configuration problems. Each returned error names the
// section it concerns; the game disables the affected component rather than
// refusing to start.
func Validate(cfg SorterConfig) []error {
	var errs []error

	if cfg.World.Width <= 0 || cfg.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world: size must be positive, got %.0fx%.0f", cfg.World.Width, cfg.World.Height))
	}

	s := cfg.Settings
	if s.MinFiguresToWin <= 0 || s.MaxFiguresToWin < s.MinFiguresToWin {
		errs = append(errs, fmt.Errorf("settings: figures to win range [%d, %d] is invalid", s.MinFiguresToWin, s.MaxFiguresToWin))
	}
	if s.MinSpawnTimeout <= 0 || s.MaxSpawnTimeout < s.MinSpawnTimeout {
		errs = append(errs, fmt.Errorf("settings: spawn timeout range [%g, %g] is invalid", s.MinSpawnTimeout, s.MaxSpawnTimeout))
	}
	if s.MinSpeed <= 0 || s.MaxSpeed < s.MinSpeed {
		errs = append(errs, fmt.Errorf("settings: speed range [%g, %g] is invalid", s.MinSpeed, s.MaxSpeed))
	}
	if s.Lives <= 0 {
		errs = append(errs, fmt.Errorf("settings: lives must be positive, got %d", s.Lives))
	}

	if len(cfg.Shapes) == 0 {
		errs = append(errs, errors.New("shapes: no shapes configured"))
	}
	for i, sh := range cfg.Shapes {
		if !knownKind(sh.Kind) {
			errs = append(errs, fmt.Errorf("shapes[%d]: unknown kind %q", i, sh.Kind))
		}
		if sh.Color != "" {
			if _, ok := colorName(sh.Color); !ok {
				errs = append(errs, fmt.Errorf("shapes[%d]: unknown color %q", i, sh.Color))
			}
		}
	}

	if len(cfg.Lanes) == 0 {
		errs = append(errs, errors.New("lanes: no lanes configured"))
	}

	if len(cfg.Slots) == 0 {
		errs = append(errs, errors.New("slots: no slots configured"))
	}
	for i, sl := range cfg.Slots {
		if !knownKind(sl.Accepts) {
			errs = append(errs, fmt.Errorf("slots[%d]: unknown accepted kind %q", i, sl.Accepts))
		}
		if sl.W <= 0 || sl.H <= 0 {
			errs = append(errs, fmt.Errorf("slots[%d]: size must be positive", i))
		}
	}

	if cfg.Pool.WarmSize < 0 {
		errs = append(errs, fmt.Errorf("pool: warm_size must not be negative, got %d", cfg.Pool.WarmSize))
	}

	return errs
}

func knownKind(kind string) bool {
	switch strings.ToLower(kind) {
	case "square", "circle", "triangle", "star":
		return true
	default:
		return false
	}
}

func colorName(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "default", "red", "green", "yellow", "blue", "magenta", "cyan", "white", "orange", "gray":
		return strings.ToLower(name), true
	default:
		return "", false
	}
}

// UserDir returns ~/.shapesort, or empty if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".shapesort")
}

// UserConfigDir returns ~/.shapesort/configs, or empty if home is unavailable.
func UserConfigDir() string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs")
}

// UserConfigPath returns the user config file Load looks for.
func UserConfigPath() string {
	return userConfigPath(FileName)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, filename)
}
