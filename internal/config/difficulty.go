package config

import "math"

// DifficultyManager scales spawn pacing and shape speed as a run progresses.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on score or elapsed seconds.
func (d *DifficultyManager) Level(score int, elapsed float64) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := d.cfg.Progression.MaxAt
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = elapsed / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Speed scales a drawn speed from base to base * (1 + speed_multiplier).
func (d *DifficultyManager) Speed(base float64, score int, elapsed float64) float64 {
	level := d.Level(score, elapsed)
	return base * (1.0 + level*d.cfg.Scaling.SpeedMultiplier)
}

// SpawnTimeout shortens a drawn spawn timeout by up to spawn_reduction.
// The result never drops below a tenth of the base.
func (d *DifficultyManager) SpawnTimeout(base float64, score int, elapsed float64) float64 {
	level := d.Level(score, elapsed)
	reduction := clampF(level*d.cfg.Scaling.SpawnReduction, 0.0, 0.9)
	return base * (1.0 - reduction)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
