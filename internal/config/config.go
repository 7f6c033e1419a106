// Package config provides YAML-based game configuration loading and
// difficulty management for shapesort.
package config

// SorterConfig contains all configuration for the shape sorting game.
type SorterConfig struct {
	World      WorldConfig      `yaml:"world"`
	Settings   GameSettings     `yaml:"settings"`
	Motion     MotionConfig     `yaml:"motion"`
	Pool       PoolConfig       `yaml:"pool"`
	Shapes     []ShapeConfig    `yaml:"shapes"`
	Lanes      []LaneConfig     `yaml:"lanes"`
	Slots      []SlotConfig     `yaml:"slots"`
	Debug      DebugConfig      `yaml:"debug"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// WorldConfig defines the logical playfield in world units.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// GameSettings holds the randomized ranges drawn once per run.
// Speeds are drawn from [min_speed, max_speed] and then scaled by
// difficulty, so a spawned shape moves at up to
// max_speed * (1 + speed_multiplier) when difficulty is enabled.
type GameSettings struct {
	MinFiguresToWin int     `yaml:"min_figures_to_win"`
	MaxFiguresToWin int     `yaml:"max_figures_to_win"`
	MinSpawnTimeout float64 `yaml:"min_spawn_timeout"` // seconds
	MaxSpawnTimeout float64 `yaml:"max_spawn_timeout"` // seconds
	MinSpeed        float64 `yaml:"min_speed"`         // world units per second
	MaxSpeed        float64 `yaml:"max_speed"`         // world units per second
	Lives           int     `yaml:"lives"`
}

// MotionConfig tunes entity movement.
type MotionConfig struct {
	ReturnRate    float64 `yaml:"return_rate"`    // lerp factor per second while returning
	ArriveEpsilon float64 `yaml:"arrive_epsilon"` // lane end reached
	ReturnEpsilon float64 `yaml:"return_epsilon"` // drag anchor reached
	ShapeWidth    float64 `yaml:"shape_width"`
	ShapeHeight   float64 `yaml:"shape_height"`
	EffectTTL     float64 `yaml:"effect_ttl"` // seconds
}

// PoolConfig sizes the entity pool.
type PoolConfig struct {
	WarmSize int `yaml:"warm_size"`
}

// ShapeConfig describes one shape descriptor.
type ShapeConfig struct {
	Kind  string `yaml:"kind"`  // square, circle, triangle, star
	Name  string `yaml:"name"`  // display name; defaults to the kind
	Glyph string `yaml:"glyph"` // first rune is drawn in terminal mode
	Color string `yaml:"color"` // palette name
}

// Point is a YAML-friendly 2D position.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// LaneConfig is a travel path from start to end.
type LaneConfig struct {
	Start Point `yaml:"start"`
	End   Point `yaml:"end"`
}

// SlotConfig is a drop target.
type SlotConfig struct {
	Accepts string  `yaml:"accepts"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	W       float64 `yaml:"w"`
	H       float64 `yaml:"h"`
}

// DebugConfig holds testing switches.
type DebugConfig struct {
	SingleSpawn bool `yaml:"single_spawn"` // spawn exactly one shape per run
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string  `yaml:"type"`   // "score", "time", or "none"
	MaxAt float64 `yaml:"max_at"` // score or seconds at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // drawn speed gains this fraction at max difficulty
	SpawnReduction  float64 `yaml:"spawn_reduction"`  // fraction of spawn timeout removed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty selects normal.
func ParsePreset(name string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// Easy runs also get two extra lives; hard runs lose one (never below 1).
func ApplyPreset(cfg *SorterConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Settings.Lives += 2
	case DifficultyHard:
		if cfg.Settings.Lives > 1 {
			cfg.Settings.Lives--
		}
	}
}

// ApplyRush turns a config into the rush variant: faster shapes, shorter waits.
func ApplyRush(cfg *SorterConfig) {
	cfg.Settings.MinSpawnTimeout *= 0.5
	cfg.Settings.MaxSpawnTimeout *= 0.5
	cfg.Settings.MinSpeed *= 1.5
	cfg.Settings.MaxSpeed *= 1.5
}
