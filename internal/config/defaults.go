package config

import (
	_ "embed"
)

//go:embed defaults/sorter.yaml
var defaultSorterYAML []byte

// DefaultSorterConfig returns the hardcoded default configuration.
// It mirrors defaults/sorter.yaml and is used when the embedded file cannot be parsed.
func DefaultSorterConfig() SorterConfig {
	return SorterConfig{
		World: WorldConfig{Width: 80, Height: 24},
		Settings: GameSettings{
			MinFiguresToWin: 10,
			MaxFiguresToWin: 20,
			MinSpawnTimeout: 1.0,
			MaxSpawnTimeout: 3.0,
			MinSpeed:        4.0,
			MaxSpeed:        10.0,
			Lives:           3,
		},
		Motion: MotionConfig{
			ReturnRate:    8.0,
			ArriveEpsilon: 0.01,
			ReturnEpsilon: 0.1,
			ShapeWidth:    4,
			ShapeHeight:   2,
			EffectTTL:     0.4,
		},
		Pool: PoolConfig{WarmSize: 20},
		Shapes: []ShapeConfig{
			{Kind: "square", Glyph: "■", Color: "blue"},
			{Kind: "circle", Glyph: "●", Color: "green"},
			{Kind: "triangle", Glyph: "▲", Color: "yellow"},
			{Kind: "star", Glyph: "★", Color: "magenta"},
		},
		Lanes: []LaneConfig{
			{Start: Point{X: 2, Y: 5}, End: Point{X: 78, Y: 5}},
			{Start: Point{X: 2, Y: 9}, End: Point{X: 78, Y: 9}},
			{Start: Point{X: 2, Y: 13}, End: Point{X: 78, Y: 13}},
		},
		Slots: []SlotConfig{
			{Accepts: "square", X: 4, Y: 17, W: 14, H: 5},
			{Accepts: "circle", X: 23, Y: 17, W: 14, H: 5},
			{Accepts: "triangle", X: 43, Y: 17, W: 14, H: 5},
			{Accepts: "star", X: 62, Y: 17, W: 14, H: 5},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 20,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
				SpawnReduction:  0.4,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultSorterYAML
}
