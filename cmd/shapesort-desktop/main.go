// shapesort-desktop plays Shape Sorter in a desktop window.
//
// Usage:
//
//	shapesort-desktop [--rush] [--config path] [--difficulty preset]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/shapesort/internal/config"
	"github.com/vovakirdan/shapesort/internal/games/sorter"
	"github.com/vovakirdan/shapesort/internal/logging"
	"github.com/vovakirdan/shapesort/internal/platform/desktop"
	"github.com/vovakirdan/shapesort/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagSeed       int64
	flagDBPath     string
	flagScale      float64
	flagLogLevel   string
	flagRush       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shapesort-desktop",
	Short: "Shape Sorter in a desktop window",
	Long: `Play Shape Sorter with the mouse in a desktop window.

Controls:
  Mouse drag - Move a shape into a slot
  P/Esc      - Pause
  R          - Restart
  Q          - Quit

Examples:
  shapesort-desktop
  shapesort-desktop --rush --difficulty hard
  shapesort-desktop --config ./my-sorter.yaml --scale 16`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagConfig, "config", "", "Path to custom sorter config YAML")
	f.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	f.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	f.StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores database")
	f.Float64Var(&flagScale, "scale", desktop.DefaultScale, "Pixels per world unit")
	f.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.BoolVar(&flagRush, "rush", false, "Play the rush variant")
}

func run(_ *cobra.Command, _ []string) error {
	logger, closer, err := logging.New(logging.Options{
		Prefix: "shapesort-desktop",
		Level:  flagLogLevel,
	})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closer.Close()

	if flagDifficulty != "" {
		if _, ok := config.ParsePreset(flagDifficulty); !ok {
			return fmt.Errorf("unknown difficulty %q", flagDifficulty)
		}
	}

	sorter.SetLogger(logger.WithPrefix("sorter"))
	sorter.SetConfigPath(flagConfig)

	game := sorter.New()
	if flagRush {
		game = sorter.NewRush()
	}
	game.SetDifficulty(flagDifficulty)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	app := desktop.New(game, desktop.Options{
		Scale:  flagScale,
		Seed:   flagSeed,
		Store:  store,
		Logger: logger,
	})
	for _, p := range game.Problems() {
		logger.Warn("config problem", "error", p)
	}
	return desktop.Run(app, game.Title())
}
