package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/shapesort/internal/config"
	"github.com/vovakirdan/shapesort/internal/core"
	"github.com/vovakirdan/shapesort/internal/games/sorter"
	"github.com/vovakirdan/shapesort/internal/platform/tui"
	"github.com/vovakirdan/shapesort/internal/registry"
	"github.com/vovakirdan/shapesort/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagWatch      bool
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game mode",
	Long: `Start playing the specified mode.

Controls:
  Mouse drag - Move a shape into a slot
  P          - Pause
  Esc/B      - Pause, then back
  R          - Restart
  Ctrl+S     - Save a screenshot
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

With --watch, edits to the config file are reported on screen and
picked up by the next restart.

Examples:
  shapesort play sorter
  shapesort play sorter --difficulty easy
  shapesort play sorter_rush --difficulty hard
  shapesort play sorter --config ./my-sorter.yaml --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom sorter config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Report changes to the config file while playing")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]
	log := loggerFor("play")

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q (available: %s)\n", gameID, strings.Join(registry.IDs(), ", "))
		os.Exit(1)
	}
	if flagDifficulty != "" {
		if _, ok := config.ParsePreset(flagDifficulty); !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q\n", flagDifficulty)
			os.Exit(1)
		}
	}

	cfg := runtimeConfig()

	sorter.SetConfigPath(flagConfig)
	sorter.SetDifficultyPreset(flagDifficulty)

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	opts := tui.RunOptions{Logger: log}
	if flagWatch {
		watcher, werr := watchConfig(flagConfig)
		if werr != nil {
			log.Warn("config watch disabled", "error", werr)
		} else {
			defer watcher.Close()
			opts.Watch = watcher.Events
		}
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	_, runErr := tui.Run(game, store, cfg, opts)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// runtimeConfig sizes the run to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// watchConfig watches the file Load would read: the custom path, or the
// user config file even if it does not exist yet.
func watchConfig(custom string) (*config.Watcher, error) {
	path := custom
	if path == "" {
		path = config.UserConfigPath()
		if path == "" {
			return nil, fmt.Errorf("no config path to watch")
		}
		if err := os.MkdirAll(config.UserConfigDir(), 0o755); err != nil {
			return nil, err
		}
	}
	return config.NewWatcher(path)
}
