package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/shapesort/internal/games/sorter"
	"github.com/vovakirdan/shapesort/internal/platform/tui"
	"github.com/vovakirdan/shapesort/internal/registry"
	"github.com/vovakirdan/shapesort/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start shapesort in interactive menu mode.

Use arrow keys or j/k to pick a mode, left/right to pick a difficulty
and Enter to play. After a run ends, Esc returns you to the menu.

Controls:
  Up/Down/j/k     - Navigate menu
  Left/Right/h/l  - Change difficulty
  Enter/Space     - Play
  Tab             - Scoreboard
  Q               - Quit

Examples:
  shapesort menu
  shapesort menu --fps 30
  shapesort menu --db ./scores.db`,
	Run: runMenu,
}

var (
	flagMenuConfig     string
	flagMenuDifficulty string
)

func init() {
	menuCmd.Flags().StringVar(&flagMenuConfig, "config", "", "Path to custom sorter config YAML")
	menuCmd.Flags().StringVar(&flagMenuDifficulty, "difficulty", "normal", "Initially selected difficulty")
}

func runMenu(_ *cobra.Command, _ []string) {
	log := loggerFor("menu")

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := runtimeConfig()
	sorter.SetConfigPath(flagMenuConfig)
	difficulty := flagMenuDifficulty

	for {
		menuResult, err := tui.RunMenu(store, cfg, difficulty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		// Keep size changes and the chosen difficulty for the next round
		cfg = menuResult.Config
		difficulty = string(menuResult.Difficulty)

		if menuResult.Quit {
			return
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}
		if d, ok := game.(tui.Difficulty); ok {
			d.SetDifficulty(difficulty)
		}

		// Fresh seed for each run unless one was pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		backToMenu, err := tui.Run(game, store, cfg, tui.RunOptions{Logger: log})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		if !backToMenu {
			return
		}
	}
}
