// shapesort is a drag-and-drop shape sorting game for the terminal.
//
// Usage:
//
//	shapesort list              - List available game modes
//	shapesort play <game>       - Play a game mode
//	shapesort menu              - Start menu to pick a mode interactively
//	shapesort serve             - Start SSH server for remote play
//	shapesort scores <game>     - Show high scores for a mode
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.shapesort/scores.db)
//	--log-level <level>   - debug, info, warn, error (default: info)
//	--log-file <path>     - Write logs to a file instead of stderr
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/shapesort/internal/games/sorter"
	"github.com/vovakirdan/shapesort/internal/logging"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

// logger is set up before any command runs.
var (
	logger    = logging.Discard()
	logCloser io.Closer
)

func main() {
	err := rootCmd.Execute()
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shapesort",
	Short: "Shape Sorter - drag shapes into their slots in your terminal",
	Long: `Shape Sorter is a terminal game: shapes travel along lanes and you
drag each one into the slot that accepts its kind before it escapes.

Available commands:
  list     - Show all game modes
  play     - Play a mode directly
  menu     - Interactive mode picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  shapesort list
  shapesort play sorter
  shapesort play sorter_rush --difficulty hard
  shapesort menu
  shapesort serve --ssh :2222
  shapesort scores sorter`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.shapesort/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default: stderr for serve, "+defaultLogFile+" otherwise)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// defaultLogFile receives logs of interactive commands, whose terminal
// belongs to the UI.
const defaultLogFile = "~/.shapesort/shapesort.log"

// setupLogging builds the shared logger.
func setupLogging(cmd *cobra.Command, _ []string) error {
	opts := logging.Options{
		Prefix: "shapesort",
		Level:  flagLogLevel,
		File:   flagLogFile,
	}
	if opts.File == "" && cmd.Name() != serveCmd.Name() {
		opts.File = defaultLogFile
	}

	l, closer, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	logger, logCloser = l, closer
	sorter.SetLogger(l.WithPrefix("sorter"))
	return nil
}

// loggerFor tags the shared logger with a command name.
func loggerFor(name string) *log.Logger {
	return logger.With("cmd", name)
}
