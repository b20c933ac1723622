// whack is a terminal reaction game: bugs pop out of a grid of holes and you
// have a limited time to whack as many as you can.
//
// Usage:
//
//	whack list              - List available variants
//	whack play <variant>    - Play a variant
//	whack menu              - Start menu to pick variants interactively
//	whack serve             - Start SSH server for remote play
//	whack scores <variant>  - Show high scores for a variant
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible rounds
//	--db <path>     - Set database path (default: ~/.whack/scores.db)
//
// Defaults can also come from WHACK_DB, WHACK_CONFIG, WHACK_SSH_ADDR and
// WHACK_LOG_LEVEL.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-whack/internal/audio"
	"github.com/vovakirdan/tui-whack/internal/config"
	"github.com/vovakirdan/tui-whack/internal/core"
	"github.com/vovakirdan/tui-whack/internal/storage"
	"github.com/vovakirdan/tui-whack/internal/whack"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string

	environ = loadEnv()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "whack",
	Short: "Bug Whack - a timed reaction game for your terminal",
	Long: `Bug Whack is a terminal reaction game. Bugs, friendlies and golden
bugs pop out of a grid of holes; whack the bugs, spare the friendlies and
build a combo before the clock runs out.

Available commands:
  list     - Show all available variants
  play     - Play a specific variant directly
  menu     - Interactive variant picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  whack list
  whack play whack
  whack menu
  whack serve --ssh :2222
  whack scores whack_xl`,
	SilenceUsage: true,
}

// loadEnv reads flag defaults from the environment.
func loadEnv() config.Environment {
	e, err := config.ParseEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if e.DBPath == "" {
		e.DBPath = "~/.whack/scores.db"
	}
	if e.LogLevel == "" {
		e.LogLevel = "info"
	}
	if e.SSHAddr == "" {
		e.SSHAddr = ":23234"
	}
	return e
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", environ.DBPath, "Path to scores database")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the score database. Play continues without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// newLogger returns a debug logger writing to path, or a discarding logger
// when path is empty. The returned func closes the log file.
func newLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "whack",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }, nil
}

// wireEngine hands the host collaborators to every game created afterwards.
// The returned func releases the audio device.
func wireEngine(store *storage.Store, logger *log.Logger, mute bool) func() {
	whack.SetLogger(logger)
	if store != nil {
		whack.SetBestScoreSource(func(gameID string) whack.BestScoreStore {
			return store.Cell(gameID)
		})
	}
	if mute {
		return func() {}
	}

	sound := audio.NewSoundManager()
	if err := sound.Initialize(); err != nil {
		logger.Warn("audio disabled", "error", err)
		return func() {}
	}
	whack.SetAudio(sound)
	return sound.Cleanup
}
