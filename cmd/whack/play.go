package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-whack/internal/config"
	"github.com/vovakirdan/tui-whack/internal/platform/tui"
	"github.com/vovakirdan/tui-whack/internal/registry"
	"github.com/vovakirdan/tui-whack/internal/whack"
)

var (
	flagConfig     string
	flagDifficulty string
	flagLogFile    string
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play <variant>",
	Short: "Play a variant",
	Long: `Start a round of the specified variant.

Controls:
  Arrows/WASD/hjkl - Move the cursor
  Space            - Whack the slot under the cursor
  1-9              - Whack a slot directly (row by row)
  Mouse click      - Whack the clicked slot
  Enter            - Start / play again
  P                - Pause
  R                - Restart
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Start at the slowest pace, speeds up over the round
  normal - Start 30% into the ramp
  hard   - Start 70% into the ramp
  fixed  - No acceleration, keep the initial pace

Examples:
  whack play whack
  whack play whack --difficulty hard
  whack play whack_xl --seed 42
  whack play whack --config ./my-whack.yaml --log ./whack.log`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", environ.ConfigPath, "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagLogFile, "log", "", "Write a debug log to this file")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound effects")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'whack list' to see available variants.")
		os.Exit(1)
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(flagLogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// Set config path and difficulty before the game is created
	whack.SetConfigPath(flagConfig)
	whack.SetDifficultyPreset(preset)

	store := openStore()
	release := wireEngine(store, logger, flagMute)

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	_, runErr := tui.Run(game, store, logger, runtimeConfig())

	release()
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
