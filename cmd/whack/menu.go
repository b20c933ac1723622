package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-whack/internal/platform/tui"
	"github.com/vovakirdan/tui-whack/internal/registry"
	"github.com/vovakirdan/tui-whack/internal/whack"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a variant picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a variant, Left/Right to pick a difficulty,
Enter to play. Press Esc on the game-over screen to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Left/Right   - Change difficulty
  Enter/Space  - Play
  Tab          - Scoreboard
  Q            - Quit

Examples:
  whack menu
  whack menu --fps 30
  whack menu --db ./scores.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", environ.ConfigPath, "Path to custom game config YAML")
	menuCmd.Flags().StringVar(&flagLogFile, "log", "", "Write a debug log to this file")
	menuCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound effects")
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger(flagLogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store := openStore()
	release := wireEngine(store, logger, flagMute)
	whack.SetConfigPath(flagConfig)

	cfg := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		whack.SetDifficultyPreset(menuResult.Difficulty)

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Fresh seed for each round unless one was pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		goBack, err := tui.Run(game, store, logger, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		if !goBack {
			break
		}
	}

	release()
	if store != nil {
		store.Close()
	}
}
