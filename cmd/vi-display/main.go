// vi-display runs the frame loop in the terminal: an intro overlay fades in and out,
// then the bounce demo scene runs with optional diagnostics
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/vi-display/asset"
	"github.com/lixenwraith/vi-display/config"
)

var (
	configPath  string
	targetFPS   int
	introPath   string
	noIntro     bool
	debugAll    bool
	showFPS     bool
	showMemory  bool
	showSprites bool
	showLog     bool
	emulator    bool
	diagAddr    string
	logDir      string
)

var rootCmd = &cobra.Command{
	Use:   "vi-display",
	Short: "Terminal frame loop with intro overlay and diagnostics",
	Long: `vi-display drives a fixed-rate frame clock over the terminal.

An intro texture fades in and out once, then the demo scene starts.
Quit with q, Esc or Ctrl-C.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		err = run(cmd.Context(), cfg)
		if errors.Is(err, errQuit) {
			return nil
		}
		return err
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), asset.DefaultConfigYAML)
		return err
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML configuration file (defaults when absent)")
	flags.IntVar(&targetFPS, "fps", 0, "Target frames per second")
	flags.StringVar(&introPath, "intro", "", "Intro texture: PNG, .txt or builtin:logo")
	flags.BoolVar(&noIntro, "no-intro", false, "Skip the intro overlay")
	flags.BoolVarP(&debugAll, "debug", "d", false, "Show every diagnostics row")
	flags.BoolVar(&showFPS, "show-fps", false, "Show the frame rate")
	flags.BoolVar(&showMemory, "show-memory", false, "Show heap usage")
	flags.BoolVar(&showSprites, "show-sprites", false, "Show sprite and desktop counts")
	flags.BoolVar(&showLog, "show-log", false, "Show recent log lines (with --debug)")
	flags.BoolVar(&emulator, "emulator", false, "Echo key presses as virtual keycaps")
	flags.StringVar(&diagAddr, "diag-addr", "", "Serve the websocket metrics feed on host:port")
	flags.StringVar(&logDir, "log-dir", "", "Directory for the log file")

	rootCmd.AddCommand(configCmd)
}

// applyFlags layers explicitly set flags over the loaded configuration
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	d := &cfg.Display

	if flags.Changed("fps") {
		d.TargetFPS = targetFPS
	}
	if flags.Changed("intro") {
		d.OverlayEnabled = true
		d.OverlayTexturePath = introPath
	}
	if noIntro {
		d.OverlayEnabled = false
	}
	d.DebugAll = d.DebugAll || debugAll
	d.ShowFPS = d.ShowFPS || showFPS
	d.ShowMemory = d.ShowMemory || showMemory
	d.ShowSpriteCounts = d.ShowSpriteCounts || showSprites
	d.ShowLogOverlay = d.ShowLogOverlay || showLog
	d.Emulator = d.Emulator || emulator

	if flags.Changed("diag-addr") {
		cfg.Diagnostics.ListenAddr = diagAddr
	}
	if flags.Changed("log-dir") {
		cfg.Logging.Enabled = true
		cfg.Logging.Dir = logDir
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
