// Package main is the CLI entry point for loopfetch.
package main

import (
	"fmt"
	"os"

	"codeberg.org/mutker/loopfetch/internal/config"
	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/logger"
	"codeberg.org/mutker/loopfetch/internal/script"
	"github.com/spf13/cobra"
)

// Version is set via ldflags.
var Version = "dev"

var (
	configPath  string
	forceInit   bool
	checkFormat string
)

var rootCmd = &cobra.Command{
	Use:   "loopfetch",
	Short: "Live, scriptable system telemetry dashboard",
	Long: `loopfetch renders system telemetry through a Lua script that is
evaluated on every logic tick. Editing the script updates the dashboard
without a restart.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default script",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate the script once and print its settings and lines",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the script in every running dashboard",
	Args:  cobra.NoArgs,
	RunE:  runReload,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "loopfetch %s\n", Version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "configuration file (default $XDG_CONFIG_HOME/loopfetch/loopfetch.toml)")
	pf.StringP("script", "s", "", "Lua script path (default $XDG_CONFIG_HOME/loopfetch/init.lua)")
	pf.String("log-level", string(config.DefaultLogLevel), "debug, info, warning or error")
	pf.String("log-file", "", "log file (default $XDG_STATE_HOME/loopfetch/loopfetch.log)")
	pf.Uint32("reload-every", 0, "reload the script every N telemetry refreshes (0 disables)")
	pf.Bool("watch", true, "reload the script when it changes on disk")
	pf.Duration("script-timeout", script.DefaultTimeout, "bound on one script evaluation (0 disables)")
	pf.Bool("gpu", true, "sample the NVIDIA GPU through NVML")
	pf.Bool("media", true, "sample MPRIS media players")
	pf.Bool("debug", false, "show the debug overlay")

	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing script")
	checkCmd.Flags().StringVar(&checkFormat, "format", "yaml", "output format: yaml or json")

	rootCmd.AddCommand(initCmd, checkCmd, reloadCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.ErrorWithCode(appErr).Msg("loopfetch failed")
		}
		fmt.Fprintf(os.Stderr, "loopfetch: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := []config.Option{config.WithFlags(cmd.Flags())}
	if configPath != "" {
		opts = append(opts, config.WithConfigFile(configPath))
	}
	return config.Load(opts...)
}
