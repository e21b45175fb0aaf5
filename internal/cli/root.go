// Package cli implements the linecut command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/piwi3910/LineCut/internal/config"
	"github.com/piwi3910/LineCut/internal/logging"
)

// flagKeys maps flag names to the config keys they override. Only the flags
// of the command being run are bound, so several commands can share a key.
// Unchanged flags never override the config file or the environment.
var flagKeys = map[string]string{
	"log-level":     "log.level",
	"log-format":    "log.format",
	"addr":          "server.addr",
	"auth-token":    "server.auth_token",
	"rate-limit":    "server.rate_limit",
	"burst":         "server.burst",
	"cors-origin":   "server.cors_origins",
	"telemetry":     "telemetry.enabled",
	"otlp-endpoint": "telemetry.endpoint",
	"kerf":          "defaults.kerf_width",
	"trim-left":     "defaults.trim_left",
	"trim-right":    "defaults.trim_right",
	"units":         "defaults.units",
	"min-offcut":    "defaults.min_offcut_length",
}

// app is the state shared by all commands of one invocation.
type app struct {
	version string
	cfgFile string

	v      *viper.Viper
	cfg    config.Config
	logger *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version, v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "linecut",
		Short: "Linear cut list optimizer",
		Long: `LineCut assigns required cut lengths to available stock lengths
(bar, tube, pipe, lumber) with a first-fit, longest-cut-first strategy.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default $HOME/"+config.DefaultFileName+")")
	pf.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	pf.String("log-format", "", "log format: json, console (overrides config)")

	root.AddCommand(
		newServeCmd(a),
		newOptimizeCmd(a),
		newEstimateCmd(a),
		newCompareCmd(a),
		newInventoryCmd(a),
		newVersionCmd(a),
	)
	return root
}

// load binds the running command's flags, reads the configuration and
// builds the logger.
func (a *app) load(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		bindErr = a.v.BindPFlag(key, f)
	})
	if bindErr != nil {
		return fmt.Errorf("bind flags: %w", bindErr)
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.logger = logger.With(zap.String("command", cmd.Name()))
	a.logger.Debug("configuration loaded", zap.String("file", a.v.ConfigFileUsed()))
	return nil
}

// Execute runs the CLI and returns the process exit code.
func Execute(version string) int {
	cmd := NewRootCmd(version)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "linecut %s\n", a.version)
		},
	}
}
