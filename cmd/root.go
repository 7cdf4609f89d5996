// Package cmd implements the deltactl command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deltakit/deltakit/app"
	"github.com/deltakit/deltakit/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "deltactl",
	Short:         "Inspect and exercise the deltakit delta-tuning catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (built-in defaults when omitted)")
}

// Execute runs the root command. Errors are returned to main for the
// process exit code; cobra printing is silenced so they surface once.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

// loadConfig reads the configuration selected by the --config flag.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgPath == "" {
		cfg, err = config.Default()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// runtime assembles the shared Runtime from the --config flag.
func runtime() (*app.Runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}

func closeRuntime(rt *app.Runtime) {
	if err := rt.Close(); err != nil {
		rt.Log.Errorf("runtime close: %v", err)
	}
}
