package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deltakit/deltakit/api/hubserver"
	"github.com/deltakit/deltakit/app"
	inframetrics "github.com/deltakit/deltakit/infra/metrics"
)

var (
	serveAddr string
	serveRoot string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve saved delta artifacts over HTTP",
	Long: `Serve exposes a directory of saved delta artifacts as a hub. Remote
processes restore them by name by pointing hub.base_url at this server.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8799", "listen address")
	serveCmd.Flags().StringVar(&serveRoot, "root", "", "artifact directory (defaults to hub.artifact_root)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rt, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	root := serveRoot
	if root == "" {
		root = cfg.Hub.ArtifactRoot
	}
	if root == "" {
		return fmt.Errorf("no artifact directory: set --root or hub.artifact_root")
	}

	if addr := cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := inframetrics.StartPromServer(ctx, addr, nil); err != nil {
				rt.Log.Errorf("prom server: %v", err)
			}
		}()
	}

	return hubserver.Serve(ctx, serveAddr, hubserver.NewHandler(root, cfg.Hub.Token))
}
