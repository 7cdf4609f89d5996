package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/deltakit/deltakit/auto"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <location>",
	Short: "Resolve a saved delta artifact and summarize its contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	rt, err := runtime()
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	ctx := cmd.Context()
	cfg, extra, err := auto.ConfigFromFinetuned(ctx, args[0], rt.Options()...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "delta_type: %s\n", cfg.DeltaType())
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	fmt.Fprintln(out, string(data))
	if len(extra) > 0 {
		names := make([]string, 0, len(extra))
		for k := range extra {
			names = append(names, k)
		}
		sort.Strings(names)
		fmt.Fprintf(out, "unused fields: %v\n", names)
	}

	// Artifacts saved without parameters are still valid configs.
	ck, err := rt.Loader.LoadCheckpoint(ctx, args[0])
	if err != nil {
		fmt.Fprintln(out, "checkpoint: none")
		return nil
	}
	total := 0
	for _, b := range ck.Params {
		total += len(b.Data)
	}
	fmt.Fprintf(out, "checkpoint: %d blocks, %d parameters, backbone %s\n",
		len(ck.Params), total, ck.BackboneChecksum)
	return nil
}
