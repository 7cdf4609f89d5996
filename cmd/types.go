package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deltakit/deltakit/catalog"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the registered delta types",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func runTypes(cmd *cobra.Command, _ []string) error {
	rt, err := runtime()
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	items, err := catalog.Models().Items()
	if err != nil {
		return fmt.Errorf("resolve catalog: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-18s %-24s %s\n", "KEY", "CONFIG", "MODEL")
	for _, it := range items {
		fmt.Fprintf(out, "%-18s %-24s %s\n", it.Key, it.Config.Name, it.Model.Name)
	}
	return nil
}
