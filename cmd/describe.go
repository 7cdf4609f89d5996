package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deltakit/deltakit/catalog"
)

var describeCmd = &cobra.Command{
	Use:   "describe <type>",
	Short: "Print the default configuration of a delta type",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	rt, err := runtime()
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	ct, err := catalog.Configs().Get(args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(ct.New(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s config: %w", args[0], err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
