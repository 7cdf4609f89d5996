package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deltakit/deltakit/auto"
	"github.com/deltakit/deltakit/simulator"
)

var (
	attachArch   string
	attachLayers int
	attachHidden int
	attachFF     int
	attachVocab  int
	attachSet    []string
	attachSave   string
)

var attachCmd = &cobra.Command{
	Use:   "attach <type>",
	Short: "Attach a delta to a synthetic backbone and report its footprint",
	Args:  cobra.ExactArgs(1),
	RunE:  runAttach,
}

func init() {
	attachCmd.Flags().StringVar(&attachArch, "arch", "transformer", "synthetic backbone architecture")
	attachCmd.Flags().IntVar(&attachLayers, "layers", 0, "backbone layer count (0 = architecture default)")
	attachCmd.Flags().IntVar(&attachHidden, "hidden", 0, "backbone hidden width (0 = architecture default)")
	attachCmd.Flags().IntVar(&attachFF, "ff", 0, "feed-forward width (0 = architecture default)")
	attachCmd.Flags().IntVar(&attachVocab, "vocab", 0, "embedding rows (0 = architecture default)")
	attachCmd.Flags().StringArrayVar(&attachSet, "set", nil, "delta config override, key=value (comma separates list items)")
	attachCmd.Flags().StringVar(&attachSave, "save", "", "directory to save the attached delta into")
	rootCmd.AddCommand(attachCmd)
}

func runAttach(cmd *cobra.Command, args []string) error {
	rt, err := runtime()
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	bb, err := simulator.Build(simulator.Config{
		Arch:   attachArch,
		Layers: attachLayers,
		Hidden: attachHidden,
		FF:     attachFF,
		Vocab:  attachVocab,
	})
	if err != nil {
		return fmt.Errorf("build backbone: %w", err)
	}

	fields := map[string]any{"delta_type": args[0]}
	for _, kv := range attachSet {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("malformed --set %q, want key=value", kv)
		}
		fields[k] = parseFieldValue(v)
	}
	cfg, unused, err := auto.ConfigFromMap(fields)
	if err != nil {
		return err
	}
	for k := range unused {
		rt.Log.Warnf("field %s is unknown to %s, ignored", k, args[0])
	}

	m, err := auto.ModelFromConfig(cfg, bb, rt.Options()...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "attached %s to %s (%s)\n", cfg.DeltaType(), bb.Name(), m.ID())
	fmt.Fprintf(out, "delta modules:     %d\n", len(m.DeltaModules()))
	fmt.Fprintf(out, "delta parameters:  %d\n", m.NumParams())
	fmt.Fprintf(out, "backbone params:   %d\n", bb.NumParams())
	fmt.Fprintf(out, "trainable share:   %.2f%%\n", 100*float64(bb.TrainableParams())/float64(bb.NumParams()))

	if attachSave != "" {
		if err := m.SaveFinetuned(attachSave); err != nil {
			return fmt.Errorf("save delta: %w", err)
		}
		fmt.Fprintf(out, "saved to %s\n", attachSave)
	}
	return nil
}

// parseFieldValue turns a flag string into the most specific value the delta
// config decoder can take. Comma-separated values become lists.
func parseFieldValue(s string) any {
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		items := make([]any, 0, len(parts))
		for _, p := range parts {
			items = append(items, parseFieldValue(strings.TrimSpace(p)))
		}
		return items
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	return s
}
