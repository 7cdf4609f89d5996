package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deltakit/deltakit/infra/journal"
	"github.com/deltakit/deltakit/pkg/export"
)

var (
	historyJournal string
	historyDriver  string
	historyKind    string
	historyType    string
	historySince   string
	historyFormat  string
	historyLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the delta event journal",
	Long: `History reads the journal written by the "journal" metrics sink and
prints the recorded catalog events.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyJournal, "journal", "", "journal path (file for jsonl/rotating, database for sqlite)")
	historyCmd.Flags().StringVar(&historyDriver, "driver", "jsonl", "journal driver: jsonl, rotating or sqlite")
	historyCmd.Flags().StringVar(&historyKind, "kind", "", "filter by event kind (module_load, attach, save, restore)")
	historyCmd.Flags().StringVar(&historyType, "type", "", "filter by delta type")
	historyCmd.Flags().StringVar(&historySince, "since", "", "only events at or after this RFC3339 time")
	historyCmd.Flags().StringVar(&historyFormat, "format", "table", "output format: table, json or csv")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "maximum entries to print, newest kept (0 for all)")
	_ = historyCmd.MarkFlagRequired("journal")
	rootCmd.AddCommand(historyCmd)
}

func openHistoryStore() (journal.Store, error) {
	switch historyDriver {
	case "jsonl":
		return journal.NewJSONLStore(historyJournal)
	case "rotating":
		return journal.NewRotatingJSONLStore(historyJournal, 10, 3, 28)
	case "sqlite":
		return journal.NewSQLiteStore(historyJournal)
	default:
		return nil, fmt.Errorf("unknown journal driver %s", historyDriver)
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	q := journal.Query{Kind: historyKind, DeltaType: historyType}
	if historySince != "" {
		ts, err := time.Parse(time.RFC3339, historySince)
		if err != nil {
			return fmt.Errorf("parse --since: %w", err)
		}
		q.Start = ts
	}
	entries, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[len(entries)-historyLimit:]
	}

	out := cmd.OutOrStdout()
	switch historyFormat {
	case "json":
		return export.WriteJSON(out, entries)
	case "csv":
		return export.WriteCSV(out, entries)
	case "table":
		for _, e := range entries {
			fmt.Fprintf(out, "%s  %-11s  %-16s  %s\n",
				e.Time.Format(time.RFC3339), e.Kind, e.DeltaType, historyDetail(e))
		}
		return nil
	default:
		return fmt.Errorf("unknown format %s", historyFormat)
	}
}

func historyDetail(e journal.Entry) string {
	switch e.Kind {
	case journal.KindModuleLoad:
		if e.Err != "" {
			return fmt.Sprintf("key=%s error=%s", e.Key, e.Err)
		}
		return fmt.Sprintf("key=%s module=%s", e.Key, e.Module)
	case journal.KindAttach:
		return fmt.Sprintf("backbone=%s params=%d", e.Backbone, e.Params)
	case journal.KindSave:
		return fmt.Sprintf("location=%s params=%d", e.Location, e.Params)
	case journal.KindRestore:
		if e.Err != "" {
			return fmt.Sprintf("location=%s error=%s", e.Location, e.Err)
		}
		return fmt.Sprintf("location=%s duration_ms=%.1f", e.Location, e.DurationMS)
	default:
		return ""
	}
}
