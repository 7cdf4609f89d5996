// Package export renders journal entries for external tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/deltakit/deltakit/infra/journal"
)

// WriteJSON writes the journal entries to w in JSON format.
func WriteJSON(w io.Writer, entries []journal.Entry) error {
	enc := json.NewEncoder(w)
	return enc.Encode(entries)
}

// WriteCSV writes the journal entries to w in CSV format.
func WriteCSV(w io.Writer, entries []journal.Entry) error {
	cw := csv.NewWriter(w)
	header := []string{"time", "kind", "delta_type", "backbone", "location", "params", "duration_ms", "error"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			e.Time.Format(time.RFC3339),
			e.Kind,
			e.DeltaType,
			e.Backbone,
			e.Location,
			strconv.Itoa(e.Params),
			strconv.FormatFloat(e.DurationMS, 'f', -1, 64),
			e.Err,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
