package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	coremetrics "github.com/deltakit/deltakit/core/metrics"
	"github.com/deltakit/deltakit/infra/journal"
)

// JournalSink persists every catalog event to a journal store, giving a
// local, queryable history of delta activity.
type JournalSink struct {
	store journal.Store
}

// NewJournalSink wraps the given store. The sink owns it: Close closes the
// store.
func NewJournalSink(store journal.Store) *JournalSink {
	return &JournalSink{store: store}
}

// journalConf selects and configures the backing store of a journal sink.
type journalConf struct {
	Driver     string `json:"driver"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// openJournalStore builds the store described by c. The default driver is
// jsonl; memory needs no path.
func openJournalStore(c journalConf) (journal.Store, error) {
	if c.Driver != "memory" && c.Path == "" {
		return nil, errors.New("journal sink requires a path")
	}
	switch c.Driver {
	case "", "jsonl":
		return journal.NewJSONLStore(c.Path)
	case "rotating":
		if c.MaxSizeMB <= 0 {
			c.MaxSizeMB = 10
		}
		return journal.NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	case "sqlite":
		return journal.NewSQLiteStore(c.Path)
	case "memory":
		return journal.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown journal driver %s", c.Driver)
	}
}

func (s *JournalSink) append(e journal.Entry) error {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.store.Append(ctx, e)
}

func (s *JournalSink) RecordModuleLoad(ev coremetrics.ModuleLoadEvent) error {
	return s.append(journal.Entry{
		Time:       ev.Time,
		Kind:       journal.KindModuleLoad,
		Key:        ev.Key,
		Module:     ev.Module,
		DurationMS: round3(ev.Duration.Seconds() * 1000),
		Err:        ev.Err,
	})
}

func (s *JournalSink) RecordAttach(ev coremetrics.AttachEvent) error {
	return s.append(journal.Entry{
		Time:       ev.Time,
		Kind:       journal.KindAttach,
		DeltaType:  ev.DeltaType,
		ModelID:    ev.ModelID,
		Backbone:   ev.Backbone,
		Params:     ev.Params,
		DurationMS: round3(ev.Duration.Seconds() * 1000),
	})
}

func (s *JournalSink) RecordSave(ev coremetrics.SaveEvent) error {
	return s.append(journal.Entry{
		Time:      ev.Time,
		Kind:      journal.KindSave,
		DeltaType: ev.DeltaType,
		Location:  ev.Location,
		Params:    ev.Params,
	})
}

func (s *JournalSink) RecordRestore(ev coremetrics.RestoreEvent) error {
	return s.append(journal.Entry{
		Time:       ev.Time,
		Kind:       journal.KindRestore,
		DeltaType:  ev.DeltaType,
		Location:   ev.Location,
		Params:     ev.Params,
		DurationMS: round3(ev.Duration.Seconds() * 1000),
		Err:        ev.Err,
	})
}

// Close closes the backing store.
func (s *JournalSink) Close() error { return s.store.Close() }
