// Package journal persists catalog events so delta activity can be audited
// and replayed later: which modules were loaded, what was attached to which
// backbone, where checkpoints were saved and restored from. Stores share one
// entry shape and differ only in their backing medium.
package journal

import (
	"context"
	"time"
)

// Entry kinds.
const (
	KindModuleLoad = "module_load"
	KindAttach     = "attach"
	KindSave       = "save"
	KindRestore    = "restore"
)

// Entry captures one catalog event.
type Entry struct {
	Time       time.Time `json:"time"`
	Kind       string    `json:"kind"`
	Key        string    `json:"key,omitempty"`
	Module     string    `json:"module,omitempty"`
	DeltaType  string    `json:"delta_type,omitempty"`
	ModelID    string    `json:"model_id,omitempty"`
	Backbone   string    `json:"backbone,omitempty"`
	Location   string    `json:"location,omitempty"`
	Params     int       `json:"params,omitempty"`
	DurationMS float64   `json:"duration_ms,omitempty"`
	Err        string    `json:"error,omitempty"`
}

// Query defines filters for retrieving entries.
type Query struct {
	Start     time.Time
	End       time.Time
	Kind      string
	DeltaType string
}

// matches reports whether e passes the query filters.
func (q Query) matches(e Entry) bool {
	if !q.Start.IsZero() && e.Time.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && e.Time.After(q.End) {
		return false
	}
	if q.Kind != "" && e.Kind != q.Kind {
		return false
	}
	if q.DeltaType != "" && e.DeltaType != q.DeltaType {
		return false
	}
	return true
}

// Store persists entries and supports querying.
type Store interface {
	Append(ctx context.Context, e Entry) error
	Query(ctx context.Context, q Query) ([]Entry, error)
	Close() error
}
