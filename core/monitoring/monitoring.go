// Package monitoring provides optional error reporting for catalog
// operations. The default monitor drops everything; Init installs a real
// reporter such as the Sentry monitor from infra/monitoring.
package monitoring

import "time"

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	current.CaptureException(err, tags)
}

// CaptureOpError records a failed factory operation, tagged with the
// operation name and the delta type involved when known.
func CaptureOpError(op, deltaType string, err error) {
	if err == nil {
		return
	}
	tags := map[string]string{"op": op}
	if deltaType != "" {
		tags["delta_type"] = deltaType
	}
	current.CaptureException(err, tags)
}

// Recover captures panics in goroutines.
func Recover() {
	current.Recover()
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	current.Flush(d)
}
