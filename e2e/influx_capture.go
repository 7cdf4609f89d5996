package e2e

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// influxCapture stands in for an InfluxDB v2 instance: it passes the client
// health check and records every line protocol write it receives.
type influxCapture struct {
	mu    sync.Mutex
	lines []string
	srv   *httptest.Server
}

func newInfluxCapture() *influxCapture {
	c := &influxCapture{}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"influxdb","status":"pass"}`))
	})
	mux.HandleFunc("/api/v2/write", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.mu.Lock()
		for _, ln := range strings.Split(strings.TrimSpace(string(body)), "\n") {
			if ln != "" {
				c.lines = append(c.lines, ln)
			}
		}
		c.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	c.srv = httptest.NewServer(mux)
	return c
}

func (c *influxCapture) URL() string { return c.srv.URL }

func (c *influxCapture) Close() { c.srv.Close() }

// measurements counts the captured points by measurement name.
func (c *influxCapture) measurements() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int)
	for _, ln := range c.lines {
		name := ln
		if i := strings.IndexAny(ln, ", "); i > 0 {
			name = ln[:i]
		}
		out[name]++
	}
	return out
}
