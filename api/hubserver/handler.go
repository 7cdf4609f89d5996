// Package hubserver exposes a directory of saved delta artifacts over HTTP
// so remote processes can restore finetuned deltas by name.
package hubserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	corehub "github.com/deltakit/deltakit/core/hub"
)

// Artifact describes one entry of the artifact listing.
type Artifact struct {
	Name          string `json:"name"`
	HasCheckpoint bool   `json:"has_checkpoint"`
}

type server struct {
	root  string
	token string
}

// NewHandler returns an HTTP handler serving the artifacts under root.
// GET /api/artifacts lists saved artifacts, GET /api/artifacts/{name}/{file}
// returns the artifact config or checkpoint. Requests must include an
// Authorization header with "Bearer <token>" when token is non-empty.
func NewHandler(root, token string) http.Handler {
	s := &server{root: root, token: token}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.health)
	mux.HandleFunc("/api/artifacts", s.list)
	mux.HandleFunc("/api/artifacts/", s.file)
	return mux
}

func (s *server) authorized(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+s.token
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"pass"}`))
}

func (s *server) list(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	arts := []Artifact{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, e.Name(), corehub.ConfigFile)); err != nil {
			continue
		}
		_, ckErr := os.Stat(filepath.Join(s.root, e.Name(), corehub.CheckpointFile))
		arts = append(arts, Artifact{Name: e.Name(), HasCheckpoint: ckErr == nil})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(arts); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (s *server) file(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/artifacts/")
	name, fileName, ok := strings.Cut(rest, "/")
	if !ok || name == "" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if fileName != corehub.ConfigFile && fileName != corehub.CheckpointFile {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	// Artifact names are single path segments under root.
	if name != filepath.Base(name) || name == "." || name == ".." {
		http.Error(w, "invalid artifact name", http.StatusBadRequest)
		return
	}
	data, err := os.ReadFile(filepath.Join(s.root, name, fileName))
	if errors.Is(err, os.ErrNotExist) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
