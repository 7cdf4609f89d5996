package hubserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	corehub "github.com/deltakit/deltakit/core/hub"
)

func writeArtifact(t *testing.T, root, name string, withCheckpoint bool) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg := []byte(`{"delta_type":"lora","lora_r":2}`)
	if err := os.WriteFile(filepath.Join(dir, corehub.ConfigFile), cfg, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if !withCheckpoint {
		return
	}
	ck := corehub.Checkpoint{DeltaType: "lora", Params: []corehub.ParamBlock{
		{Name: "attn.q/lora_A", Rows: 2, Cols: 2, Data: []float64{1, 2, 3, 4}},
	}}
	data, err := json.Marshal(ck)
	if err != nil {
		t.Fatalf("marshal checkpoint: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, corehub.CheckpointFile), data, 0o644); err != nil {
		t.Fatalf("write checkpoint: %v", err)
	}
}

func TestHandler_ListAndFetch(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "lora-demo", true)
	writeArtifact(t, root, "bitfit-demo", false)
	// Directories without a config and stray files are not artifacts.
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	h := NewHandler(root, "tok")

	req := httptest.NewRequest("GET", "/api/artifacts", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var arts []Artifact
	if err := json.Unmarshal(rr.Body.Bytes(), &arts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(arts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(arts))
	}
	if arts[0].Name != "bitfit-demo" || arts[0].HasCheckpoint {
		t.Fatalf("unexpected first artifact %+v", arts[0])
	}
	if arts[1].Name != "lora-demo" || !arts[1].HasCheckpoint {
		t.Fatalf("unexpected second artifact %+v", arts[1])
	}

	req = httptest.NewRequest("GET", "/api/artifacts/lora-demo/"+corehub.ConfigFile, nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("config status %d", rr.Code)
	}
	var cfg map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if cfg["delta_type"] != "lora" {
		t.Fatalf("unexpected config %v", cfg)
	}

	req = httptest.NewRequest("GET", "/api/artifacts/lora-demo/"+corehub.CheckpointFile, nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("checkpoint status %d", rr.Code)
	}
	var ck corehub.Checkpoint
	if err := json.Unmarshal(rr.Body.Bytes(), &ck); err != nil {
		t.Fatalf("unmarshal checkpoint: %v", err)
	}
	if len(ck.Params) != 1 || ck.Params[0].Name != "attn.q/lora_A" {
		t.Fatalf("unexpected checkpoint %+v", ck)
	}
}

func TestHandler_ErrorsAndAuth(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "lora-demo", true)
	h := NewHandler(root, "tok")

	// unauthorized
	req := httptest.NewRequest("GET", "/api/artifacts", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	// healthz is open
	req = httptest.NewRequest("GET", "/healthz", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz status %d", rr.Code)
	}

	// unknown artifact
	req = httptest.NewRequest("GET", "/api/artifacts/nope/"+corehub.ConfigFile, nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}

	// only the artifact files are served
	req = httptest.NewRequest("GET", "/api/artifacts/lora-demo/secrets.txt", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}

	// nested paths are rejected
	req = httptest.NewRequest("GET", "/api/artifacts/lora-demo/deep/"+corehub.ConfigFile, nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}

	// writes are not allowed
	req = httptest.NewRequest("POST", "/api/artifacts", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}
