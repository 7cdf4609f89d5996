package delta

import (
	"errors"
	"testing"
)

func TestCompatibleVersion(t *testing.T) {
	if err := CompatibleVersion(""); err != nil {
		t.Fatalf("empty version: %v", err)
	}
	if err := CompatibleVersion("0.4.1"); err != nil {
		t.Fatalf("same major: %v", err)
	}
	if err := CompatibleVersion("1.0.0"); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("err = %v, want version mismatch", err)
	}
	if err := CompatibleVersion("not-semver"); err == nil {
		t.Fatal("expected parse error")
	}
}
