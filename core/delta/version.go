package delta

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version is the deltakit release recorded in saved configs.
const Version = "0.5.0"

// CompatibleVersion reports whether an artifact written by version v can be
// restored by this build. Artifacts from a different major version are
// rejected. An empty version predates stamping and is accepted.
func CompatibleVersion(v string) error {
	if v == "" {
		return nil
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("parse artifact version %q: %w", v, err)
	}
	cur := semver.MustParse(Version)
	if sv.Major() != cur.Major() {
		return fmt.Errorf("%w: artifact %s, library %s", ErrVersionMismatch, v, Version)
	}
	return nil
}
