package backbone

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Checksum returns a hex digest of the backbone structure: the paths, names
// and shapes of every parameter outside delta-inserted modules. Two backbones
// with the same architecture produce the same checksum regardless of weight
// values, so a checkpoint can verify it is being restored onto the structure
// it was trained against.
func (m *Module) Checksum() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n", m.name)
	m.Walk(func(n *Module) bool {
		if n.isDelta {
			return false
		}
		for _, p := range n.params {
			r, c := p.Data.Dims()
			fmt.Fprintf(h, "%s/%s:%dx%d\n", n.Path(), p.Name, r, c)
		}
		return true
	})
	return hex.EncodeToString(h.Sum(nil))
}
