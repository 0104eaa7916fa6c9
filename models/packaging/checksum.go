package packaging

import (
	"strings"
	"time"
)

// Checksum is a digest of a custodial resource, calculated upstream
// of the packager.
type Checksum struct {
	Algorithm string    `json:"algorithm"`
	DateTime  time.Time `json:"datetime"`
	Digest    string    `json:"digest"`
}

func NewChecksum(algorithm, digest string) *Checksum {
	return &Checksum{
		Algorithm: algorithm,
		DateTime:  time.Now().UTC(),
		Digest:    digest,
	}
}

// Hex returns the digest as lowercase hex, the form required in
// BagIt manifests.
func (cs *Checksum) Hex() string {
	return strings.ToLower(cs.Digest)
}
