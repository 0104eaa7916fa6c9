package bagit

import "fmt"

// Binary size constants for HumanSize.
const (
	KiB int64 = 1024
	MiB       = 1024 * KiB
	GiB       = 1024 * MiB
	TiB       = 1024 * GiB
)

// HumanSize returns size as a whole number of bytes, KiB, MiB, GiB
// or TiB, whichever is the largest unit not exceeding size. Values
// are truncated, never rounded, so 2047 bytes is "1 KiB".
func HumanSize(size int64) string {
	var units string
	switch {
	case size < KiB:
		units = "bytes"
	case size < MiB:
		size /= KiB
		units = "KiB"
	case size < GiB:
		size /= MiB
		units = "MiB"
	case size < TiB:
		size /= GiB
		units = "GiB"
	default:
		size /= TiB
		units = "TiB"
	}
	return fmt.Sprintf("%d %s", size, units)
}
