//go:build !windows

package util

import (
	"fmt"
	"sync"
	"syscall"

	"github.com/dustin/go-humanize"
)

// Volume tracks free space on the disk holding a directory, minus
// space already promised to tar files still being written. The bagger
// checks it before writing a bag to disk so it doesn't fill the disk
// halfway through.
type Volume struct {
	path         string
	mutex        sync.Mutex
	claimed      uint64
	reservations map[string]uint64
}

// NewVolume returns a Volume for the disk that holds path.
func NewVolume(path string) *Volume {
	return &Volume{
		path:         path,
		reservations: make(map[string]uint64),
	}
}

func (v *Volume) Path() string {
	return v.path
}

// ClaimedSpace returns the number of bytes reserved but not yet
// released.
func (v *Volume) ClaimedSpace() uint64 {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.claimed
}

// AvailableSpace returns roughly how many bytes unprivileged users
// can still write, less reservations. Other processes writing to the
// disk make this approximate.
func (v *Volume) AvailableSpace() (uint64, error) {
	stat := &syscall.Statfs_t{}
	if err := syscall.Statfs(v.path, stat); err != nil {
		return 0, err
	}
	free := uint64(stat.Bsize) * uint64(stat.Bavail)
	claimed := v.ClaimedSpace()
	if claimed >= free {
		return 0, nil
	}
	return free - claimed, nil
}

// Reserve claims numBytes for key, or returns an error if the disk
// doesn't have that much space.
func (v *Volume) Reserve(key string, numBytes uint64) error {
	available, err := v.AvailableSpace()
	if err != nil {
		return err
	}
	if numBytes >= available {
		return fmt.Errorf("%s needs %s on %s, but only %s is available",
			key, humanize.IBytes(numBytes), v.path, humanize.IBytes(available))
	}
	v.mutex.Lock()
	v.reservations[key] += numBytes
	v.claimed += numBytes
	v.mutex.Unlock()
	return nil
}

// Release drops the reservation for key.
func (v *Volume) Release(key string) {
	v.mutex.Lock()
	v.claimed -= v.reservations[key]
	delete(v.reservations, key)
	v.mutex.Unlock()
}
