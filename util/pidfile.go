package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"
)

// PidFile keeps two bagger processes from writing the same bag at
// the same time.
type PidFile struct {
	Path string
}

// NewPidFile returns a PidFile in dir named for the bag.
func NewPidFile(dir, bagName string) *PidFile {
	return &PidFile{Path: filepath.Join(dir, fmt.Sprintf("%s.pid", bagName))}
}

// Acquire writes this process' pid to the file. It fails if the file
// names another process that's still running. A file left behind by a
// dead process is overwritten.
func (p *PidFile) Acquire() error {
	if IsRunningInOtherProcess(p.Path) {
		return fmt.Errorf("Process %d is already working on this bag (pid file %s)", ReadPidFile(p.Path), p.Path)
	}
	return os.WriteFile(p.Path, []byte(strconv.Itoa(os.Getpid())), 0664)
}

// Release deletes the pid file, if it looks safe to delete.
func (p *PidFile) Release() error {
	if LooksSafeToDelete(p.Path, 12, 2) {
		return os.Remove(p.Path)
	}
	return fmt.Errorf("Pid file %s does not look safe to delete", p.Path)
}

// IsRunningInOtherProcess returns true if the pid file at pathToFile
// names a live process other than this one.
func IsRunningInOtherProcess(pathToFile string) bool {
	pid := ReadPidFile(pathToFile)
	return pid > 0 && pid != os.Getpid() && ProcessIsRunning(pid)
}

// ReadPidFile returns the pid from the file, or zero if the file
// doesn't exist or doesn't hold a number.
func ReadPidFile(pathToFile string) int {
	data, err := os.ReadFile(pathToFile)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

// ProcessIsRunning returns true if the process with pid is running.
// os.FindProcess always succeeds on *nix, so this asks go-ps instead.
func ProcessIsRunning(pid int) bool {
	proc, _ := ps.FindProcess(pid)
	return proc != nil
}
