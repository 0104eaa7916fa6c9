package util_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/APTrust/bagit-packager/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPidFile(t *testing.T) {
	pidFile := util.NewPidFile("/var/run/bagger", "my-bag")
	assert.Equal(t, filepath.Join("/var/run/bagger", "my-bag.pid"), pidFile.Path)
}

func TestPidFileAcquireRelease(t *testing.T) {
	pidFile := util.NewPidFile(t.TempDir(), "test-bag")
	require.Nil(t, pidFile.Acquire())
	assert.Equal(t, os.Getpid(), util.ReadPidFile(pidFile.Path))

	// Our own pid doesn't block us.
	require.Nil(t, pidFile.Acquire())

	require.Nil(t, pidFile.Release())
	assert.False(t, util.FileExists(pidFile.Path))
}

func TestPidFileAcquireHeld(t *testing.T) {
	pidFile := util.NewPidFile(t.TempDir(), "test-bag")
	// Our parent is the test runner, which is still alive.
	parent := os.Getppid()
	require.Nil(t, os.WriteFile(pidFile.Path, []byte(strconv.Itoa(parent)), 0664))
	assert.True(t, util.IsRunningInOtherProcess(pidFile.Path))
	assert.NotNil(t, pidFile.Acquire())
}

func TestPidFileAcquireStale(t *testing.T) {
	pidFile := util.NewPidFile(t.TempDir(), "test-bag")
	require.Nil(t, os.WriteFile(pidFile.Path, []byte("0"), 0664))
	assert.False(t, util.IsRunningInOtherProcess(pidFile.Path))
	require.Nil(t, pidFile.Acquire())
	assert.Equal(t, os.Getpid(), util.ReadPidFile(pidFile.Path))
}

func TestReadPidFile(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "test.pid")
	assert.Equal(t, 0, util.ReadPidFile(pidFile))
	require.Nil(t, os.WriteFile(pidFile, []byte("9499\n"), 0664))
	assert.Equal(t, 9499, util.ReadPidFile(pidFile))
	require.Nil(t, os.WriteFile(pidFile, []byte("not a pid"), 0664))
	assert.Equal(t, 0, util.ReadPidFile(pidFile))
}

func TestProcessIsRunning(t *testing.T) {
	assert.False(t, util.ProcessIsRunning(-999))
	assert.True(t, util.ProcessIsRunning(os.Getpid()))
}
