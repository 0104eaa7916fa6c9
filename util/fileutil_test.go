package util_test

import (
	"os"
	"strings"
	"testing"

	"github.com/APTrust/bagit-packager/util"
	"github.com/stretchr/testify/assert"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, util.FileExists(dir))
	assert.False(t, util.FileExists("NonExistentFile.xyz"))
}

func TestIsDirectory(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, util.IsDirectory(dir))
	file, err := os.CreateTemp(dir, "not-a-dir")
	assert.Nil(t, err)
	file.Close()
	assert.False(t, util.IsDirectory(file.Name()))
	assert.False(t, util.IsDirectory("NonExistentFile.xyz"))
}

func TestExpandTilde(t *testing.T) {
	expanded, err := util.ExpandTilde("~/tmp")
	assert.Nil(t, err)
	assert.True(t, len(expanded) > 6)
	assert.True(t, strings.HasSuffix(expanded, "tmp"))

	expanded, err = util.ExpandTilde("/nothing/to/expand")
	assert.Nil(t, err)
	assert.Equal(t, "/nothing/to/expand", expanded)
}

func TestLooksSafeToDelete(t *testing.T) {
	assert.True(t, util.LooksSafeToDelete("/mnt/apt/data/some_dir", 15, 3))
	assert.False(t, util.LooksSafeToDelete("/usr/local", 12, 3))
}
