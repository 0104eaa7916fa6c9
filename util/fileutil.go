package util

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// FileExists returns true if the file at path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDirectory returns true if the file at path exists and is a directory.
func IsDirectory(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.IsDir()
}

// ExpandTilde expands a leading tilde in filePath to the user's
// home directory. Other paths come back unchanged.
func ExpandTilde(filePath string) (string, error) {
	if !strings.HasPrefix(filePath, "~") {
		return filePath, nil
	}
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(usr.HomeDir, filePath[1:]), nil
}

// LooksSafeToDelete returns true if filePath is at least minLength
// characters long and contains at least minSeparators path separators.
// This keeps typos and empty settings from deleting things like
// /usr or the user's home directory.
func LooksSafeToDelete(filePath string, minLength, minSeparators int) bool {
	separator := string(os.PathSeparator)
	separatorCount := strings.Count(filePath, separator)
	return len(filePath) >= minLength && separatorCount >= minSeparators
}
