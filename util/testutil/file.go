package testutil

import (
	"path"
	"path/filepath"
	"runtime"

	"github.com/APTrust/bagit-packager/util/logger"
	"github.com/op/go-logging"
)

// ProjectRoot returns the absolute path to the root of this repo.
func ProjectRoot() string {
	_, thisFile, _, _ := runtime.Caller(0)
	absPath, _ := filepath.Abs(path.Join(thisFile, "..", "..", ".."))
	return absPath
}

func PathToConfigDir() string {
	return path.Join(ProjectRoot(), "config")
}

func PathToBagInfoTemplate() string {
	return path.Join(ProjectRoot(), "templates", "bag-info.txt.tmpl")
}

// Logger returns a logger that discards all output.
func Logger() *logging.Logger {
	return logger.DiscardLogger("test")
}
