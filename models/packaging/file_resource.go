package packaging

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/APTrust/bagit-packager/util"
)

// FileResource is a CustodialResource backed by a file on disk.
type FileResource struct {
	name      string
	path      string
	size      int64
	checksums []*Checksum
	modTime   time.Time
}

// NewFileResource returns a FileResource for the file at filePath,
// which will appear in the bag as data/<name>. This reads the whole
// file once to calculate checksums for each of the algorithms.
func NewFileResource(filePath, name string, algorithms []string) (*FileResource, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	digests, _, err := util.CalculateDigests(file, algorithms)
	if err != nil {
		return nil, err
	}
	return &FileResource{
		name:      name,
		path:      filePath,
		size:      stat.Size(),
		checksums: checksumsFromDigests(algorithms, digests),
		modTime:   stat.ModTime().UTC(),
	}, nil
}

func (r *FileResource) Name() string           { return r.name }
func (r *FileResource) Path() string           { return r.path }
func (r *FileResource) Size() int64            { return r.size }
func (r *FileResource) Checksums() []*Checksum { return r.checksums }
func (r *FileResource) ModTime() time.Time     { return r.modTime }

func (r *FileResource) Open() (io.ReadCloser, error) {
	return os.Open(r.path)
}

// LoadDirectory returns a FileResource for every regular file under
// dir, in lexical order. Resource names are slash-separated paths
// relative to dir.
func LoadDirectory(dir string, algorithms []string) ([]CustodialResource, error) {
	resources := make([]CustodialResource, 0)
	err := filepath.WalkDir(dir, func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		relPath, err := filepath.Rel(dir, filePath)
		if err != nil {
			return err
		}
		resource, err := NewFileResource(filePath, filepath.ToSlash(relPath), algorithms)
		if err != nil {
			return err
		}
		resources = append(resources, resource)
		return nil
	})
	return resources, err
}
