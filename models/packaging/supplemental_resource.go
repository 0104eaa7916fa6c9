package packaging

import (
	"bytes"
	"io"
	"time"
)

// SupplementalResource is a tag file or manifest the packager creates
// in memory when the payload is complete. It has no backing file or
// URL. The archiving step reads it once and discards it.
type SupplementalResource interface {
	PackagePath() string
	ContentLength() int64
	LastModified() time.Time
	Open() io.Reader
	Description() string
}

type memoryResource struct {
	packagePath  string
	description  string
	data         []byte
	lastModified time.Time
}

// NewSupplementalResource returns an in-memory SupplementalResource
// whose content is data. The caller must not modify data afterward.
func NewSupplementalResource(packagePath, description string, data []byte, lastModified time.Time) SupplementalResource {
	return &memoryResource{
		packagePath:  packagePath,
		description:  description,
		data:         data,
		lastModified: lastModified,
	}
}

func (r *memoryResource) PackagePath() string     { return r.packagePath }
func (r *memoryResource) ContentLength() int64    { return int64(len(r.data)) }
func (r *memoryResource) LastModified() time.Time { return r.lastModified }
func (r *memoryResource) Description() string     { return r.description }

// Open returns a new reader over the content each time it's called.
func (r *memoryResource) Open() io.Reader {
	return bytes.NewReader(r.data)
}
