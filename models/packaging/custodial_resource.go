package packaging

import (
	"bytes"
	"io"
	"time"

	"github.com/APTrust/bagit-packager/util"
)

// CustodialResource is a payload file: a named byte stream with
// checksums that were calculated before packaging began. The packager
// reads the name, size and checksums. Only the archiving step opens
// the stream.
type CustodialResource interface {
	Name() string
	Size() int64
	Checksums() []*Checksum
	Open() (io.ReadCloser, error)
	ModTime() time.Time
}

// ChecksumFor returns the resource's checksum for the given
// algorithm, or nil if it has none.
func ChecksumFor(resource CustodialResource, algorithm string) *Checksum {
	for _, cs := range resource.Checksums() {
		if cs.Algorithm == algorithm {
			return cs
		}
	}
	return nil
}

// TotalSize returns the sum of the sizes of all resources.
func TotalSize(resources []CustodialResource) int64 {
	total := int64(0)
	for _, r := range resources {
		total += r.Size()
	}
	return total
}

// BytesResource is an in-memory CustodialResource.
type BytesResource struct {
	name      string
	data      []byte
	checksums []*Checksum
	modTime   time.Time
}

// NewBytesResource returns a BytesResource with checksums calculated
// for each of the specified algorithms.
func NewBytesResource(name string, data []byte, algorithms []string) (*BytesResource, error) {
	digests, _, err := util.CalculateDigests(bytes.NewReader(data), algorithms)
	if err != nil {
		return nil, err
	}
	return &BytesResource{
		name:      name,
		data:      data,
		checksums: checksumsFromDigests(algorithms, digests),
		modTime:   time.Now().UTC(),
	}, nil
}

// NewBytesResourceWithChecksums returns a BytesResource that reports
// exactly the checksums given, whether or not they're correct.
func NewBytesResourceWithChecksums(name string, data []byte, checksums []*Checksum) *BytesResource {
	return &BytesResource{
		name:      name,
		data:      data,
		checksums: checksums,
		modTime:   time.Now().UTC(),
	}
}

func (r *BytesResource) Name() string           { return r.name }
func (r *BytesResource) Size() int64            { return int64(len(r.data)) }
func (r *BytesResource) Checksums() []*Checksum { return r.checksums }
func (r *BytesResource) ModTime() time.Time     { return r.modTime }

func (r *BytesResource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(r.data)), nil
}

// checksumsFromDigests keeps the checksums in algorithm order, so
// resources report them the same way every time.
func checksumsFromDigests(algorithms []string, digests map[string]string) []*Checksum {
	checksums := make([]*Checksum, 0, len(algorithms))
	for _, alg := range algorithms {
		checksums = append(checksums, NewChecksum(alg, digests[alg]))
	}
	return checksums
}
