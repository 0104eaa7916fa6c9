package util

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"

	"github.com/APTrust/bagit-packager/constants"
)

// NewHash returns a hash.Hash for the named algorithm.
func NewHash(alg string) (hash.Hash, error) {
	switch alg {
	case constants.AlgMd5:
		return md5.New(), nil
	case constants.AlgSha1:
		return sha1.New(), nil
	case constants.AlgSha256:
		return sha256.New(), nil
	case constants.AlgSha512:
		return sha512.New(), nil
	}
	return nil, fmt.Errorf("No hash implementation for algorithm '%s'", alg)
}

// CalculateDigests reads r to the end, computing a digest for each of
// the specified algorithms in a single pass. It returns a map of
// algorithm name to lowercase hex digest and the number of bytes read.
func CalculateDigests(r io.Reader, algorithms []string) (digests map[string]string, bytesRead int64, err error) {
	digests = make(map[string]string, len(algorithms))
	hashes := make(map[string]hash.Hash, len(algorithms))
	writers := make([]io.Writer, 0, len(algorithms))
	for _, alg := range algorithms {
		h, err := NewHash(alg)
		if err != nil {
			return digests, 0, err
		}
		hashes[alg] = h
		writers = append(writers, h)
	}
	multiWriter := io.MultiWriter(writers...)
	bytesRead, err = io.Copy(multiWriter, r)
	if err != nil {
		return digests, bytesRead, err
	}
	for alg, h := range hashes {
		digests[alg] = fmt.Sprintf("%x", h.Sum(nil))
	}
	return digests, bytesRead, nil
}
