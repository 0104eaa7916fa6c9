package deposit

import (
	"archive/tar"
	"fmt"
	"hash"
	"io"
	"path"
	"strings"

	"github.com/APTrust/bagit-packager/models/common"
	"github.com/APTrust/bagit-packager/util"
)

// TarPipeWriter writes a tar file through a pipe to any destination
// that accepts an io.Reader. This lets the depositor stream a bag
// straight to S3 without staging it on disk.
type TarPipeWriter struct {
	pipeReader  *io.PipeReader
	pipeWriter  *io.PipeWriter
	tarWriter   *tar.Writer
	directories map[string]bool
}

// NewTarPipeWriter creates a new TarPipeWriter.
func NewTarPipeWriter() *TarPipeWriter {
	pipeReader, pipeWriter := io.Pipe()
	return &TarPipeWriter{
		pipeReader:  pipeReader,
		pipeWriter:  pipeWriter,
		tarWriter:   tar.NewWriter(pipeWriter),
		directories: make(map[string]bool),
	}
}

// AddFile writes the tar header and the data from r into the pipe,
// along with directory entries for any parent directories not yet
// written. It returns digests of the data for each of the algorithms.
func (w *TarPipeWriter) AddFile(header *tar.Header, r io.Reader, algorithms []string) (digests map[string]string, err error) {
	if err = w.ValidateHeader(header); err != nil {
		return nil, err
	}
	if err = w.EnsureDirectoryEntry(path.Dir(header.Name) + "/"); err != nil {
		return nil, err
	}
	if err = w.tarWriter.WriteHeader(header); err != nil {
		return nil, common.IOError(err, "Cannot write tar header for %s", header.Name)
	}

	hashes := make(map[string]hash.Hash, len(algorithms))
	writers := []io.Writer{w.tarWriter}
	for _, alg := range algorithms {
		h, err := util.NewHash(alg)
		if err != nil {
			return nil, err
		}
		hashes[alg] = h
		writers = append(writers, h)
	}

	bytesWritten, err := io.Copy(io.MultiWriter(writers...), r)
	if err != nil {
		return nil, common.IOError(err, "Error copying %s into tar archive", header.Name)
	}
	if bytesWritten != header.Size {
		return nil, common.IOError(io.ErrShortWrite, "AddFile copied only %d of %d bytes for file %s", bytesWritten, header.Size, header.Name)
	}

	digests = make(map[string]string, len(algorithms))
	for alg, h := range hashes {
		digests[alg] = fmt.Sprintf("%x", h.Sum(nil))
	}
	return digests, nil
}

// EnsureDirectoryEntry writes a tar header for dirname and each of its
// parents, unless they've already been written. Each directory gets
// exactly one entry.
func (w *TarPipeWriter) EnsureDirectoryEntry(dirname string) error {
	dirname = strings.TrimSuffix(dirname, "/")
	if dirname == "" || dirname == "." || w.directories[dirname] {
		return nil
	}
	if err := w.EnsureDirectoryEntry(path.Dir(dirname)); err != nil {
		return err
	}
	header := &tar.Header{
		Name:     dirname + "/",
		Typeflag: tar.TypeDir,
		Mode:     0755,
	}
	if err := w.tarWriter.WriteHeader(header); err != nil {
		return common.IOError(err, "Cannot write tar directory entry for %s", dirname)
	}
	w.directories[dirname] = true
	return nil
}

// ValidateHeader returns an error if the tar header is missing a name
// or if its size is less than zero.
func (w *TarPipeWriter) ValidateHeader(header *tar.Header) error {
	if header.Name == "" {
		return fmt.Errorf("Tar header name is missing.")
	}
	// Zero-length payload files are legal.
	if header.Size < 0 {
		return fmt.Errorf("Tar header size cannot be negative for %s.", header.Name)
	}
	return nil
}

// GetReader returns the io.PipeReader. Whatever is written into the
// tar archive by AddFile comes out through this reader.
func (w *TarPipeWriter) GetReader() *io.PipeReader {
	return w.pipeReader
}

// Finish closes the tar writer, flushing remaining data, then closes
// the pipe writer so the reader sees EOF. Without this, the reading
// end hangs forever.
func (w *TarPipeWriter) Finish() error {
	tarErr := w.tarWriter.Close()
	pipeErr := w.pipeWriter.Close()
	if tarErr != nil {
		return common.IOError(tarErr, "Cannot close tar writer")
	}
	return pipeErr
}

// Abort closes the pipe with err, so the reader fails instead of
// seeing a truncated archive as complete.
func (w *TarPipeWriter) Abort(err error) {
	w.pipeWriter.CloseWithError(err)
}
