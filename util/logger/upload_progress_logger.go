package logger

import (
	"github.com/dustin/go-humanize"
	"github.com/op/go-logging"
)

// UploadProgressLogger logs the progress of a minio PutObject call.
// Pass it as PutObjectOptions.Progress. Minio reads from it once per
// chunk uploaded; the data itself is ignored.
type UploadProgressLogger struct {
	logger      *logging.Logger
	chunkNumber int
	totalBytes  int64
	lastLogged  int64
	interval    int64
	prefix      string
}

const _100MB = int64(104857600)

// NewUploadProgressLogger creates a new UploadProgressLogger that
// writes a line after every interval bytes. If interval is less than
// one, it defaults to 100 MB. Bags streamed through a pipe have no
// known size up front, so progress is reported in bytes, not percent.
func NewUploadProgressLogger(logger *logging.Logger, prefix string, interval int64) *UploadProgressLogger {
	if interval < 1 {
		interval = _100MB
	}
	return &UploadProgressLogger{
		logger:      logger,
		prefix:      prefix,
		chunkNumber: 1,
		interval:    interval,
	}
}

// Read fulfills the io.Reader interface required by minio's
// progress option.
func (e *UploadProgressLogger) Read(p []byte) (n int, err error) {
	e.totalBytes += int64(len(p))
	if e.shouldPrint() {
		e.logger.Infof("%s : chunk %d, %s uploaded",
			e.prefix, e.chunkNumber, humanize.IBytes(uint64(e.totalBytes)))
		e.lastLogged = e.totalBytes
	}
	e.chunkNumber++
	return len(p), nil
}

// TotalBytes returns the number of bytes reported so far.
func (e *UploadProgressLogger) TotalBytes() int64 {
	return e.totalBytes
}

func (e *UploadProgressLogger) shouldPrint() bool {
	return e.totalBytes-e.lastLogged >= e.interval
}
