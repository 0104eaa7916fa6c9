package deposit

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/APTrust/bagit-packager/models/common"
	"github.com/APTrust/bagit-packager/util/logger"
	"github.com/minio/minio-go/v7"
	"github.com/op/go-logging"
)

// Target is where the depositor sends a finished tar archive.
type Target interface {
	// Upload copies everything from r to objectName and returns the
	// number of bytes written. Targets that can store metadata with
	// the object do so.
	Upload(ctx context.Context, objectName string, r io.Reader, metadata map[string]string) (int64, error)

	// Location describes where objectName ends up, for logs and
	// results.
	Location(objectName string) string
}

// ObjectPutter is the part of the minio client that S3Target needs.
// *minio.Client satisfies it.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Target uploads archives to an S3 bucket. Metadata is sent with
// every upload, along with the metadata passed to Upload. An S3Target
// may be shared by concurrent deposits.
type S3Target struct {
	Bucket   string
	Metadata map[string]string
	client   ObjectPutter
	logger   *logging.Logger
}

func NewS3Target(client ObjectPutter, bucket string, log *logging.Logger) *S3Target {
	return &S3Target{
		Bucket:   bucket,
		Metadata: make(map[string]string),
		client:   client,
		logger:   log,
	}
}

// Upload streams r to the bucket. The size isn't known in advance, so
// minio uploads it in parts.
func (t *S3Target) Upload(ctx context.Context, objectName string, r io.Reader, metadata map[string]string) (int64, error) {
	userMetadata := make(map[string]string, len(t.Metadata)+len(metadata))
	for key, value := range t.Metadata {
		userMetadata[key] = value
	}
	for key, value := range metadata {
		userMetadata[key] = value
	}
	progress := logger.NewUploadProgressLogger(t.logger, objectName, 0)
	info, err := t.client.PutObject(ctx, t.Bucket, objectName, r, -1, minio.PutObjectOptions{
		ContentType:  "application/x-tar",
		UserMetadata: userMetadata,
		Progress:     progress,
	})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		return 0, common.NewHttpError(
			fmt.Sprintf("Upload of %s failed: %s", objectName, err.Error()),
			err, "PUT", t.Location(objectName), resp.StatusCode)
	}
	t.logger.Infof("Uploaded %s (%d bytes, etag %s)", t.Location(objectName), info.Size, info.ETag)
	return info.Size, nil
}

func (t *S3Target) Location(objectName string) string {
	return fmt.Sprintf("s3://%s/%s", t.Bucket, objectName)
}

// FileTarget writes archives into a local directory.
type FileTarget struct {
	Dir string
}

func NewFileTarget(dir string) *FileTarget {
	return &FileTarget{Dir: dir}
}

func (t *FileTarget) Upload(ctx context.Context, objectName string, r io.Reader, metadata map[string]string) (int64, error) {
	filePath := t.Location(objectName)
	file, err := os.Create(filePath)
	if err != nil {
		return 0, common.IOError(err, "Cannot create %s", filePath)
	}
	n, err := io.Copy(file, r)
	closeErr := file.Close()
	if err != nil {
		return n, common.IOError(err, "Cannot write %s", filePath)
	}
	if closeErr != nil {
		return n, common.IOError(closeErr, "Cannot close %s", filePath)
	}
	return n, nil
}

func (t *FileTarget) Location(objectName string) string {
	return filepath.Join(t.Dir, objectName)
}
