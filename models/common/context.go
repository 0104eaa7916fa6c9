package common

import (
	"fmt"

	"github.com/APTrust/bagit-packager/util/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/op/go-logging"
)

// Context carries the config, logger, and S3 client shared by the
// packager apps. A Context may be shared across goroutines. The
// packager.Assembler it is handed to may not.
type Context struct {
	Config   *Config
	Logger   *logging.Logger
	S3Client *minio.Client
}

// NewContext loads config from the environment and panics if anything
// goes wrong.
func NewContext() *Context {
	config := NewConfig()
	_logger := getLogger(config)
	return &Context{
		Config:   config,
		Logger:   _logger,
		S3Client: getS3Client(config),
	}
}

// NewContextWithLogger returns a Context for the given config and
// logger. This does not create an S3 client unless the config has
// an S3 host.
func NewContextWithLogger(config *Config, log *logging.Logger) *Context {
	return &Context{
		Config:   config,
		Logger:   log,
		S3Client: getS3Client(config),
	}
}

func getLogger(config *Config) *logging.Logger {
	log, _ := logger.InitLogger(config.LogDir, config.LogLevel)
	return log
}

// getS3Client returns nil when no S3 host is configured. Apps that
// deposit bags must check for that.
func getS3Client(config *Config) *minio.Client {
	creds := config.S3Credentials
	if creds.Host == "" {
		return nil
	}
	client, err := minio.New(
		creds.Host,
		&minio.Options{
			Creds:  credentials.NewStaticV4(creds.KeyID, creds.SecretKey, ""),
			Secure: config.S3UseSSL,
		})
	if err != nil {
		panic(fmt.Sprintf("Could not initialize S3 client for %s: %v", creds.Host, err))
	}
	return client
}
