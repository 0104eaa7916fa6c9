package packager

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/APTrust/bagit-packager/constants"
	"github.com/APTrust/bagit-packager/models/common"
	"github.com/APTrust/bagit-packager/models/packaging"
)

// TemplateSource opens the bag-info.txt template. The assembler
// calls it once, from Finish, and closes what it returns.
type TemplateSource func() (io.ReadCloser, error)

// TemplateFile returns a TemplateSource that reads the file at path.
func TemplateFile(path string) TemplateSource {
	return func() (io.ReadCloser, error) {
		return os.Open(path)
	}
}

// TemplateString returns a TemplateSource that reads text.
func TemplateString(text string) TemplateSource {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(text)), nil
	}
}

// PackageOptions are the settings for a single package build. The
// Assembler copies them when it's created, so changes made by the
// caller afterward have no effect on a build in progress.
type PackageOptions struct {
	// Algorithms lists the payload manifests to write, in order.
	// Defaults to sha512.
	Algorithms []string

	// BagItVersion defaults to 1.0.
	BagItVersion string

	// TagFileEncoding is the IANA name of the character set for tag
	// files and manifests. Defaults to UTF-8.
	TagFileEncoding string

	// BagInfoTemplate is required.
	BagInfoTemplate TemplateSource

	// Parameterizer renders the template. Defaults to a
	// TemplateParameterizer.
	Parameterizer Parameterizer

	// Submission describes the deposit. May be nil.
	Submission *packaging.Submission

	// Now sets the timestamp on supplemental resources and the
	// bagging date. Zero means the time Finish is called.
	Now time.Time
}

// OptionsFromConfig returns PackageOptions with the algorithms,
// encoding and bag-info template from config.
func OptionsFromConfig(config *common.Config, submission *packaging.Submission) PackageOptions {
	return PackageOptions{
		Algorithms:      config.ManifestAlgorithms,
		BagItVersion:    constants.BagItVersion,
		TagFileEncoding: config.TagFileEncoding,
		BagInfoTemplate: TemplateFile(config.BagInfoTemplate),
		Submission:      submission,
	}
}

// copyWithDefaults returns a deep copy of opts with defaults filled in.
func (opts PackageOptions) copyWithDefaults() PackageOptions {
	c := opts
	c.Algorithms = make([]string, len(opts.Algorithms))
	copy(c.Algorithms, opts.Algorithms)
	if len(c.Algorithms) == 0 {
		c.Algorithms = []string{constants.DefaultAlgorithm}
	}
	if c.BagItVersion == "" {
		c.BagItVersion = constants.BagItVersion
	}
	if c.TagFileEncoding == "" {
		c.TagFileEncoding = constants.DefaultTagEncoding
	}
	if c.Parameterizer == nil {
		c.Parameterizer = &TemplateParameterizer{}
	}
	if opts.Submission != nil {
		submission := *opts.Submission
		c.Submission = &submission
	}
	return c
}
