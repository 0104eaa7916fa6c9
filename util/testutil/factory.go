package testutil

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/APTrust/bagit-packager/bagit"
	"github.com/APTrust/bagit-packager/constants"
	"github.com/APTrust/bagit-packager/models/packaging"
)

var Bloomsday, _ = time.Parse(time.RFC3339, "1904-06-16T15:04:05Z")

// Algorithms are the digests computed for test resources.
var Algorithms = []string{constants.AlgMd5, constants.AlgSha256}

// Resource returns an in-memory custodial resource with md5 and sha256
// checksums. It panics if the checksums can't be computed.
func Resource(name, content string) packaging.CustodialResource {
	resource, err := packaging.NewBytesResource(name, []byte(content), Algorithms)
	if err != nil {
		panic(err)
	}
	return resource
}

// Resources returns three custodial resources, one in a subdirectory.
func Resources() []packaging.CustodialResource {
	return []packaging.CustodialResource{
		Resource("hello.txt", "Hello, world!\n"),
		Resource("images/blank.gif", "GIF89a"),
		Resource("empty.txt", ""),
	}
}

func Submission() *packaging.Submission {
	return &packaging.Submission{
		ID:                 "https://example.com/deposits/1234",
		SourceOrganization: "Example University",
		SubmitterURI:       "https://example.com/users/jdoe",
		SubmitterName:      "Jan Doe",
		SubmitterEmail:     "jdoe@example.com",
		SubmittedDate:      Bloomsday,
		PublisherID:        "example-pub-01",
	}
}

// WriteBag explodes a bag under dir. Each custodial resource is
// written under data/ using its encoded name, and each supplemental
// resource at its package path.
func WriteBag(dir string, resources []packaging.CustodialResource, supplemental []packaging.SupplementalResource) error {
	for _, resource := range resources {
		src, err := resource.Open()
		if err != nil {
			return err
		}
		err = writeFile(filepath.Join(dir, filepath.FromSlash(constants.PayloadPrefix+bagit.EncodePath(resource.Name()))), src)
		src.Close()
		if err != nil {
			return err
		}
	}
	for _, resource := range supplemental {
		err := writeFile(filepath.Join(dir, filepath.FromSlash(resource.PackagePath())), resource.Open())
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFile(filePath string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	_, err = io.Copy(file, src)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return err
}
