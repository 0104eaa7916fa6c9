package packager

import (
	"bytes"
	"time"

	"github.com/APTrust/bagit-packager/bagit"
	"github.com/APTrust/bagit-packager/constants"
	"github.com/APTrust/bagit-packager/models/packaging"
)

// BuildDeclaration returns bagit.txt, which contains exactly two tags:
// the BagIt version and the writer's tag file encoding.
func BuildDeclaration(writer *bagit.Writer, version string, now time.Time) (packaging.SupplementalResource, error) {
	out := &bytes.Buffer{}
	if err := writer.WriteTagLine(out, constants.LabelBagItVersion, version); err != nil {
		return nil, err
	}
	if err := writer.WriteTagLine(out, constants.LabelTagFileEncoding, writer.Encoding()); err != nil {
		return nil, err
	}
	return packaging.NewSupplementalResource(constants.BagDeclarationFile, "Bag Declaration", out.Bytes(), now), nil
}
