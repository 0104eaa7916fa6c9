package packager

import (
	"bytes"
	"fmt"
	"time"

	"github.com/APTrust/bagit-packager/bagit"
	"github.com/APTrust/bagit-packager/constants"
	"github.com/APTrust/bagit-packager/models/common"
	"github.com/APTrust/bagit-packager/models/packaging"
	"github.com/APTrust/bagit-packager/util"
)

// PackagePath returns the path of a custodial resource inside the
// bag: the payload directory followed by the encoded resource name.
func PackagePath(resource packaging.CustodialResource) string {
	return constants.PayloadPrefix + bagit.EncodePath(resource.Name())
}

// BuildManifests returns one payload manifest for each algorithm, in
// the order given. Entries appear in the same order as resources; they
// are not sorted. If any resource lacks a checksum for any of the
// algorithms, this returns an ErrMissingChecksum error and no manifests.
func BuildManifests(writer *bagit.Writer, resources []packaging.CustodialResource, algorithms []string, now time.Time) ([]packaging.SupplementalResource, error) {
	manifests := make([]packaging.SupplementalResource, 0, len(algorithms))
	for _, alg := range algorithms {
		if !util.StringListContains(constants.DigestAlgorithms, alg) {
			return nil, common.NewError(fmt.Sprintf("Cannot write manifest for algorithm '%s'", alg), common.ErrUnsupportedAlgorithm, true)
		}
		out := &bytes.Buffer{}
		for _, resource := range resources {
			checksum := packaging.ChecksumFor(resource, alg)
			if checksum == nil {
				return nil, common.NewError(fmt.Sprintf("Missing %s checksum for %s", alg, resource.Name()), common.ErrMissingChecksum, true)
			}
			if err := writer.WriteManifestLine(out, checksum.Hex(), PackagePath(resource)); err != nil {
				return nil, err
			}
		}
		manifests = append(manifests, packaging.NewSupplementalResource(
			util.ManifestName(alg),
			"Bag payload manifest for checksum algorithm "+alg,
			out.Bytes(),
			now,
		))
	}
	return manifests, nil
}
