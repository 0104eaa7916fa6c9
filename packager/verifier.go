package packager

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/APTrust/bagit-packager/bagit"
	"github.com/APTrust/bagit-packager/constants"
	"github.com/APTrust/bagit-packager/models/common"
	"github.com/APTrust/bagit-packager/models/packaging"
	"github.com/APTrust/bagit-packager/util"
	"github.com/op/go-logging"
)

// Verifier checks that an exploded bag on disk holds exactly the
// expected custodial resources, with valid manifests and tag files.
type Verifier struct {
	ExpectedVersion  string
	ExpectedEncoding string
	Logger           *logging.Logger
	reader           *bagit.Reader
}

// NewVerifier returns a Verifier that reads tag files in
// expectedEncoding and requires bagit.txt to declare expectedVersion
// and expectedEncoding.
func NewVerifier(logger *logging.Logger, expectedVersion, expectedEncoding string) (*Verifier, error) {
	reader, err := bagit.NewReader(expectedEncoding)
	if err != nil {
		return nil, err
	}
	_, canonicalName, err := bagit.LookupEncoding(expectedEncoding)
	if err != nil {
		return nil, err
	}
	return &Verifier{
		ExpectedVersion:  expectedVersion,
		ExpectedEncoding: canonicalName,
		Logger:           logger,
		reader:           reader,
	}, nil
}

// Verify checks the bag at bagRoot against the expected resources,
// using one payload manifest per algorithm. It returns an
// ErrVerificationMismatch error describing the first problem found.
func (v *Verifier) Verify(expected []packaging.CustodialResource, bagRoot string, algorithms []string) error {
	if len(algorithms) == 0 {
		return mismatch("At least one algorithm is required to verify %s", bagRoot)
	}
	dataDir := filepath.Join(bagRoot, constants.PayloadDir)
	if !util.IsDirectory(dataDir) {
		return mismatch("Payload directory %s does not exist", dataDir)
	}
	payloadFiles, err := listPayloadFiles(dataDir)
	if err != nil {
		return err
	}
	if err = v.verifyPayloadMapping(expected, payloadFiles); err != nil {
		return err
	}
	for _, alg := range algorithms {
		if err = v.verifyManifest(expected, bagRoot, alg); err != nil {
			return err
		}
	}
	if err = v.verifyDeclaration(bagRoot); err != nil {
		return err
	}
	if err = v.verifyBagInfo(bagRoot); err != nil {
		return err
	}
	v.logUncheckedManifests(bagRoot, algorithms)
	v.Logger.Infof("Bag at %s is valid: %d payload files, algorithms %v", bagRoot, len(payloadFiles), algorithms)
	return nil
}

// listPayloadFiles returns the slash-separated paths of all regular
// files under dataDir, relative to dataDir.
func listPayloadFiles(dataDir string) ([]string, error) {
	files := make([]string, 0)
	err := filepath.WalkDir(dataDir, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		relPath, err := filepath.Rel(dataDir, filePath)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, common.IOError(err, "Cannot list payload files in %s", dataDir)
	}
	return files, nil
}

// verifyPayloadMapping requires every expected resource to have a
// payload file with the same encoded trailing filename, and vice versa.
func (v *Verifier) verifyPayloadMapping(expected []packaging.CustodialResource, payloadFiles []string) error {
	onDisk := make(map[string]bool, len(payloadFiles))
	for _, f := range payloadFiles {
		onDisk[path.Base(f)] = true
	}
	wanted := make(map[string]bool, len(expected))
	for _, resource := range expected {
		baseName := path.Base(bagit.EncodePath(resource.Name()))
		wanted[baseName] = true
		if !onDisk[baseName] {
			return mismatch("Custodial resource %s has no payload file", resource.Name())
		}
	}
	for _, f := range payloadFiles {
		if !wanted[path.Base(f)] {
			return mismatch("Payload file %s does not match any custodial resource", f)
		}
	}
	return nil
}

func (v *Verifier) verifyManifest(expected []packaging.CustodialResource, bagRoot, alg string) error {
	manifestName := util.ManifestName(alg)
	manifestAlg, err := util.AlgorithmFromManifestName(manifestName)
	if err != nil || manifestAlg != alg {
		return mismatch("Cannot verify with algorithm '%s'", alg)
	}
	manifestPath := filepath.Join(bagRoot, manifestName)
	file, err := os.Open(manifestPath)
	if err != nil {
		return mismatch("Cannot open manifest %s: %v", manifestName, err)
	}
	manifest, err := v.reader.ParseManifest(file)
	file.Close()
	if err != nil {
		return mismatch("Cannot parse manifest %s: %v", manifestName, err)
	}

	wanted := make(map[string]bool, len(expected))
	for _, resource := range expected {
		packagePath := PackagePath(resource)
		wanted[packagePath] = true
		if _, ok := manifest.Digests[packagePath]; !ok {
			return mismatch("Manifest %s has no entry for %s", manifestName, packagePath)
		}
	}
	// Keys are package paths as written, so they must be clean and
	// name exactly the expected payload files.
	for _, key := range manifest.Paths {
		if path.Clean(key) != key || !strings.HasPrefix(key, constants.PayloadPrefix) {
			return mismatch("Manifest %s lists %s outside the payload directory", manifestName, key)
		}
		if !wanted[key] {
			return mismatch("Manifest %s lists %s, which is not a custodial resource", manifestName, key)
		}
	}
	if len(manifest.Paths) != len(wanted) {
		return mismatch("Manifest %s has %d entries, expected %d", manifestName, len(manifest.Paths), len(wanted))
	}
	for _, key := range manifest.Paths {
		physicalPath := filepath.Join(bagRoot, filepath.FromSlash(key))
		digest, err := digestFile(physicalPath, alg)
		if err != nil {
			return mismatch("Manifest %s lists %s, which cannot be read: %v", manifestName, key, err)
		}
		if digest != manifest.Digests[key] {
			return mismatch("%s digest for %s is %s, but manifest says %s", alg, key, digest, manifest.Digests[key])
		}
		v.Logger.Debugf("%s %s ok", alg, key)
	}
	return nil
}

func (v *Verifier) verifyDeclaration(bagRoot string) error {
	file, err := os.Open(filepath.Join(bagRoot, constants.BagDeclarationFile))
	if err != nil {
		return mismatch("Cannot open %s: %v", constants.BagDeclarationFile, err)
	}
	defer file.Close()
	declaration, err := v.reader.ReadBagDeclaration(file)
	if err != nil {
		return mismatch("Cannot parse %s: %v", constants.BagDeclarationFile, err)
	}
	if declaration[constants.LabelBagItVersion] != v.ExpectedVersion {
		return mismatch("%s is '%s', expected '%s'", constants.LabelBagItVersion, declaration[constants.LabelBagItVersion], v.ExpectedVersion)
	}
	if declaration[constants.LabelTagFileEncoding] != v.ExpectedEncoding {
		return mismatch("%s is '%s', expected '%s'", constants.LabelTagFileEncoding, declaration[constants.LabelTagFileEncoding], v.ExpectedEncoding)
	}
	return nil
}

func (v *Verifier) verifyBagInfo(bagRoot string) error {
	file, err := os.Open(filepath.Join(bagRoot, constants.BagInfoFile))
	if err != nil {
		return mismatch("Cannot open %s: %v", constants.BagInfoFile, err)
	}
	defer file.Close()
	tags, err := v.reader.ParseTagFile(file, constants.BagInfoFile)
	if err != nil {
		return mismatch("Cannot parse %s: %v", constants.BagInfoFile, err)
	}
	if len(tags) == 0 {
		return mismatch("%s has no tags", constants.BagInfoFile)
	}
	return nil
}

// logUncheckedManifests notes manifests in the bag that weren't
// verified. Tag manifests are never checked.
func (v *Verifier) logUncheckedManifests(bagRoot string, algorithms []string) {
	entries, err := os.ReadDir(bagRoot)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if util.LooksLikeTagManifest(name) {
			v.Logger.Infof("Tag manifest %s in %s was not checked", name, bagRoot)
		} else if util.LooksLikeManifest(name) {
			alg, err := util.AlgorithmFromManifestName(name)
			if err != nil || !util.StringListContains(algorithms, alg) {
				v.Logger.Infof("Manifest %s in %s was not checked", name, bagRoot)
			}
		}
	}
}

func digestFile(filePath, alg string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	digests, _, err := util.CalculateDigests(file, []string{alg})
	if err != nil {
		return "", err
	}
	return digests[alg], nil
}

func mismatch(format string, args ...interface{}) error {
	return common.NewError(fmt.Sprintf(format, args...), common.ErrVerificationMismatch, true)
}
