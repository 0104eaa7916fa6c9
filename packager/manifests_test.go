package packager_test

import (
	"io"
	"strings"
	"testing"

	"github.com/APTrust/bagit-packager/bagit"
	"github.com/APTrust/bagit-packager/constants"
	"github.com/APTrust/bagit-packager/models/common"
	"github.com/APTrust/bagit-packager/models/packaging"
	"github.com/APTrust/bagit-packager/packager"
	"github.com/APTrust/bagit-packager/util/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, resource packaging.SupplementalResource) string {
	data, err := io.ReadAll(resource.Open())
	require.Nil(t, err)
	return string(data)
}

func utf8Writer(t *testing.T) *bagit.Writer {
	writer, err := bagit.NewWriter(constants.DefaultTagEncoding)
	require.Nil(t, err)
	return writer
}

func TestPackagePath(t *testing.T) {
	assert.Equal(t, "data/hello.txt", packager.PackagePath(testutil.Resource("hello.txt", "")))
	assert.Equal(t, "data/images/blank.gif", packager.PackagePath(testutil.Resource("images/blank.gif", "")))
	assert.Equal(t, "data/100%25%0Dsure\n", packager.PackagePath(testutil.Resource("100%\rsure\n", "")))
}

func TestBuildManifests(t *testing.T) {
	resources := testutil.Resources()
	manifests, err := packager.BuildManifests(utf8Writer(t), resources, testutil.Algorithms, testutil.Bloomsday)
	require.Nil(t, err)
	require.Len(t, manifests, 2)

	for i, alg := range testutil.Algorithms {
		manifest := manifests[i]
		assert.Equal(t, "manifest-"+alg+".txt", manifest.PackagePath())
		assert.Equal(t, "Bag payload manifest for checksum algorithm "+alg, manifest.Description())
		assert.Equal(t, testutil.Bloomsday, manifest.LastModified())

		content := readAll(t, manifest)
		assert.EqualValues(t, len(content), manifest.ContentLength())
		lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
		require.Len(t, lines, len(resources))

		// Entries follow the order of the resources, not sorted.
		for j, resource := range resources {
			expected := packaging.ChecksumFor(resource, alg).Hex() + "  data/" + resource.Name()
			assert.Equal(t, expected, lines[j])
		}
	}
}

func TestBuildManifestsNoResources(t *testing.T) {
	manifests, err := packager.BuildManifests(utf8Writer(t), nil, []string{constants.AlgSha512}, testutil.Bloomsday)
	require.Nil(t, err)
	require.Len(t, manifests, 1)
	assert.Equal(t, "manifest-sha512.txt", manifests[0].PackagePath())
	assert.EqualValues(t, 0, manifests[0].ContentLength())
}

func TestBuildManifestsMissingChecksum(t *testing.T) {
	resources := testutil.Resources()
	// sha1 was never computed for the test resources
	manifests, err := packager.BuildManifests(utf8Writer(t), resources, []string{constants.AlgMd5, constants.AlgSha1}, testutil.Bloomsday)
	require.NotNil(t, err)
	assert.Nil(t, manifests)
	assert.ErrorIs(t, err, common.ErrMissingChecksum)
	assert.Contains(t, err.Error(), "sha1")
	assert.Contains(t, err.Error(), "hello.txt")
}

func TestBuildManifestsUnsupportedAlgorithm(t *testing.T) {
	_, err := packager.BuildManifests(utf8Writer(t), testutil.Resources(), []string{"crc32"}, testutil.Bloomsday)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedAlgorithm)
}

func TestBuildDeclaration(t *testing.T) {
	declaration, err := packager.BuildDeclaration(utf8Writer(t), constants.BagItVersion, testutil.Bloomsday)
	require.Nil(t, err)
	assert.Equal(t, "bagit.txt", declaration.PackagePath())
	assert.Equal(t, "Bag Declaration", declaration.Description())
	content := readAll(t, declaration)
	assert.Equal(t, "BagIt-Version: 1.0\nTag-File-Character-Encoding: UTF-8\n", content)
	assert.Equal(t, 2, strings.Count(content, "\n"))
}

func TestBuildDeclarationLatin1(t *testing.T) {
	writer, err := bagit.NewWriter("ISO-8859-1")
	require.Nil(t, err)
	declaration, err := packager.BuildDeclaration(writer, constants.BagItVersion, testutil.Bloomsday)
	require.Nil(t, err)
	assert.Equal(t, "BagIt-Version: 1.0\nTag-File-Character-Encoding: "+writer.Encoding()+"\n", readAll(t, declaration))
}
