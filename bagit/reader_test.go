package bagit_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/APTrust/bagit-packager/bagit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tagLabels = []string{
	"Source-Organization",
	"Bagging-Date",
	"Bag-Count",
	"Internal-Sender-Description",
	"Internal-Sender-Identifier",
}
var tagValues = []string{
	"virginia.edu",
	"2014-04-14T11:55:26.17-0400",
	"1 of 1",
	"so much depends upon a red wheel barrow glazed with rain water beside the white chickens",
	"uva-internal-id-0001",
}

const bagInfo = `Source-Organization: virginia.edu
Bagging-Date: 2014-04-14T11:55:26.17-0400

Bag-Count: 1 of 1
Internal-Sender-Description: so much depends upon a red wheel barrow
  glazed with rain water
	beside the white chickens
Internal-Sender-Identifier:uva-internal-id-0001
`

func newReader(t *testing.T) *bagit.Reader {
	reader, err := bagit.NewReader("UTF-8")
	require.Nil(t, err)
	return reader
}

func TestParseTagFile(t *testing.T) {
	tags, err := newReader(t).ParseTagFile(strings.NewReader(bagInfo), "bag-info.txt")
	require.Nil(t, err)
	require.Equal(t, len(tagLabels), len(tags))
	for i, tag := range tags {
		assert.Equal(t, "bag-info.txt", tag.SourceFile)
		assert.Equal(t, tagLabels[i], tag.Label)
		assert.Equal(t, tagValues[i], tag.Value)
	}
}

func TestParseTagFileCRLF(t *testing.T) {
	tags, err := newReader(t).ParseTagFile(strings.NewReader("a-tag: some text\r\nanother-tag: more\r\n"), "bag-info.txt")
	require.Nil(t, err)
	require.Equal(t, 2, len(tags))
	assert.Equal(t, "some text", tags[0].Value)
	assert.Equal(t, "more", tags[1].Value)
}

func TestParseTagFileMalformed(t *testing.T) {
	_, err := newReader(t).ParseTagFile(strings.NewReader("first tag: important\nthis line has no colon\n"), "bag-info.txt")
	assert.NotNil(t, err)

	_, err = newReader(t).ParseTagFile(strings.NewReader("  starts with a continuation\n"), "bag-info.txt")
	assert.NotNil(t, err)
}

func TestParseTagFileLatin1(t *testing.T) {
	reader, err := bagit.NewReader("ISO-8859-1")
	require.Nil(t, err)
	tags, err := reader.ParseTagFile(bytes.NewReader([]byte("Contact-Name: Ren\xe9\n")), "bag-info.txt")
	require.Nil(t, err)
	require.Equal(t, 1, len(tags))
	assert.Equal(t, "René", tags[0].Value)
}

func TestReadBagDeclaration(t *testing.T) {
	decl := "BagIt-Version: 1.0\nTag-File-Character-Encoding: UTF-8\n"
	entries, err := newReader(t).ReadBagDeclaration(strings.NewReader(decl))
	require.Nil(t, err)
	assert.Equal(t, 2, len(entries))
	assert.Equal(t, "1.0", entries["BagIt-Version"])
	assert.Equal(t, "UTF-8", entries["Tag-File-Character-Encoding"])
}

func TestParseManifest(t *testing.T) {
	data := "248fac506a5c46b3c760312b99827b6fb5df4698d6cf9a9cdc4c54746728ab99  data/datastream-DC\n" +
		"8E3634D207017F3CFC8C97545B758C9BCD8A7F772448D60E196663AC4B62456A  data/datastream MARC\n" +
		"\n" +
		"299e1c23e398ec6699976cae63ef08167201500fa64bcf18062111e0c81d6a13 data/datastream-RELS-EXT\n" +
		"cf9cbce80062932e10ee9cd70ec05ebc24019deddfea4e54b8788decd28b4bc7  data/foo%0Abar\r\n"
	manifest, err := newReader(t).ParseManifest(strings.NewReader(data))
	require.Nil(t, err)
	expectedPaths := []string{
		"data/datastream-DC",
		"data/datastream MARC",
		"data/datastream-RELS-EXT",
		"data/foo%0Abar\r",
	}
	assert.Equal(t, expectedPaths, manifest.Paths)
	assert.Equal(t, "8e3634d207017f3cfc8c97545b758c9bcd8a7f772448d60e196663ac4b62456a", manifest.Digests["data/datastream MARC"])
	assert.Equal(t, "cf9cbce80062932e10ee9cd70ec05ebc24019deddfea4e54b8788decd28b4bc7", manifest.Digests["data/foo%0Abar\r"])
}

func TestParseManifestMalformed(t *testing.T) {
	badManifests := []string{
		// hash only
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824\n",
		// not hex
		"thisisnothexdata0000000000000000 data/hello1\n",
		// duplicate path
		"5d41402abc4b2a76b9719d911017c592  data/hello1\n5d41402abc4b2a76b9719d911017c592  data/hello1\n",
		// leading whitespace, no digest
		"  data/hello1\n",
	}
	for _, data := range badManifests {
		_, err := newReader(t).ParseManifest(strings.NewReader(data))
		assert.NotNil(t, err, data)
	}
}

// Manifest lines written by Writer must come back exactly as they
// went in, including paths that end in a carriage return.
func TestManifestRoundTrip(t *testing.T) {
	w, err := bagit.NewWriter("UTF-8")
	require.Nil(t, err)
	paths := []string{
		"data/" + bagit.EncodePath("plain.txt"),
		"data/" + bagit.EncodePath("100%.txt"),
		"data/" + bagit.EncodePath("two\nlines"),
		"data/" + bagit.EncodePath(" leading space"),
		"data/" + bagit.EncodePath("trailing-cr\r"),
	}
	out := &bytes.Buffer{}
	for _, p := range paths {
		require.Nil(t, w.WriteManifestLine(out, "abc123", p))
	}
	manifest, err := newReader(t).ParseManifest(out)
	require.Nil(t, err)
	assert.Equal(t, paths, manifest.Paths)
}
