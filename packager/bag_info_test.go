package packager_test

import (
	"bytes"
	"io"
	"os"
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

type fixedParameterizer struct {
	output string
	model  *packaging.BagModel
}

func (p *fixedParameterizer) Parameterize(template io.Reader, model *packaging.BagModel) (string, error) {
	p.model = model
	return p.output, nil
}

func TestNewBagModel(t *testing.T) {
	model := packager.NewBagModel(testutil.Resources(), testutil.Submission(), constants.BagItVersion, testutil.Bloomsday)
	assert.Equal(t, "1.0", model.BagItVersion)
	assert.EqualValues(t, 20, model.BagSizeBytes)
	assert.Equal(t, "20", model.BagSizeBytesFormatted)
	assert.Equal(t, "20 bytes", model.BagSizeHumanReadable)
	assert.Equal(t, "1904-06-16", model.BaggingDate)
	assert.EqualValues(t, 3, model.CustodialFileCount)
	assert.Equal(t, "20.3", model.PayloadOxum)
	assert.Equal(t, "Example University", model.SourceOrganization)
	assert.Equal(t, "https://example.com/deposits/1234", model.SubmissionURI)
	assert.Equal(t, "https://example.com/users/jdoe", model.SubmissionUserURI)
	assert.Equal(t, "Jan Doe", model.SubmissionUserFullName)
	assert.Equal(t, "jdoe@example.com", model.SubmissionUserEmail)
	assert.Equal(t, "19040616T150405Z", model.SubmissionDate)
	assert.Equal(t, "example-pub-01", model.PublisherID)
}

func TestNewBagModelLargePayload(t *testing.T) {
	resources := []packaging.CustodialResource{
		testutil.Resource("a.bin", strings.Repeat("a", 2048)),
		testutil.Resource("b.bin", strings.Repeat("b", 2047)),
	}
	model := packager.NewBagModel(resources, nil, constants.BagItVersion, testutil.Bloomsday)
	assert.Equal(t, "4,095", model.BagSizeBytesFormatted)
	assert.Equal(t, "3 KiB", model.BagSizeHumanReadable)
	assert.Equal(t, "4095.2", model.PayloadOxum)
	assert.Nil(t, model.Submission)
	assert.Empty(t, model.SubmissionDate)
}

func TestComposeBagInfo(t *testing.T) {
	tmpl, err := os.Open(testutil.PathToBagInfoTemplate())
	require.Nil(t, err)
	defer tmpl.Close()

	bagInfo, err := packager.ComposeBagInfo(testutil.Resources(), testutil.Submission(), tmpl, &packager.TemplateParameterizer{}, utf8Writer(t), constants.BagItVersion, testutil.Bloomsday)
	require.Nil(t, err)
	assert.Equal(t, "bag-info.txt", bagInfo.PackagePath())
	assert.Equal(t, "Bag Metadata", bagInfo.Description())

	reader, err := bagit.NewReader(constants.DefaultTagEncoding)
	require.Nil(t, err)
	tags, err := reader.ParseTagFile(bagInfo.Open(), constants.BagInfoFile)
	require.Nil(t, err)
	values := make(map[string]string)
	for _, tag := range tags {
		values[tag.Label] = tag.Value
	}
	assert.Equal(t, "Example University", values["Source-Organization"])
	assert.Equal(t, "https://example.com/deposits/1234", values["External-Identifier"])
	assert.Equal(t, "1904-06-16", values["Bagging-Date"])
	assert.Equal(t, "20.3", values["Payload-Oxum"])
	assert.Equal(t, "20 bytes", values["Bag-Size"])
	assert.Equal(t, "3", values["Custodial-File-Count"])
	assert.Equal(t, "19040616T150405Z", values["Submission-Date"])
	assert.Equal(t, "Jan Doe", values["Contact-Name"])
	assert.Equal(t, "jdoe@example.com", values["Contact-Email"])
	assert.Equal(t, "example-pub-01", values["Publisher-Identifier"])
}

func TestComposeBagInfoOptionalTags(t *testing.T) {
	tmpl, err := os.Open(testutil.PathToBagInfoTemplate())
	require.Nil(t, err)
	defer tmpl.Close()

	submission := testutil.Submission()
	submission.SubmitterEmail = ""
	submission.PublisherID = ""
	bagInfo, err := packager.ComposeBagInfo(testutil.Resources(), submission, tmpl, &packager.TemplateParameterizer{}, utf8Writer(t), constants.BagItVersion, testutil.Bloomsday)
	require.Nil(t, err)
	content := readAll(t, bagInfo)
	assert.Contains(t, content, "Contact-Name: Jan Doe")
	assert.NotContains(t, content, "Contact-Email")
	assert.NotContains(t, content, "Publisher-Identifier")
}

func TestComposeBagInfoEncoding(t *testing.T) {
	writer, err := bagit.NewWriter("ISO-8859-1")
	require.Nil(t, err)
	submission := testutil.Submission()
	submission.SubmitterName = "José"
	tmpl := strings.NewReader("Contact-Name: {{.SubmissionUserFullName}}\n")
	bagInfo, err := packager.ComposeBagInfo(testutil.Resources(), submission, tmpl, &packager.TemplateParameterizer{}, writer, constants.BagItVersion, testutil.Bloomsday)
	require.Nil(t, err)
	data, err := io.ReadAll(bagInfo.Open())
	require.Nil(t, err)
	assert.Equal(t, []byte("Contact-Name: Jos\xe9\n"), data)
}

func TestComposeBagInfoAddsFinalNewline(t *testing.T) {
	tmpl := strings.NewReader("Payload-Oxum: {{.PayloadOxum}}")
	bagInfo, err := packager.ComposeBagInfo(testutil.Resources(), nil, tmpl, &packager.TemplateParameterizer{}, utf8Writer(t), constants.BagItVersion, testutil.Bloomsday)
	require.Nil(t, err)
	assert.Equal(t, "Payload-Oxum: 20.3\n", readAll(t, bagInfo))
}

func TestComposeBagInfoEmpty(t *testing.T) {
	for _, text := range []string{"", "  \n\n"} {
		_, err := packager.ComposeBagInfo(testutil.Resources(), nil, strings.NewReader(text), &packager.TemplateParameterizer{}, utf8Writer(t), constants.BagItVersion, testutil.Bloomsday)
		require.NotNil(t, err)
		assert.ErrorIs(t, err, common.ErrEmptyBagInfo)
	}
}

func TestComposeBagInfoBadTemplate(t *testing.T) {
	_, err := packager.ComposeBagInfo(testutil.Resources(), nil, strings.NewReader("Foo: {{.NoSuchField}}\n"), &packager.TemplateParameterizer{}, utf8Writer(t), constants.BagItVersion, testutil.Bloomsday)
	require.NotNil(t, err)
	assert.NotErrorIs(t, err, common.ErrEmptyBagInfo)

	_, err = packager.ComposeBagInfo(testutil.Resources(), nil, strings.NewReader("Foo: {{.PayloadOxum\n"), &packager.TemplateParameterizer{}, utf8Writer(t), constants.BagItVersion, testutil.Bloomsday)
	require.NotNil(t, err)
}

func TestComposeBagInfoCustomParameterizer(t *testing.T) {
	parameterizer := &fixedParameterizer{output: "Source-Organization: Fixed\n"}
	bagInfo, err := packager.ComposeBagInfo(testutil.Resources(), testutil.Submission(), bytes.NewReader(nil), parameterizer, utf8Writer(t), constants.BagItVersion, testutil.Bloomsday)
	require.Nil(t, err)
	assert.Equal(t, "Source-Organization: Fixed\n", readAll(t, bagInfo))
	require.NotNil(t, parameterizer.model)
	assert.Equal(t, "20.3", parameterizer.model.PayloadOxum)
}
