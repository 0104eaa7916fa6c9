package packager

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/APTrust/bagit-packager/bagit"
	"github.com/APTrust/bagit-packager/constants"
	"github.com/APTrust/bagit-packager/models/common"
	"github.com/APTrust/bagit-packager/models/packaging"
	"github.com/dustin/go-humanize"
)

const (
	BaggingDateFormat    = "2006-01-02"
	SubmissionDateFormat = "20060102T150405Z0700"
)

// Parameterizer renders a bag-info.txt template against a BagModel.
type Parameterizer interface {
	Parameterize(template io.Reader, model *packaging.BagModel) (string, error)
}

// TemplateParameterizer renders text/template templates. Fields of
// BagModel are available as {{ .FieldName }}.
type TemplateParameterizer struct {
	Funcs template.FuncMap
}

func (p *TemplateParameterizer) Parameterize(tmpl io.Reader, model *packaging.BagModel) (string, error) {
	text, err := io.ReadAll(tmpl)
	if err != nil {
		return "", common.IOError(err, "Cannot read bag-info template")
	}
	t := template.New(constants.BagInfoFile).Option("missingkey=error")
	if p.Funcs != nil {
		t = t.Funcs(p.Funcs)
	}
	t, err = t.Parse(string(text))
	if err != nil {
		return "", common.NewError("Cannot parse bag-info template", err, true)
	}
	out := &strings.Builder{}
	if err = t.Execute(out, model); err != nil {
		return "", common.NewError("Cannot render bag-info template", err, true)
	}
	return out.String(), nil
}

// NewBagModel computes the values available to the bag-info template
// from the payload and the submission, which may be nil.
func NewBagModel(resources []packaging.CustodialResource, submission *packaging.Submission, version string, now time.Time) *packaging.BagModel {
	totalSize := packaging.TotalSize(resources)
	count := int64(len(resources))
	model := &packaging.BagModel{
		BagItVersion:          version,
		BagSizeBytes:          totalSize,
		BagSizeBytesFormatted: humanize.Comma(totalSize),
		BagSizeHumanReadable:  bagit.HumanSize(totalSize),
		BaggingDate:           now.Format(BaggingDateFormat),
		CustodialFileCount:    count,
		PayloadOxum:           fmt.Sprintf("%d.%d", totalSize, count),
	}
	if submission != nil {
		model.Submission = submission
		model.SourceOrganization = submission.SourceOrganization
		model.SubmissionURI = submission.ID
		model.SubmissionUserURI = submission.SubmitterURI
		model.SubmissionUserFullName = submission.SubmitterName
		model.SubmissionUserEmail = submission.SubmitterEmail
		model.PublisherID = submission.PublisherID
		model.SubmissionMetadata = submission.Metadata
		if !submission.SubmittedDate.IsZero() {
			model.SubmissionDate = submission.SubmittedDate.Format(SubmissionDateFormat)
		}
	}
	return model
}

// ComposeBagInfo renders bag-info.txt from template and encodes it
// with writer's encoding. Output that is empty or all whitespace is
// an ErrEmptyBagInfo error.
func ComposeBagInfo(resources []packaging.CustodialResource, submission *packaging.Submission, tmpl io.Reader, parameterizer Parameterizer, writer *bagit.Writer, version string, now time.Time) (packaging.SupplementalResource, error) {
	model := NewBagModel(resources, submission, version, now)
	text, err := parameterizer.Parameterize(tmpl, model)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, common.NewError("Template produced no tags", common.ErrEmptyBagInfo, true)
	}
	data, err := writer.Encode(text)
	if err != nil {
		return nil, err
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}
	return packaging.NewSupplementalResource(constants.BagInfoFile, "Bag Metadata", data, now), nil
}
