package bagit

import (
	"fmt"
	"io"
	"strings"

	"github.com/APTrust/bagit-packager/constants"
	"github.com/APTrust/bagit-packager/models/common"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Writer writes tag lines and manifest lines in the bag's tag file
// character encoding. A Writer has no per-bag state and may be reused.
type Writer struct {
	encoding     encoding.Encoding
	encodingName string
}

// NewWriter returns a Writer that encodes output in the character set
// with the given IANA name, such as "UTF-8" or "ISO-8859-1". An empty
// name means UTF-8.
func NewWriter(encodingName string) (*Writer, error) {
	enc, name, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &Writer{
		encoding:     enc,
		encodingName: name,
	}, nil
}

// LookupEncoding returns the encoding registered under name, along
// with its canonical IANA name.
func LookupEncoding(name string) (encoding.Encoding, string, error) {
	if name == "" {
		name = constants.DefaultTagEncoding
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, "", fmt.Errorf("Unknown tag file encoding '%s': %v", name, err)
	}
	if enc == nil {
		return nil, "", fmt.Errorf("Tag file encoding '%s' is not supported", name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}
	return enc, canonical, nil
}

// Encoding returns the canonical name of the writer's encoding. This
// is the value of Tag-File-Character-Encoding in bagit.txt.
func (w *Writer) Encoding() string {
	return w.encodingName
}

// WriteTagLine writes "label: value" and a newline to out. The label
// is validated before anything is written, so an invalid label leaves
// out untouched.
func (w *Writer) WriteTagLine(out io.Writer, label, value string) error {
	if err := ValidateLabel(label); err != nil {
		return err
	}
	return w.writeLine(out, label+": "+value)
}

// WriteManifestLine writes a digest, two spaces, the path and a
// newline to out. The path must already have been through EncodePath.
// The two spaces match the output of GNU md5sum and friends.
func (w *Writer) WriteManifestLine(out io.Writer, digestHex, path string) error {
	return w.writeLine(out, digestHex+"  "+path)
}

func (w *Writer) writeLine(out io.Writer, line string) error {
	var b strings.Builder
	b.WriteString(line)
	b.WriteByte('\n')
	encoded, err := w.encoding.NewEncoder().String(b.String())
	if err != nil {
		return common.NewError(fmt.Sprintf("Cannot encode line as %s: %q", w.encodingName, line), err, true)
	}
	if _, err = io.WriteString(out, encoded); err != nil {
		return common.IOError(err, "Error writing line %q", line)
	}
	return nil
}

// Encode converts text, such as a rendered bag-info.txt, to the
// writer's encoding.
func (w *Writer) Encode(text string) ([]byte, error) {
	encoded, err := w.encoding.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, common.NewError(fmt.Sprintf("Cannot encode text as %s", w.encodingName), err, true)
	}
	return encoded, nil
}
