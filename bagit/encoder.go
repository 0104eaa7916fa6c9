package bagit

import (
	"fmt"
	"strings"

	"github.com/APTrust/bagit-packager/models/common"
)

const (
	cr = '\r'
	lf = '\n'
)

// EncodePath escapes a path for use in a manifest or fetch file.
// Percent signs are always encoded. CR and LF are encoded unless
// they belong to the run of CR/LF characters at the very end of the
// string, which is left as is. Nothing else is touched.
func EncodePath(path string) string {
	trailing := len(path)
	for trailing > 0 && (path[trailing-1] == cr || path[trailing-1] == lf) {
		trailing--
	}
	var b strings.Builder
	b.Grow(len(path) + 8)
	for i := 0; i < trailing; i++ {
		switch path[i] {
		case '%':
			b.WriteString("%25")
		case cr:
			b.WriteString("%0D")
		case lf:
			b.WriteString("%0A")
		default:
			b.WriteByte(path[i])
		}
	}
	b.WriteString(path[trailing:])
	return b.String()
}

var pathDecoder = strings.NewReplacer(
	"%25", "%",
	"%0D", "\r",
	"%0d", "\r",
	"%0A", "\n",
	"%0a", "\n",
)

// DecodePath reverses EncodePath.
func DecodePath(path string) string {
	return pathDecoder.Replace(path)
}

// ValidateLabel returns an ErrInvalidLabel error if label can't be
// used as a tag name. Labels may not be empty, may not contain CR, LF
// or a colon, and may not begin or end with a space or tab.
func ValidateLabel(label string) error {
	if label == "" {
		return invalidLabel(label, "label is empty")
	}
	if strings.ContainsAny(label, "\r\n") {
		return invalidLabel(label, "label contains a line break")
	}
	if strings.ContainsRune(label, ':') {
		return invalidLabel(label, "label contains a colon")
	}
	if isBlank(label[0]) {
		return invalidLabel(label, "label begins with whitespace")
	}
	if isBlank(label[len(label)-1]) {
		return invalidLabel(label, "label ends with whitespace")
	}
	return nil
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func invalidLabel(label, reason string) error {
	return common.NewError(fmt.Sprintf("Tag label %q is invalid: %s", label, reason), common.ErrInvalidLabel, true)
}
