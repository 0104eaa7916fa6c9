package bagit

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/APTrust/bagit-packager/models/common"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Reader parses tag files and manifests written in a known tag file
// character encoding.
type Reader struct {
	encoding encoding.Encoding
}

// NewReader returns a Reader for the encoding with the given IANA
// name. An empty name means UTF-8.
func NewReader(encodingName string) (*Reader, error) {
	enc, _, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &Reader{encoding: enc}, nil
}

// readLines decodes r and returns its lines, minus the LF that ends
// each one. A CR before the LF is part of the line, because paths in
// manifests may legitimately end with one. A final line with no LF
// is returned as well.
func (reader *Reader) readLines(r io.Reader) ([]string, error) {
	buf := bufio.NewReader(transform.NewReader(r, reader.encoding.NewDecoder()))
	lines := make([]string, 0)
	for {
		line, err := buf.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, common.IOError(err, "Error reading tag file")
		}
		if line != "" {
			lines = append(lines, strings.TrimSuffix(line, "\n"))
		}
		if err == io.EOF {
			break
		}
	}
	return lines, nil
}

// ParseTagFile parses "label: value" lines from r. Lines that begin
// with a space or tab continue the value of the previous tag. Blank
// lines are ignored. Param sourceFile is recorded on each tag.
func (reader *Reader) ParseTagFile(r io.Reader, sourceFile string) ([]*Tag, error) {
	lines, err := reader.readLines(r)
	if err != nil {
		return nil, err
	}
	tags := make([]*Tag, 0)
	var lastTag *Tag
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if isBlank(line[0]) {
			if lastTag == nil {
				return nil, fmt.Errorf("%s line %d: continuation line has no tag to continue", sourceFile, i+1)
			}
			lastTag.Value = lastTag.Value + " " + strings.TrimSpace(line)
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%s line %d: expected 'label: value', got %q", sourceFile, i+1, line)
		}
		lastTag = NewTag(sourceFile, strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
		tags = append(tags, lastTag)
	}
	return tags, nil
}

// ReadBagDeclaration parses bagit.txt into a map of label to value.
func (reader *Reader) ReadBagDeclaration(r io.Reader) (map[string]string, error) {
	tags, err := reader.ParseTagFile(r, "bagit.txt")
	if err != nil {
		return nil, err
	}
	entries := make(map[string]string, len(tags))
	for _, tag := range tags {
		entries[tag.Label] = tag.Value
	}
	return entries, nil
}

// Manifest is a parsed payload manifest. Paths stay encoded, exactly
// as they appear in the file. Use DecodePath to get a file name.
type Manifest struct {
	Digests map[string]string
	Paths   []string
}

// ParseManifest parses lines of the form "<hex digest>  <path>".
// Digests are lowercased. Blank lines are ignored. Any other line
// that doesn't fit the format is an error, as is a path that appears
// more than once.
func (reader *Reader) ParseManifest(r io.Reader) (*Manifest, error) {
	lines, err := reader.readLines(r)
	if err != nil {
		return nil, err
	}
	manifest := &Manifest{
		Digests: make(map[string]string, len(lines)),
		Paths:   make([]string, 0, len(lines)),
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		digest, path, err := splitManifestLine(line)
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: %v", i+1, err)
		}
		if _, exists := manifest.Digests[path]; exists {
			return nil, fmt.Errorf("manifest line %d: duplicate entry for %s", i+1, path)
		}
		manifest.Digests[path] = digest
		manifest.Paths = append(manifest.Paths, path)
	}
	return manifest, nil
}

func splitManifestLine(line string) (digest, path string, err error) {
	index := strings.IndexAny(line, " \t")
	if index < 1 {
		return "", "", fmt.Errorf("expected '<digest> <path>', got %q", line)
	}
	digest = strings.ToLower(line[:index])
	if !isHex(digest) {
		return "", "", fmt.Errorf("digest %q is not hex", digest)
	}
	rest := line[index:]
	if strings.HasPrefix(rest, "  ") {
		path = rest[2:]
	} else {
		path = rest[1:]
	}
	if path == "" {
		return "", "", fmt.Errorf("no path after digest in %q", line)
	}
	return digest, path, nil
}

func isHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return len(s) > 0
}
