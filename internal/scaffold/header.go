// Package scaffold implements the two-line provenance header embedded at the
// top of generated artifacts. The header records which project and scaffold
// produced a file and a digest of its body, so a later run can tell whether
// the file on disk was hand-edited or can be safely regenerated.
package scaffold

import (
	"fmt"
	"regexp"
	"strings"
)

// scaffoldLinePrefix is the fixed prefix of the second header line.
const scaffoldLinePrefix = "// scaffold: "

// metaLinePattern matches the first header line:
//
//	// @<package> v<version> hash:<hash>
//
// Each field is a maximal run of non-whitespace characters. The pattern is
// anchored, so a first line missing any token (e.g. no hash) does not match.
var metaLinePattern = regexp.MustCompile(`^// @(?P<package>\S+) v(?P<version>\S+) hash:(?P<hash>\S+)$`)

// Header is the provenance metadata serialized atop a generated file.
// All four fields are required; a header missing any of them never parses.
type Header struct {
	// Package identifies the generating project or tool
	Package string

	// Version is a semantic-version-like token, stored and compared as
	// opaque text (never parsed as semver)
	Version string

	// Hash is the content digest of the artifact body, opaque to the codec
	Hash string

	// Scaffold names the template that produced the artifact
	Scaffold string
}

// NewHeader builds a Header, validating that every field is non-empty and
// free of line breaks. Delimiter substrings inside field values (" v",
// " hash:") are deliberately not rejected: the format performs no escaping,
// and a value containing them will mis-split on parse. That is a documented
// limitation of the format, not something this constructor papers over.
func NewHeader(pkg, version, hash, scaffoldName string) (Header, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"package", pkg},
		{"version", version},
		{"hash", hash},
		{"scaffold", scaffoldName},
	}

	for _, f := range fields {
		if f.value == "" {
			return Header{}, fmt.Errorf("header field %q must not be empty", f.name)
		}
		if strings.ContainsAny(f.value, "\n\r") {
			return Header{}, fmt.Errorf("header field %q must not contain line breaks", f.name)
		}
	}

	return Header{
		Package:  pkg,
		Version:  version,
		Hash:     hash,
		Scaffold: scaffoldName,
	}, nil
}

// Format serializes the header as exactly two lines joined by "\n", with no
// trailing newline. The artifact body follows these lines, conventionally
// separated by one blank line, but the codec neither emits nor requires one.
func (h Header) Format() string {
	return fmt.Sprintf("// @%s v%s hash:%s\n%s%s",
		h.Package, h.Version, h.Hash, scaffoldLinePrefix, h.Scaffold)
}

// ParseHeader extracts a Header from the leading text of a file. The second
// return value reports whether a complete, well-formed header was found.
//
// Matching is anchored to the start of content: the header lines must be the
// first two lines, and header-shaped text deeper in the file is never
// recognized. Malformed or unrelated content is a normal absent result, not
// an error, so callers can treat "no header" as the ordinary signal that a
// file is not scaffold-managed.
func ParseHeader(content string) (Header, bool) {
	line1, rest, ok := firstLine(content)
	if !ok {
		return Header{}, false
	}

	m := metaLinePattern.FindStringSubmatch(line1)
	if m == nil {
		return Header{}, false
	}

	line2, _, ok := firstLine(rest)
	if !ok {
		return Header{}, false
	}

	trailer, found := strings.CutPrefix(line2, scaffoldLinePrefix)
	if !found {
		return Header{}, false
	}
	name := strings.TrimSpace(trailer)
	if name == "" {
		return Header{}, false
	}

	return Header{
		Package:  m[metaLinePattern.SubexpIndex("package")],
		Version:  m[metaLinePattern.SubexpIndex("version")],
		Hash:     m[metaLinePattern.SubexpIndex("hash")],
		Scaffold: name,
	}, true
}

// ExtractHash returns the hash recorded in content's header, if one parses.
// It exists so drift checks can compare digests without handling the full
// header shape; for plain non-scaffold text it simply reports false.
func ExtractHash(content string) (string, bool) {
	h, ok := ParseHeader(content)
	if !ok {
		return "", false
	}
	return h.Hash, true
}

// Body returns the artifact body beneath a recognized header, skipping the
// two header lines and at most one blank separator line. When content has no
// header the input is returned unchanged: unmanaged files are all body.
func Body(content string) string {
	if _, ok := ParseHeader(content); !ok {
		return content
	}

	_, rest, _ := firstLine(content)
	_, rest, _ = firstLine(rest)

	if blank, after, ok := firstLine(rest); ok && blank == "" && rest != "" {
		return after
	}
	return rest
}

// firstLine splits content at its first "\n", trimming a trailing "\r" so
// CRLF files still parse. ok is false only for empty input; a final line
// without a newline is returned with empty rest.
func firstLine(content string) (line, rest string, ok bool) {
	if content == "" {
		return "", "", false
	}
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		return strings.TrimRight(content[:i], "\r"), content[i+1:], true
	}
	return strings.TrimRight(content, "\r"), "", true
}
