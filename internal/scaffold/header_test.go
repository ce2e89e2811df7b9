package scaffold

import (
	"strings"
	"testing"
)

func TestFormatExactShape(t *testing.T) {
	h := Header{
		Package:  "deepstaging-web",
		Version:  "0.1.0",
		Hash:     "abc123",
		Scaffold: "api-types",
	}

	want := "// @deepstaging-web v0.1.0 hash:abc123\n// scaffold: api-types"
	if got := h.Format(); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	headers := []Header{
		{Package: "deepstaging-web", Version: "0.1.0", Hash: "abc123", Scaffold: "api-types"},
		{Package: "loom", Version: "1.2.3-rc.1+build.5", Hash: "deadbeef00", Scaffold: "http handlers"},
		{Package: "a", Version: "0", Hash: "x", Scaffold: "y"},
	}
	bodies := []string{
		"",
		"export interface Foo {}\n",
		"package main\n\nfunc main() {}\n",
		"multi\nline\nbody with // scaffold: decoy\n",
	}

	for _, h := range headers {
		for _, body := range bodies {
			content := h.Format() + "\n\n" + body
			got, ok := ParseHeader(content)
			if !ok {
				t.Fatalf("ParseHeader(%q) reported no header", content)
			}
			if got != h {
				t.Errorf("round trip mismatch: got %+v, want %+v", got, h)
			}
		}
	}
}

func TestParseHeaderAbsent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"unrelated content", "export interface Foo {}\nexport interface Bar {}"},
		{"second line missing", "// @deepstaging-web v1.0.0 hash:abc"},
		{"second line not scaffold", "// @deepstaging-web v1.0.0 hash:abc\nexport interface Foo {}"},
		{"hash token missing", "// @deepstaging-web v1.0.0\n// scaffold: api-types"},
		{"version token missing", "// @deepstaging-web hash:abc\n// scaffold: api-types"},
		{"at-sign missing", "// deepstaging-web v1.0.0 hash:abc\n// scaffold: api-types"},
		{"empty scaffold name", "// @deepstaging-web v1.0.0 hash:abc\n// scaffold:   "},
		{"scaffold prefix without space", "// @deepstaging-web v1.0.0 hash:abc\n// scaffold:api-types"},
		{"trailing junk on first line", "// @deepstaging-web v1.0.0 hash:abc extra\n// scaffold: api-types"},
		{"header not at start", "\n// @deepstaging-web v1.0.0 hash:abc\n// scaffold: api-types"},
		{"header buried in body", "const x = 1\n// @deepstaging-web v1.0.0 hash:abc\n// scaffold: api-types"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if h, ok := ParseHeader(tt.content); ok {
				t.Errorf("ParseHeader(%q) = %+v, want absent", tt.content, h)
			}
		})
	}
}

func TestParseHeaderFields(t *testing.T) {
	content := "// @deepstaging-web v1.2.3-beta.1 hash:9f8e7d\n// scaffold: api-client\n\nexport class Foo {}\n"

	h, ok := ParseHeader(content)
	if !ok {
		t.Fatal("expected header to parse")
	}
	if h.Package != "deepstaging-web" {
		t.Errorf("Package = %q", h.Package)
	}
	if h.Version != "1.2.3-beta.1" {
		t.Errorf("Version = %q", h.Version)
	}
	if h.Hash != "9f8e7d" {
		t.Errorf("Hash = %q", h.Hash)
	}
	if h.Scaffold != "api-client" {
		t.Errorf("Scaffold = %q", h.Scaffold)
	}
}

func TestParseHeaderCRLF(t *testing.T) {
	content := "// @loom v0.1.0 hash:abc123\r\n// scaffold: api-types\r\n\r\nbody\r\n"

	h, ok := ParseHeader(content)
	if !ok {
		t.Fatal("expected CRLF header to parse")
	}
	if h.Hash != "abc123" || h.Scaffold != "api-types" {
		t.Errorf("unexpected fields: %+v", h)
	}
}

func TestExtractHash(t *testing.T) {
	content := "// @deepstaging-web v0.1.0 hash:abc123def\n// scaffold: api-client\n\nexport class Foo {}"
	hash, ok := ExtractHash(content)
	if !ok {
		t.Fatal("expected hash to be extracted")
	}
	if hash != "abc123def" {
		t.Errorf("ExtractHash = %q, want %q", hash, "abc123def")
	}

	if _, ok := ExtractHash("just plain content"); ok {
		t.Error("expected absent hash for plain content")
	}
	if _, ok := ExtractHash(""); ok {
		t.Error("expected absent hash for empty content")
	}
}

func TestExtractHashAgreesWithParse(t *testing.T) {
	inputs := []string{
		"",
		"just plain content",
		"// @pkg v1 hash:h\n// scaffold: s\n\nbody",
		"// @pkg v1 hash:h\nnope",
		"// @pkg v1\n// scaffold: s",
	}

	for _, content := range inputs {
		h, parsed := ParseHeader(content)
		hash, extracted := ExtractHash(content)
		if parsed != extracted {
			t.Errorf("presence disagreement for %q: parse=%v extract=%v", content, parsed, extracted)
		}
		if parsed && hash != h.Hash {
			t.Errorf("hash disagreement for %q: %q vs %q", content, hash, h.Hash)
		}
	}
}

func TestNewHeaderValidation(t *testing.T) {
	if _, err := NewHeader("loom", "0.1.0", "abc", "api-types"); err != nil {
		t.Fatalf("valid header rejected: %v", err)
	}

	invalid := []struct {
		name                         string
		pkg, version, hash, scaffold string
	}{
		{"empty package", "", "1", "h", "s"},
		{"empty version", "p", "", "h", "s"},
		{"empty hash", "p", "1", "", "s"},
		{"empty scaffold", "p", "1", "h", ""},
		{"newline in package", "p\nq", "1", "h", "s"},
		{"carriage return in scaffold", "p", "1", "h", "s\rt"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewHeader(tt.pkg, tt.version, tt.hash, tt.scaffold); err == nil {
				t.Error("expected construction error")
			}
		})
	}
}

func TestBody(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			"header with blank separator",
			"// @p v1 hash:h\n// scaffold: s\n\nline one\nline two\n",
			"line one\nline two\n",
		},
		{
			"header without blank separator",
			"// @p v1 hash:h\n// scaffold: s\nline one\n",
			"line one\n",
		},
		{
			"header only",
			"// @p v1 hash:h\n// scaffold: s",
			"",
		},
		{
			"only one blank line skipped",
			"// @p v1 hash:h\n// scaffold: s\n\n\nbody",
			"\nbody",
		},
		{
			"unmanaged content returned unchanged",
			"export interface Foo {}\n",
			"export interface Foo {}\n",
		},
		{
			"empty content",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Body(tt.content); got != tt.want {
				t.Errorf("Body(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestFormatThenBodyRoundTrip(t *testing.T) {
	h := Header{Package: "loom", Version: "0.1.0", Hash: "ff00", Scaffold: "models"}
	body := "type User struct {\n\tID string\n}\n"

	content := h.Format() + "\n\n" + body
	if got := Body(content); got != body {
		t.Errorf("Body = %q, want %q", got, body)
	}
	if !strings.HasPrefix(content, "// @loom ") {
		t.Errorf("unexpected serialized prefix: %q", content)
	}
}
