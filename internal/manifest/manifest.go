// Package manifest reads and writes SCAFFOLDS.toml, the per-repository file
// declaring which scaffolds exist and where their artifacts land.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"loom/internal/paths"
)

// ScaffoldsFile is the default filename for scaffold declarations
const ScaffoldsFile = "SCAFFOLDS.toml"

// Declaration represents a declared scaffold in SCAFFOLDS.toml
type Declaration struct {
	// Name is the unique scaffold identifier, recorded in generated headers
	Name string `toml:"name"`

	// Template is the template name (without extension) in the templates dir
	Template string `toml:"template"`

	// Output is the repo-relative path of the generated artifact
	Output string `toml:"output"`

	// Description is a one-line summary of what this scaffold produces
	Description string `toml:"description,omitempty"`

	// Vars are passed to the template on top of the built-in context
	Vars map[string]string `toml:"vars,omitempty"`

	// Tags are classification tags for the scaffold
	Tags []string `toml:"tags,omitempty"`
}

// File represents the parsed SCAFFOLDS.toml document
type File struct {
	// Version is the schema version
	Version int `toml:"version"`

	// Owner is an optional owner reference (e.g. @platform-team)
	Owner string `toml:"owner,omitempty"`

	// Scaffolds is the list of declared scaffolds
	Scaffolds []Declaration `toml:"scaffold"`
}

// Parse parses a SCAFFOLDS.toml file from the given path
func Parse(filePath string) (*File, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ScaffoldsFile, err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ScaffoldsFile, err)
	}

	if f.Version < 1 {
		f.Version = 1
	}

	return &f, nil
}

// Load loads the scaffold manifest from the repo root. A missing file is not
// an error and yields an empty manifest.
func Load(repoRoot string) (*File, error) {
	filePath := filepath.Join(repoRoot, ScaffoldsFile)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return &File{Version: 1}, nil
	}

	f, err := Parse(filePath)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

// Write writes the manifest to the given path
func Write(filePath string, f *File) error {
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", ScaffoldsFile, err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ScaffoldsFile, err)
	}

	return nil
}

// Validate checks declarations for missing fields, duplicate names, and
// output paths escaping the repository.
func (f *File) Validate() error {
	seenNames := make(map[string]bool)
	seenOutputs := make(map[string]string)

	for i, d := range f.Scaffolds {
		if d.Name == "" {
			return fmt.Errorf("scaffold #%d: name is required", i+1)
		}
		if d.Template == "" {
			return fmt.Errorf("scaffold %q: template is required", d.Name)
		}
		if d.Output == "" {
			return fmt.Errorf("scaffold %q: output is required", d.Name)
		}
		if seenNames[d.Name] {
			return fmt.Errorf("duplicate scaffold name %q", d.Name)
		}
		seenNames[d.Name] = true

		if !paths.WithinRoot(d.Output) {
			return fmt.Errorf("scaffold %q: output %q escapes the repository root", d.Name, d.Output)
		}
		if prev, ok := seenOutputs[d.Output]; ok {
			return fmt.Errorf("scaffolds %q and %q declare the same output %q", prev, d.Name, d.Output)
		}
		seenOutputs[d.Output] = d.Name
	}

	return nil
}

// Get returns the declaration with the given name
func (f *File) Get(name string) (Declaration, bool) {
	for _, d := range f.Scaffolds {
		if d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}

// CreateExample writes a starter SCAFFOLDS.toml
func CreateExample(filePath string, owner string) error {
	example := &File{
		Version: 1,
		Owner:   owner,
		Scaffolds: []Declaration{
			{
				Name:        "api-types",
				Template:    "api-types",
				Output:      "src/api/types.ts",
				Description: "Shared API type definitions",
				Vars:        map[string]string{"entity": "user"},
				Tags:        []string{"api"},
			},
		},
	}

	return Write(filePath, example)
}
