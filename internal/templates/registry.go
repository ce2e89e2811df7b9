// Package templates loads scaffold templates from the templates directory.
// A template file is an optional YAML front matter block between "---"
// fences, followed by a text/template body. Rendering is deterministic: the
// func map contains only pure string helpers, so the same inputs always
// produce the same body and therefore the same content hash.
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Ext is the file extension of template files
const Ext = ".tmpl"

const frontMatterFence = "---"

// Meta is the YAML front matter of a template file
type Meta struct {
	// Description is a one-line summary shown by `loom scaffolds`
	Description string `yaml:"description,omitempty"`

	// Output is the default repo-relative output path, overridable by the
	// manifest declaration
	Output string `yaml:"output,omitempty"`

	// Vars declares default values for template variables
	Vars map[string]string `yaml:"vars,omitempty"`
}

// Template is a loaded, parsed scaffold template
type Template struct {
	Name string
	Meta Meta

	tmpl *template.Template
}

// Context is the data passed to every template execution
type Context struct {
	// Project is the generating project name (header package field)
	Project string

	// Version is the project version (header version field)
	Version string

	// Scaffold is the manifest name of the scaffold being rendered
	Scaffold string

	// Vars merges template defaults with manifest-declared values
	Vars map[string]string
}

// Render executes the template with ctx and returns the artifact body.
func (t *Template) Render(ctx Context) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, ctx); err != nil {
		return "", fmt.Errorf("render template %q: %w", t.Name, err)
	}
	return sb.String(), nil
}

// Registry holds all templates loaded from a directory
type Registry struct {
	dir       string
	templates map[string]*Template
}

// LoadRegistry loads every *.tmpl file in dir. A missing directory is not an
// error and yields an empty registry.
func LoadRegistry(dir string) (*Registry, error) {
	r := &Registry{
		dir:       dir,
		templates: make(map[string]*Template),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("read templates dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), Ext)
		t, err := loadTemplate(name, filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		r.templates[name] = t
	}

	return r, nil
}

// Get returns the template with the given name
func (r *Registry) Get(name string) (*Template, bool) {
	t, ok := r.templates[name]
	return t, ok
}

// Names returns all template names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of loaded templates
func (r *Registry) Len() int {
	return len(r.templates)
}

func loadTemplate(name, path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}

	meta, body, err := splitFrontMatter(string(data))
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}

	tmpl, err := template.New(name).Funcs(funcMap()).Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", name, err)
	}

	return &Template{Name: name, Meta: meta, tmpl: tmpl}, nil
}

// splitFrontMatter separates the YAML front matter from the template body.
// Files without a leading "---" fence are all body.
func splitFrontMatter(content string) (Meta, string, error) {
	var meta Meta

	if !strings.HasPrefix(content, frontMatterFence+"\n") && content != frontMatterFence {
		return meta, content, nil
	}

	rest := strings.TrimPrefix(content, frontMatterFence+"\n")
	end := strings.Index(rest, "\n"+frontMatterFence)
	if end < 0 {
		return meta, "", fmt.Errorf("front matter fence is never closed")
	}

	block := rest[:end]
	body := rest[end+len("\n"+frontMatterFence):]
	body = strings.TrimPrefix(body, "\n")

	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return meta, "", fmt.Errorf("parse front matter: %w", err)
	}

	return meta, body, nil
}
