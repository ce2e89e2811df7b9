// Package emit plans and applies artifact generation. For every scaffold
// declared in the manifest it renders the template, hashes the body, and
// compares against what is on disk via the header codec to decide whether the
// file should be written, left alone, or flagged as drifted.
package emit

import (
	"fmt"
	"os"
	"path/filepath"

	"loom/internal/hashing"
	"loom/internal/logging"
	"loom/internal/manifest"
	"loom/internal/paths"
	"loom/internal/scaffold"
	"loom/internal/templates"
)

// Status classifies an artifact relative to its freshly rendered content.
type Status string

const (
	// StatusMissing means no file exists at the output path yet
	StatusMissing Status = "missing"
	// StatusCurrent means the file carries an intact header and its body
	// matches the freshly rendered content
	StatusCurrent Status = "current"
	// StatusStale means the header is intact but the rendered content has
	// changed since the file was generated
	StatusStale Status = "stale"
	// StatusEdited means the file's body no longer matches the hash in its
	// own header: someone modified it by hand
	StatusEdited Status = "edited"
	// StatusUnmanaged means the file exists but carries no scaffold header;
	// it is treated as user-authored and never overwritten
	StatusUnmanaged Status = "unmanaged"
)

// Action records what Apply did with an artifact.
type Action string

const (
	ActionWrote     Action = "wrote"
	ActionSkipped   Action = "skipped"
	ActionPreserved Action = "preserved"
)

// Artifact is one planned output file.
type Artifact struct {
	// Scaffold is the manifest name, recorded in the written header
	Scaffold string

	// Template is the template that rendered the body
	Template string

	// Path is the repo-relative output path
	Path string

	// Status is the drift classification against the current file
	Status Status

	// NewHash is the digest of the freshly rendered body
	NewHash string

	// OldHash is the digest recorded in the existing file's header, empty
	// when the file is missing or unmanaged
	OldHash string

	// Action is set by Apply
	Action Action

	body string
}

// Result summarizes an Apply pass.
type Result struct {
	Artifacts []Artifact

	Written   int
	Skipped   int
	Preserved int
}

// Emitter renders scaffolds and reconciles them with the working tree.
type Emitter struct {
	repoRoot string
	project  string
	version  string
	registry *templates.Registry
	logger   *logging.Logger
}

// NewEmitter creates an emitter. project and version are stamped into every
// header it writes.
func NewEmitter(repoRoot, project, version string, registry *templates.Registry, logger *logging.Logger) *Emitter {
	return &Emitter{
		repoRoot: repoRoot,
		project:  project,
		version:  version,
		registry: registry,
		logger:   logger,
	}
}

// Plan renders every declaration and classifies the artifact on disk.
// Nothing is written.
func (e *Emitter) Plan(decls []manifest.Declaration) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, len(decls))

	for _, decl := range decls {
		tmpl, ok := e.registry.Get(decl.Template)
		if !ok {
			return nil, fmt.Errorf("scaffold %q: template %q not found in templates directory", decl.Name, decl.Template)
		}

		outputPath := decl.Output
		if outputPath == "" {
			outputPath = tmpl.Meta.Output
		}
		if outputPath == "" {
			return nil, fmt.Errorf("scaffold %q: no output path declared", decl.Name)
		}
		if !paths.WithinRoot(outputPath) {
			return nil, fmt.Errorf("scaffold %q: output %q escapes the repository root", decl.Name, outputPath)
		}

		body, err := tmpl.Render(templates.Context{
			Project:  e.project,
			Version:  e.version,
			Scaffold: decl.Name,
			Vars:     mergeVars(tmpl.Meta.Vars, decl.Vars),
		})
		if err != nil {
			return nil, err
		}

		a := Artifact{
			Scaffold: decl.Name,
			Template: decl.Template,
			Path:     outputPath,
			NewHash:  hashing.SumString(body),
			body:     body,
		}
		a.Status, a.OldHash = e.classify(outputPath, a.NewHash)
		artifacts = append(artifacts, a)
	}

	return artifacts, nil
}

// classify inspects the existing file at relPath and derives its drift
// status against newHash.
func (e *Emitter) classify(relPath, newHash string) (Status, string) {
	data, err := os.ReadFile(paths.Join(e.repoRoot, relPath))
	if err != nil {
		// Unreadable is treated like missing; Apply will surface any real
		// IO problem when it writes
		return StatusMissing, ""
	}

	content := string(data)
	recorded, ok := scaffold.ExtractHash(content)
	if !ok {
		return StatusUnmanaged, ""
	}

	if hashing.SumString(scaffold.Body(content)) != recorded {
		return StatusEdited, recorded
	}
	if recorded != newHash {
		return StatusStale, recorded
	}
	return StatusCurrent, recorded
}

// Apply writes every artifact that should be written. Hand-edited files are
// preserved unless force is set; unmanaged files are always preserved.
func (e *Emitter) Apply(plan []Artifact, force bool) (*Result, error) {
	result := &Result{Artifacts: make([]Artifact, 0, len(plan))}

	for _, a := range plan {
		switch a.Status {
		case StatusMissing, StatusStale:
			if err := e.write(&a); err != nil {
				return nil, err
			}
			result.Written++

		case StatusEdited:
			if force {
				if err := e.write(&a); err != nil {
					return nil, err
				}
				result.Written++
				e.logger.Warn("Overwrote hand-edited artifact", map[string]interface{}{
					"path":     a.Path,
					"scaffold": a.Scaffold,
				})
			} else {
				a.Action = ActionPreserved
				result.Preserved++
				e.logger.Warn("Preserving hand-edited artifact (use --force to overwrite)", map[string]interface{}{
					"path":     a.Path,
					"scaffold": a.Scaffold,
				})
			}

		case StatusUnmanaged:
			a.Action = ActionPreserved
			result.Preserved++
			e.logger.Warn("Output path holds an unmanaged file, leaving it alone", map[string]interface{}{
				"path":     a.Path,
				"scaffold": a.Scaffold,
			})

		case StatusCurrent:
			a.Action = ActionSkipped
			result.Skipped++
		}

		result.Artifacts = append(result.Artifacts, a)
	}

	return result, nil
}

func (e *Emitter) write(a *Artifact) error {
	header, err := scaffold.NewHeader(e.project, e.version, a.NewHash, a.Scaffold)
	if err != nil {
		return fmt.Errorf("scaffold %q: %w", a.Scaffold, err)
	}

	absPath := paths.Join(e.repoRoot, a.Path)
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return fmt.Errorf("create output directory for %s: %w", a.Path, err)
	}

	content := header.Format() + "\n\n" + a.body
	if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", a.Path, err)
	}

	a.Action = ActionWrote
	e.logger.Debug("Wrote artifact", map[string]interface{}{
		"path": a.Path,
		"hash": a.NewHash,
	})
	return nil
}

// Drifted returns the artifacts in plan that a verify run should flag:
// anything stale, edited, or missing entirely.
func Drifted(plan []Artifact) []Artifact {
	var out []Artifact
	for _, a := range plan {
		switch a.Status {
		case StatusStale, StatusEdited, StatusMissing:
			out = append(out, a)
		}
	}
	return out
}

func mergeVars(defaults, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
