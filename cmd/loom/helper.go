package main

import (
	"os"
	"path/filepath"

	"loom/internal/config"
	"loom/internal/errors"
	"loom/internal/logging"
	"loom/internal/manifest"
	"loom/internal/paths"
	"loom/internal/templates"
)

// env bundles everything a command needs after the repo is resolved.
type env struct {
	repoRoot string
	cfg      *config.Config
	logger   *logging.Logger
	registry *templates.Registry
	manifest *manifest.File
}

// loadEnv resolves the current repository, loads configuration, templates,
// and the scaffold manifest. Every command except init starts here.
func loadEnv() (*env, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.New(errors.InternalError, "Failed to get current directory", err)
	}

	loomDir := filepath.Join(cwd, config.LoomDir)
	if _, statErr := os.Stat(loomDir); os.IsNotExist(statErr) {
		return nil, errors.New(errors.NotInitialized, "No .loom directory found", nil, errors.FixAction{
			Type:        errors.RunCommand,
			Command:     "loom init",
			Description: "Initialize loom in this repository",
		})
	}

	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid, "Failed to load .loom/config.json", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "Invalid configuration", err, errors.FixAction{
			Type:        errors.EditFile,
			Path:        filepath.Join(config.LoomDir, "config.json"),
			Description: "Fix the reported field",
		})
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})

	registry, err := templates.LoadRegistry(paths.Join(cwd, cfg.Templates.Dir))
	if err != nil {
		return nil, errors.New(errors.TemplateInvalid, "Failed to load templates", err)
	}

	mf, err := manifest.Load(cwd)
	if err != nil {
		return nil, errors.New(errors.ManifestInvalid, "Failed to load scaffold manifest", err, errors.FixAction{
			Type:        errors.EditFile,
			Path:        manifest.ScaffoldsFile,
			Description: "Fix the reported declaration",
		})
	}

	return &env{
		repoRoot: cwd,
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		manifest: mf,
	}, nil
}

// selectDeclarations returns the manifest declarations matching args, or all
// of them when args is empty.
func (e *env) selectDeclarations(args []string) ([]manifest.Declaration, error) {
	if len(args) == 0 {
		return e.manifest.Scaffolds, nil
	}

	decls := make([]manifest.Declaration, 0, len(args))
	for _, name := range args {
		d, ok := e.manifest.Get(name)
		if !ok {
			return nil, errors.New(errors.ScaffoldNotFound, "No scaffold named "+name, nil, errors.FixAction{
				Type:        errors.RunCommand,
				Command:     "loom scaffolds",
				Description: "List declared scaffolds",
			})
		}
		decls = append(decls, d)
	}
	return decls, nil
}
