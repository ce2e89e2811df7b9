package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"loom/internal/config"
	"loom/internal/errors"
	"loom/internal/manifest"
	"loom/internal/templates"
	"loom/internal/userconfig"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize loom configuration",
	Long:  "Creates a .loom/ directory with default configuration, a starter template, and a SCAFFOLDS.toml manifest",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Force reinitialization (removes existing .loom directory)")
	rootCmd.AddCommand(initCmd)
}

// starterTemplate is written on init so `loom generate` works out of the box.
const starterTemplate = `---
description: Shared API type definitions
vars:
  entity: thing
---
export interface {{ pascal .Vars.entity }} {
  id: string;
}
`

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.New(errors.InternalError, "Failed to get current directory", err)
	}

	loomDir := filepath.Join(cwd, config.LoomDir)
	if _, statErr := os.Stat(loomDir); statErr == nil {
		if !initForce {
			// Idempotent behavior: already initialized is success (CI-friendly)
			fmt.Println("loom already initialized.")
			fmt.Printf("Configuration at: %s\n", filepath.Join(loomDir, "config.json"))
			fmt.Println("\nRun 'loom init --force' to reinitialize.")
			return nil
		}
		if removeErr := os.RemoveAll(loomDir); removeErr != nil {
			return errors.New(errors.InternalError, "Failed to remove existing .loom directory", removeErr)
		}
	}

	// Global user defaults feed the generated config
	userDir, err := userconfig.Dir()
	var user *userconfig.UserConfig
	if err == nil {
		user, err = userconfig.Load(userDir)
	}
	if err != nil {
		user = userconfig.Default()
	}

	cfg := config.DefaultConfig()
	cfg.Project.Name = filepath.Base(cwd)
	cfg.Project.Version = user.DefaultVersion
	if user.LogFormat != "" {
		cfg.Logging.Format = user.LogFormat
	}

	templatesDir := filepath.Join(loomDir, "templates")
	if mkdirErr := os.MkdirAll(templatesDir, 0755); mkdirErr != nil {
		return errors.New(errors.InternalError, "Failed to create .loom directory", mkdirErr)
	}

	if saveErr := cfg.Save(cwd); saveErr != nil {
		return errors.New(errors.InternalError, "Failed to write config file", saveErr)
	}

	starterPath := filepath.Join(templatesDir, "api-types"+templates.Ext)
	if writeErr := os.WriteFile(starterPath, []byte(starterTemplate), 0644); writeErr != nil {
		return errors.New(errors.InternalError, "Failed to write starter template", writeErr)
	}

	manifestPath := filepath.Join(cwd, manifest.ScaffoldsFile)
	if _, statErr := os.Stat(manifestPath); os.IsNotExist(statErr) {
		if exErr := manifest.CreateExample(manifestPath, user.Author); exErr != nil {
			return errors.New(errors.InternalError, "Failed to write SCAFFOLDS.toml", exErr)
		}
	}

	fmt.Println("loom initialized successfully!")
	fmt.Printf("Configuration written to: %s\n", filepath.Join(loomDir, "config.json"))
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit SCAFFOLDS.toml to declare your scaffolds")
	fmt.Println("  2. Run 'loom generate' to render them")
	fmt.Println("  3. Run 'loom status' to check for drift")

	return nil
}
