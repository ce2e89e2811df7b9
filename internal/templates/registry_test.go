package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+Ext), []byte(content), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func TestLoadRegistryMissingDir(t *testing.T) {
	r, err := LoadRegistry(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d templates", r.Len())
	}
}

func TestLoadRegistryWithFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "api-types", `---
description: Shared API type definitions
output: src/api/types.ts
vars:
  entity: thing
---
export interface {{ pascal .Vars.entity }} {
  id: string;
}
`)

	r, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	tmpl, ok := r.Get("api-types")
	if !ok {
		t.Fatal("api-types not loaded")
	}
	if tmpl.Meta.Description != "Shared API type definitions" {
		t.Errorf("Description = %q", tmpl.Meta.Description)
	}
	if tmpl.Meta.Output != "src/api/types.ts" {
		t.Errorf("Output = %q", tmpl.Meta.Output)
	}
	if tmpl.Meta.Vars["entity"] != "thing" {
		t.Errorf("Vars = %+v", tmpl.Meta.Vars)
	}

	out, err := tmpl.Render(Context{Vars: map[string]string{"entity": "user-account"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "export interface UserAccount {") {
		t.Errorf("rendered body:\n%s", out)
	}
	if strings.Contains(out, "---") {
		t.Errorf("front matter leaked into body:\n%s", out)
	}
}

func TestLoadRegistryWithoutFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "readme", "# {{ .Project }}\n\nGenerated by {{ .Scaffold }}.\n")

	r, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	tmpl, ok := r.Get("readme")
	if !ok {
		t.Fatal("readme not loaded")
	}

	out, err := tmpl.Render(Context{Project: "deepstaging-web", Scaffold: "readme"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "# deepstaging-web\n\nGenerated by readme.\n" {
		t.Errorf("rendered body = %q", out)
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unclosed front matter", "---\ndescription: x\nnever closed"},
		{"invalid yaml", "---\ndescription: [unclosed\n---\nbody"},
		{"invalid template syntax", "{{ .Unclosed "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTemplate(t, dir, "bad", tt.content)
			if _, err := LoadRegistry(dir); err == nil {
				t.Error("expected load error")
			}
		})
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "zeta", "z")
	writeTemplate(t, dir, "alpha", "a")
	writeTemplate(t, dir, "mid", "m")
	// Non-template files are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	names := r.Names()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("Names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names = %v, want %v", names, want)
			break
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "models", "type {{ pascal .Vars.entity }} struct {}\n")

	r, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	tmpl, _ := r.Get("models")

	ctx := Context{Vars: map[string]string{"entity": "order_item"}}
	first, err := tmpl.Render(ctx)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := tmpl.Render(ctx)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if first != second {
		t.Error("rendering the same context twice produced different bodies")
	}
}
