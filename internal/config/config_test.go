package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.RecipeSuffix != ".recipe" {
		t.Fatalf("RecipeSuffix = %q, want .recipe", cfg.RecipeSuffix)
	}
	if cfg.PackageSuffix != ".pkg.tar.gz" {
		t.Fatalf("PackageSuffix = %q, want .pkg.tar.gz", cfg.PackageSuffix)
	}
	if len(cfg.PackageStreams) != 1 || cfg.PackageStreams[0] != "core" {
		t.Fatalf("PackageStreams = %v, want [core]", cfg.PackageStreams)
	}
	if cfg.TargetArchitecture != "x86_64" {
		t.Fatalf("TargetArchitecture = %q, want x86_64", cfg.TargetArchitecture)
	}
	if cfg.WorkspaceDir != filepath.Join(cfg.Root, "workspace") {
		t.Fatalf("WorkspaceDir = %q, not derived from root", cfg.WorkspaceDir)
	}
	if cfg.RepositoryCacheDir != filepath.Join(cfg.Root, "repositories") {
		t.Fatalf("RepositoryCacheDir = %q, not derived from root", cfg.RepositoryCacheDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.toml")

	content := `
root = "/tmp/quarry-test"

[repository]
repositories = ["https://example.org/recipes.git"]
package_streams = ["core", "extra"]

[environment]
target_architecture = "aarch64"

[build]
c_flags = "-O2"

[general]
suppress_build_output = true
`
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Root != "/tmp/quarry-test" {
		t.Fatalf("Root = %q", cfg.Root)
	}
	if len(cfg.Repositories) != 1 || cfg.Repositories[0] != "https://example.org/recipes.git" {
		t.Fatalf("Repositories = %v", cfg.Repositories)
	}
	if len(cfg.PackageStreams) != 2 || cfg.PackageStreams[1] != "extra" {
		t.Fatalf("PackageStreams = %v", cfg.PackageStreams)
	}
	if cfg.TargetArchitecture != "aarch64" {
		t.Fatalf("TargetArchitecture = %q", cfg.TargetArchitecture)
	}
	if cfg.CFlags != "-O2" {
		t.Fatalf("CFlags = %q", cfg.CFlags)
	}
	if !cfg.SuppressBuildOutput {
		t.Fatal("SuppressBuildOutput = false, want true")
	}
	if cfg.OutputDir != filepath.Join("/tmp/quarry-test", "packages") {
		t.Fatalf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
