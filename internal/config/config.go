package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/quarrypkg/quarry/internal/paths"
)

const (

	// Prefix for environment variable overrides (e.g. QUARRY_TARGET_ARCHITECTURE).
	envPrefix = "QUARRY"

	// Recipe file suffix used by repository lookup.
	defaultRecipeSuffix = ".recipe"

	// Package archive suffix used by the final archival step.
	defaultPackageSuffix = ".pkg.tar.gz"
)

// Holds every knob the engine's components consume.
//
// A Config is constructed once by [Load] and passed explicitly to each
// component; there is no package-level configuration state. Command
// handlers may overwrite individual fields from flags before handing
// the value on.
type Config struct {
	Root string // Root directory for all mutable state.

	WorkspaceDir       string // Build workspace root for one in-flight build.
	RepositoryCacheDir string // Parent directory of all repository clones.
	OutputDir          string // Destination for finished package archives.

	Repositories   []string // Recipe repositories, remote URLs or local paths, in search order.
	PackageStreams []string // Stream subdirectories searched within each repository, in order.

	RecipeSuffix  string // Filename suffix identifying recipe files.
	PackageSuffix string // Filename suffix of produced package archives.

	TargetArchitecture string // Architecture string baked into fingerprints and hook environments.

	CFlags     string // C compiler flags exported to hooks.
	CPPFlags   string // C++ compiler flags exported to hooks.
	LDFlags    string // Linker flags exported to hooks.
	MakeFlags  string // Flags exported to make-based builds.
	NinjaFlags string // Flags exported to ninja-based builds.

	SuppressBuildOutput     bool // Discard hook output instead of streaming it.
	ShowDownloadProgress    bool // Report download progress at info level.
	SkipPackageCheck        bool // Bypass the check stage entirely.
	KeepWorkspaceOnFailure  bool // Preserve the workspace of a failed build for inspection.
	DeleteExistingWorkspace bool // Remove a pre-existing workspace root instead of failing.
}

// Loads the configuration from disk and environment.
//
// The file is TOML and discovered in order: the explicit path when
// non-empty, $XDG_CONFIG_HOME/quarry, /etc/quarry, and the current
// directory. A missing file is not an error; every key has a default.
// Environment variables prefixed with QUARRY_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(paths.Config())
		v.AddConfigPath("/etc/quarry")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %w", ErrConfigLoad, err)
		}
		slog.Debug("no configuration file found, using defaults", "default", paths.ConfigFile())
	} else {
		slog.Debug("configuration loaded", "file", v.ConfigFileUsed())
	}

	root := v.GetString("root")

	cfg := &Config{
		Root: root,

		WorkspaceDir:       filepath.Join(root, "workspace"),
		RepositoryCacheDir: filepath.Join(root, "repositories"),
		OutputDir:          filepath.Join(root, "packages"),

		Repositories:   v.GetStringSlice("repository.repositories"),
		PackageStreams: v.GetStringSlice("repository.package_streams"),

		RecipeSuffix:  v.GetString("repository.recipe_suffix"),
		PackageSuffix: v.GetString("package.suffix"),

		TargetArchitecture: v.GetString("environment.target_architecture"),

		CFlags:     v.GetString("build.c_flags"),
		CPPFlags:   v.GetString("build.cpp_flags"),
		LDFlags:    v.GetString("build.ld_flags"),
		MakeFlags:  v.GetString("build.make_flags"),
		NinjaFlags: v.GetString("build.ninja_flags"),

		SuppressBuildOutput:  v.GetBool("general.suppress_build_output"),
		ShowDownloadProgress: v.GetBool("general.show_download_progress"),
	}

	return cfg, nil
}

// Path of the workspace directory holding fetched sources.
func (c *Config) SourceDir() string {
	return filepath.Join(c.WorkspaceDir, "source")
}

// Path of the workspace directory builds run in.
func (c *Config) BuildDir() string {
	return filepath.Join(c.WorkspaceDir, "build")
}

// Path of the workspace directory packaging hooks populate.
func (c *Config) PackageDir() string {
	return filepath.Join(c.WorkspaceDir, "package")
}

// Seeds every configuration key with its default value.
func setDefaults(v *viper.Viper) {
	v.SetDefault("root", paths.DataRoot())
	v.SetDefault("repository.repositories", []string{})
	v.SetDefault("repository.package_streams", []string{"core"})
	v.SetDefault("repository.recipe_suffix", defaultRecipeSuffix)
	v.SetDefault("package.suffix", defaultPackageSuffix)
	v.SetDefault("environment.target_architecture", "x86_64")
	v.SetDefault("build.c_flags", "")
	v.SetDefault("build.cpp_flags", "")
	v.SetDefault("build.ld_flags", "")
	v.SetDefault("build.make_flags", "")
	v.SetDefault("build.ninja_flags", "")
	v.SetDefault("general.suppress_build_output", false)
	v.SetDefault("general.show_download_progress", true)
}
