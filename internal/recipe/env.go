package recipe

import (
	"os"

	"github.com/quarrypkg/quarry/internal"
	"github.com/quarrypkg/quarry/internal/config"
)

// Assembles the fixed environment recipes run under.
//
// This is the complete set: field evaluation and hook execution both
// receive exactly these variables, so builds behave the same regardless
// of the invoking context. PATH is carried over explicitly so hooks can
// locate their toolchains. Identity fields are included only once
// known, which is what makes the two-phase extraction possible.
func Environment(cfg *config.Config, name, versionText, release string) []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"quarry_build=1",
		"quarry_version=" + internal.Version(),
		"source_directory=" + cfg.SourceDir(),
		"build_directory=" + cfg.BuildDir(),
		"package_directory=" + cfg.PackageDir(),
		"target_architecture=" + cfg.TargetArchitecture,
		"target_platform=linux",
		"c_flags=" + cfg.CFlags,
		"cpp_flags=" + cfg.CPPFlags,
		"ld_flags=" + cfg.LDFlags,
		"make_flags=" + cfg.MakeFlags,
		"ninja_flags=" + cfg.NinjaFlags,
	}

	if name != "" {
		env = append(env, "name="+name)
	}
	if versionText != "" {
		env = append(env, "version="+versionText)
	}
	if release != "" {
		env = append(env, "release="+release)
	}

	return env
}
