package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/quarrypkg/quarry/internal/config"
	"github.com/quarrypkg/quarry/internal/version"
)

// Parses a recipe script into a [Description].
//
// Extraction runs in two phases: name, version, and release are read
// first with no identity in the environment; every remaining field is
// then read with name/version/release exported, so later fields may
// reference them (a source URL template embedding the version, for
// example). Any field-level failure aborts construction.
func Load(ctx context.Context, cfg *config.Config, path string) (*Description, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEval, err)
	}

	slog.Debug("loading recipe", "path", abs)

	ev, err := NewEvaluator(abs, Environment(cfg, "", "", ""))
	if err != nil {
		return nil, err
	}

	name, err := Field(ctx, ev, "name")
	if err != nil {
		return nil, err
	}
	versionText, err := Field(ctx, ev, "version")
	if err != nil {
		return nil, err
	}
	release, err := Field(ctx, ev, "release")
	if err != nil {
		return nil, err
	}

	parsed, err := version.Parse(versionText)
	if err != nil {
		return nil, err
	}

	full := ev.WithEnv(Environment(cfg, name, versionText, release))

	url, err := Field(ctx, full, "url")
	if err != nil {
		return nil, err
	}
	licenses, err := listField(ctx, full, "licenses")
	if err != nil {
		return nil, err
	}
	dependencies, err := listField(ctx, full, "dependencies")
	if err != nil {
		return nil, err
	}
	buildDependencies, err := listField(ctx, full, "build_dependencies")
	if err != nil {
		return nil, err
	}
	sources, err := listField(ctx, full, "sources")
	if err != nil {
		return nil, err
	}
	sums, err := listField(ctx, full, "sha256sums")
	if err != nil {
		return nil, err
	}
	options, err := listField(ctx, full, "package_options")
	if err != nil {
		return nil, err
	}

	return NewDescription(Description{
		Name:              name,
		Version:           parsed,
		Release:           release,
		URL:               url,
		Licenses:          licenses,
		Dependencies:      dependencies,
		BuildDependencies: buildDependencies,
		Sources:           sources,
		SHA256Sums:        sums,
		AvailableOptions:  options,
	})
}

// Extracts one declared field from a recipe.
//
// Rules, in order: a name defined as both a variable and a function is
// ambiguous and fatal; a function is invoked and its output captured; a
// variable is read directly; an undefined name is fatal. The
// indirection lets a recipe compute a field dynamically while plain
// static declarations keep working.
func Field(ctx context.Context, ev Evaluator, name string) (string, error) {
	hasVar, err := ev.HasVariable(ctx, name)
	if err != nil {
		return "", err
	}
	hasFn, err := ev.HasFunction(ctx, name)
	if err != nil {
		return "", err
	}

	switch {
	case hasVar && hasFn:
		return "", fmt.Errorf("%w: %q", ErrAmbiguousField, name)
	case hasFn:
		return ev.InvokeFunction(ctx, name)
	case hasVar:
		return ev.ReadVariable(ctx, name)
	}

	return "", fmt.Errorf("%w: %q", ErrMissingField, name)
}

// Extracts an array-valued field as a slice of whitespace-separated
// entries. An empty declaration yields an empty slice.
func listField(ctx context.Context, ev Evaluator, name string) ([]string, error) {
	value, err := Field(ctx, ev, name)
	if err != nil {
		return nil, err
	}
	return strings.Fields(value), nil
}
