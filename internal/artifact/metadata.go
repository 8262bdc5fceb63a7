package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quarrypkg/quarry/internal"
	"github.com/quarrypkg/quarry/internal/paths"
	"github.com/quarrypkg/quarry/internal/recipe"
)

// Writes the plain-text metadata record at the package root.
//
// The record mirrors every description field as key="value" or
// key=(space-separated-list) and opens with a generator signature, so
// an installed package can always be traced back to its recipe.
func WriteMetadata(packageRoot string, desc *recipe.Description) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Generated by %s %s\n", internal.Name, internal.Version())
	fmt.Fprintf(&b, "name=%q\n", desc.Name)
	fmt.Fprintf(&b, "version=%q\n", desc.Version.String())
	fmt.Fprintf(&b, "release=%q\n", desc.Release)
	fmt.Fprintf(&b, "url=%q\n", desc.URL)
	fmt.Fprintf(&b, "licenses=(%s)\n", strings.Join(desc.Licenses, " "))
	fmt.Fprintf(&b, "dependencies=(%s)\n", strings.Join(desc.Dependencies, " "))
	fmt.Fprintf(&b, "build_dependencies=(%s)\n", strings.Join(desc.BuildDependencies, " "))
	fmt.Fprintf(&b, "sources=(%s)\n", strings.Join(desc.Sources, " "))
	fmt.Fprintf(&b, "sha256sums=(%s)\n", strings.Join(desc.SHA256Sums, " "))
	fmt.Fprintf(&b, "package_options=(%s)\n", strings.Join(desc.AvailableOptions, " "))

	dest := filepath.Join(packageRoot, MetadataFilename)
	if err := os.WriteFile(dest, []byte(b.String()), paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrPackaging, err)
	}

	return nil
}
