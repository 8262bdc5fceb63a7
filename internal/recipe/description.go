package recipe

import (
	"fmt"

	"github.com/quarrypkg/quarry/internal/version"
)

// The structured, immutable result of parsing one recipe.
type Description struct {
	Name    string        // Package name.
	Version version.Value // Package version.
	Release string        // Release qualifier, incremented independently of the version.
	URL     string        // Upstream project URL.

	Licenses          []string // Declared licenses.
	Dependencies      []string // Runtime dependencies, in declaration order.
	BuildDependencies []string // Build-time dependencies, in declaration order.
	Sources           []string // Source URLs or paths, in declaration order.
	SHA256Sums        []string // Expected checksums, positionally paired with Sources.
	AvailableOptions  []string // Options the recipe declares as selectable.
}

// Validates and freezes a description.
//
// A mismatch between the source and checksum counts is a construction
// error; no description with unpaired sources ever exists.
func NewDescription(d Description) (*Description, error) {
	if len(d.Sources) != len(d.SHA256Sums) {
		return nil, fmt.Errorf("%w: %d sources vs %d sha256sums",
			ErrSourceCountMismatch, len(d.Sources), len(d.SHA256Sums))
	}
	return &d, nil
}
