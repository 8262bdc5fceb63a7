package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/quarrypkg/quarry/internal/paths"
)

// Computes the build fingerprint of a recipe.
//
// The fingerprint is the sha256 over the literal recipe script bytes
// concatenated with the target architecture string. It depends on
// nothing else, so identical recipes targeting the same architecture
// always fingerprint identically. It is the content-addressing key
// for a prospective binary cache.
func Fingerprint(recipeBytes []byte, architecture string) string {
	digester := digest.Canonical.Digester()
	digester.Hash().Write(recipeBytes)
	digester.Hash().Write([]byte(architecture))
	return digester.Digest().Encoded()
}

// Writes the fingerprint file at the package root.
func WriteFingerprint(packageRoot, fingerprint string) error {
	dest := filepath.Join(packageRoot, FingerprintFilename)
	if err := os.WriteFile(dest, []byte(fingerprint+"\n"), paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrPackaging, err)
	}
	return nil
}
