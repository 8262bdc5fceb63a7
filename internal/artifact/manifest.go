package artifact

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/quarrypkg/quarry/internal/paths"
)

const (

	// Per-file manifest embedded at the package root.
	ManifestFilename = ".files"

	// Build fingerprint embedded at the package root.
	FingerprintFilename = ".fingerprint"

	// Metadata record embedded at the package root.
	MetadataFilename = ".pkginfo"
)

// Filenames excluded from the manifest.
var reservedFilenames = map[string]bool{
	ManifestFilename:    true,
	FingerprintFilename: true,
	MetadataFilename:    true,
}

// Writes the per-file manifest for a package tree.
//
// Every regular file under the root, except the reserved metadata
// files, contributes one line: octal permission bits, sha256 hex
// digest, byte size, and filename. The manifest is consumed downstream
// to verify installed-file integrity.
func WriteManifest(packageRoot string) error {
	info, err := os.Stat(packageRoot)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, packageRoot)
	}

	var lines strings.Builder

	err = filepath.WalkDir(packageRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || reservedFilenames[d.Name()] {
			return nil
		}

		line, err := manifestLine(path, d)
		if err != nil {
			return err
		}
		lines.WriteString(line)

		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPackaging, err)
	}

	dest := filepath.Join(packageRoot, ManifestFilename)
	if err := os.WriteFile(dest, []byte(lines.String()), paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrPackaging, err)
	}

	return nil
}

// Produces one manifest line for a regular file.
func manifestLine(path string, d fs.DirEntry) (string, error) {
	info, err := d.Info()
	if err != nil {
		return "", err
	}

	sum, err := fileDigest(path)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%03o %s %d %s\n",
		info.Mode().Perm(), sum, info.Size(), d.Name()), nil
}

// Computes the hex sha256 digest of a file's content.
func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sum, err := digest.Canonical.FromReader(f)
	if err != nil {
		return "", err
	}

	return sum.Encoded(), nil
}
