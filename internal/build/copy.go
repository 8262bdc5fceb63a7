package build

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/quarrypkg/quarry/internal/paths"
)

// Copies a file or directory tree into a destination directory.
//
// The copy keeps the source's basename, so copying /a/b into /dest
// produces /dest/b. Permissions are preserved on regular files.
func copyPath(src, destDir string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	dest := filepath.Join(destDir, filepath.Base(src))

	if info.IsDir() {
		return copyTree(src, dest)
	}
	return copyFile(src, dest, info.Mode().Perm())
}

// Copies a directory tree.
func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, relPath)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, paths.DefaultDirMode)

		case d.Type()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)

		default:
			info, err := d.Info()
			if err != nil {
				return err
			}
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

// Copies a single regular file.
func copyFile(src, dest string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
