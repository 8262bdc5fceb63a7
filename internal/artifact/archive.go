package artifact

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/quarrypkg/quarry/internal/paths"
)

// Magic bytes identifying a gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// Magic at offset 257 of a tar header block.
var tarMagic = []byte("ustar")

// Compresses a directory tree into a gzip-compressed tar archive.
//
// Entry names are relative to the directory root and permissions are
// preserved. Ownership is recorded as root:root for every entry; the
// archival step runs outside any fakeroot session, so on-disk uid/gid
// reflect the invoking user, not the package's intent.
func Compress(dir, archivePath string) error {
	out, err := os.OpenFile(archivePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPackaging, err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		return writeTarEntry(tw, path, filepath.ToSlash(relPath), d)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPackaging, err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrPackaging, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrPackaging, err)
	}

	return out.Close()
}

// Writes a single file, directory, or symlink entry to a tar writer.
func writeTarEntry(tw *tar.Writer, hostPath, archivePath string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	link := ""
	if info.Mode()&os.ModeSymlink != 0 {
		if link, err = os.Readlink(hostPath); err != nil {
			return err
		}
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	header.Name = archivePath
	header.Uid, header.Gid = 0, 0
	header.Uname, header.Gname = "root", "root"

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		f, err := os.Open(hostPath)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	}

	return nil
}

// Extracts a tar or tar.gz archive into a destination directory.
//
// Entry names escaping the destination are rejected.
func Extract(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExtract, err)
	}
	defer f.Close()

	var reader io.Reader = f

	if compressed, err := hasMagic(f, 0, gzipMagic); err != nil {
		return fmt.Errorf("%w: %w", ErrExtract, err)
	} else if compressed {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExtract, err)
		}
		defer gz.Close()
		reader = gz
	}

	tr := tar.NewReader(reader)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExtract, err)
		}

		if err := extractEntry(tr, header, destDir); err != nil {
			return fmt.Errorf("%w: %w", ErrExtract, err)
		}
	}
}

// Materializes one archive entry under the destination directory.
func extractEntry(tr *tar.Reader, header *tar.Header, destDir string) error {
	name := filepath.FromSlash(header.Name)
	if !filepath.IsLocal(name) {
		return fmt.Errorf("archive entry escapes destination: %q", header.Name)
	}

	dest := filepath.Join(destDir, name)

	switch header.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(dest, header.FileInfo().Mode().Perm())

	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(dest), paths.DefaultDirMode); err != nil {
			return err
		}
		return os.Symlink(header.Linkname, dest)

	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(dest), paths.DefaultDirMode); err != nil {
			return err
		}

		out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, header.FileInfo().Mode().Perm())
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	}

	// Other entry types (devices, fifos) have no business in a source
	// archive and are skipped.
	return nil
}

// Whether a local file is a tar-family archive this package can
// extract: a gzip stream or a plain ustar tar.
func IsArchive(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	if ok, err := hasMagic(f, 0, gzipMagic); err == nil && ok {
		return true
	}

	ok, err := hasMagic(f, 257, tarMagic)
	return err == nil && ok
}

// Whether the file contains the given magic bytes at an offset.
//
// The file position is restored afterwards.
func hasMagic(f *os.File, offset int64, magic []byte) (bool, error) {
	buf := make([]byte, len(magic))

	if _, err := f.ReadAt(buf, offset); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}

	return bytes.Equal(buf, magic), nil
}
