package artifact

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/quarrypkg/quarry/internal/recipe"
	"github.com/quarrypkg/quarry/internal/version"
)

func TestWriteManifestSingleFile(t *testing.T) {
	root := t.TempDir()

	if err := os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := WriteManifest(root); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, ManifestFilename))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	want := "644 5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03 6 hello.txt\n"
	if string(data) != want {
		t.Fatalf("manifest line = %q, want %q", string(data), want)
	}
}

func TestWriteManifestSkipsReservedFiles(t *testing.T) {
	root := t.TempDir()

	for _, name := range []string{FingerprintFilename, MetadataFilename, "real.bin"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := WriteManifest(root); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, ManifestFilename))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	manifest := string(data)
	if !strings.Contains(manifest, "real.bin") {
		t.Fatalf("manifest does not list real.bin: %q", manifest)
	}
	for _, reserved := range []string{FingerprintFilename, MetadataFilename, ManifestFilename} {
		if strings.Contains(manifest, reserved) {
			t.Fatalf("manifest lists reserved file %s: %q", reserved, manifest)
		}
	}
}

func TestWriteManifestRejectsNonDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if err := WriteManifest(file); !errors.Is(err, ErrNotADirectory) {
		t.Fatalf("err = %v, want ErrNotADirectory", err)
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	script := []byte("name=foo\nversion=1.0\n")

	a := Fingerprint(script, "x86_64")
	b := Fingerprint(script, "x86_64")
	if a != b {
		t.Fatalf("same inputs fingerprinted differently: %s vs %s", a, b)
	}

	if c := Fingerprint(script, "aarch64"); c == a {
		t.Fatal("different architectures produced the same fingerprint")
	}
	if d := Fingerprint([]byte("name=bar\n"), "x86_64"); d == a {
		t.Fatal("different scripts produced the same fingerprint")
	}
}

func TestWriteFingerprint(t *testing.T) {
	root := t.TempDir()

	if err := WriteFingerprint(root, "abc123"); err != nil {
		t.Fatalf("WriteFingerprint: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, FingerprintFilename))
	if err != nil {
		t.Fatalf("read fingerprint: %v", err)
	}
	if string(data) != "abc123\n" {
		t.Fatalf("fingerprint file = %q", string(data))
	}
}

func TestWriteMetadata(t *testing.T) {
	root := t.TempDir()

	ver, err := version.Parse("2.1")
	if err != nil {
		t.Fatalf("parse version: %v", err)
	}

	desc := &recipe.Description{
		Name:     "foo",
		Version:  ver,
		Release:  "3",
		URL:      "https://example.org/foo",
		Licenses: []string{"MIT", "Apache-2.0"},
	}

	if err := WriteMetadata(root, desc); err != nil {
		t.Fatalf("WriteMetadata: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, MetadataFilename))
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}

	text := string(data)
	for _, want := range []string{
		"name=\"foo\"\n",
		"version=\"2.1\"\n",
		"release=\"3\"\n",
		"licenses=(MIT Apache-2.0)\n",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metadata missing %q:\n%s", want, text)
		}
	}
	if !strings.HasPrefix(text, "# Generated by quarry") {
		t.Fatalf("metadata missing generator signature:\n%s", text)
	}
}

func TestCompressExtractRoundtrip(t *testing.T) {
	src := t.TempDir()

	if err := os.MkdirAll(filepath.Join(src, "usr", "bin"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "usr", "bin", "tool"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write tool: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "readme"), []byte("docs\n"), 0o644); err != nil {
		t.Fatalf("write readme: %v", err)
	}
	if err := os.Symlink("usr/bin/tool", filepath.Join(src, "tool")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	archive := filepath.Join(t.TempDir(), "pkg.tar.gz")
	if err := Compress(src, archive); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !IsArchive(archive) {
		t.Fatal("IsArchive rejected a freshly written archive")
	}

	dest := t.TempDir()
	if err := Extract(archive, dest); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "usr", "bin", "tool"))
	if err != nil {
		t.Fatalf("read extracted file: %v", err)
	}
	if string(data) != "#!/bin/sh\n" {
		t.Fatalf("extracted content = %q", string(data))
	}

	info, err := os.Stat(filepath.Join(dest, "usr", "bin", "tool"))
	if err != nil {
		t.Fatalf("stat extracted file: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Fatalf("extracted mode = %o, want 755", info.Mode().Perm())
	}

	target, err := os.Readlink(filepath.Join(dest, "tool"))
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if target != "usr/bin/tool" {
		t.Fatalf("symlink target = %q", target)
	}
}

func TestCompressRecordsRootOwnership(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "tool"), []byte("bin\n"), 0o755); err != nil {
		t.Fatalf("write file: %v", err)
	}

	archive := filepath.Join(t.TempDir(), "pkg.tar.gz")
	if err := Compress(src, archive); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	f, err := os.Open(archive)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}

	tr := tar.NewReader(gz)
	entries := 0
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read entry: %v", err)
		}
		entries++

		if header.Uid != 0 || header.Gid != 0 {
			t.Fatalf("entry %s owned by %d:%d, want 0:0", header.Name, header.Uid, header.Gid)
		}
		if header.Uname != "root" || header.Gname != "root" {
			t.Fatalf("entry %s owner names %s:%s, want root:root", header.Name, header.Uname, header.Gname)
		}
	}
	if entries == 0 {
		t.Fatal("archive holds no entries")
	}
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	content := []byte("evil")
	if err := tw.WriteHeader(&tar.Header{
		Name: "../escape.txt",
		Mode: 0o644,
		Size: int64(len(content)),
	}); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatalf("write body: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}

	archive := filepath.Join(t.TempDir(), "evil.tar")
	if err := os.WriteFile(archive, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	dest := t.TempDir()
	if err := Extract(archive, dest); !errors.Is(err, ErrExtract) {
		t.Fatalf("err = %v, want ErrExtract", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dest), "escape.txt")); err == nil {
		t.Fatal("escaping entry was written outside the destination")
	}
}

func TestIsArchiveRejectsPlainFiles(t *testing.T) {
	plain := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(plain, []byte("just text, long enough to not matter"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if IsArchive(plain) {
		t.Fatal("IsArchive accepted a plain text file")
	}
}
