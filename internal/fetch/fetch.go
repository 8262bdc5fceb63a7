package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/quarrypkg/quarry/internal/paths"
)

// Downloads a URL into a destination directory.
//
// The local filename is the final path element of the URL. The response
// body is streamed to disk; a partially written file is removed on
// failure. Returns the path of the downloaded file.
func Download(ctx context.Context, rawURL, destDir string) (string, error) {
	name, err := filename(rawURL)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(destDir, name)

	slog.Debug("downloading", "url", rawURL, "dest", dest)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned status %d", ErrDownload, rawURL, resp.StatusCode)
	}

	if err := writeFile(dest, resp.Body); err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	return dest, nil
}

// Extracts the local filename from a URL.
func filename(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDownload, err)
	}

	name := path.Base(parsed.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("%w: no filename in %q", ErrDownload, rawURL)
	}

	return name, nil
}

// Streams a reader to a file, removing the file on failure.
func writeFile(dest string, body io.Reader) error {
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}

	return f.Close()
}
