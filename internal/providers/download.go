package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DownloadToTemp streams mediaURL into a temp file and returns its path.
// The caller owns the file and removes it when the run is done.
func DownloadToTemp(ctx context.Context, client *http.Client, mediaURL, prefix, ext string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", mediaURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: http %d", mediaURL, resp.StatusCode)
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d%s", prefix, time.Now().UnixNano(), ext))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("stream %s: %w", mediaURL, err)
	}
	if n == 0 {
		os.Remove(path)
		return "", fmt.Errorf("download %s: empty body", mediaURL)
	}
	return path, nil
}
