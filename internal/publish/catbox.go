package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"animal-reels-bot/internal/logging"
)

const catboxBaseURL = "https://catbox.moe/user/api.php"

// CatboxUploader pushes a finished reel to the file host. The response body
// is host-defined; it is treated as opaque text containing the public URL.
type CatboxUploader struct {
	client  *http.Client
	baseURL string
	log     *logging.Logger
}

func NewCatboxUploader(client *http.Client, log *logging.Logger) *CatboxUploader {
	return &CatboxUploader{client: client, baseURL: catboxBaseURL, log: log}
}

func (u *CatboxUploader) Upload(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open reel: %w", err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	_ = writer.WriteField("reqtype", "fileupload")

	part, err := writer.CreateFormFile("fileToUpload", filepath.Base(filePath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copy reel data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("catbox upload: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("catbox upload: http %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}

	link := strings.TrimSpace(string(text))
	if link == "" {
		return "", fmt.Errorf("catbox upload: empty response")
	}
	u.log.Infof("catbox: uploaded %s -> %s", filePath, link)
	return link, nil
}
