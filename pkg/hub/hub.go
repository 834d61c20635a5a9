package hub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var DebugLog func(string, ...interface{})

// Errors mirror the hub's documented failure modes. ErrUnauthorized in
// particular carries the remediation the runbook gives operators: a stale
// cached token keeps getting rejected until it is cleared.
var (
	ErrUnauthorized = errors.New("hub rejected the access token (clear the cached token and re-authenticate, then retry)")
	ErrForbidden    = errors.New("hub denied access to the repository (check repository permissions and storage quota)")
	ErrNotFound     = errors.New("repository or file not found on the hub")
)

// DefaultModelFiles are the artifacts a merged checkpoint upload or download
// moves by default.
var DefaultModelFiles = []string{
	"config.json",
	"generation_config.json",
	"tokenizer.json",
	"tokenizer_config.json",
	"model.safetensors",
}

// Client transfers model artifacts to and from the model hub.
type Client struct {
	endpoint string
	token    string
	client   *http.Client
}

func New(endpoint, token string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = "https://huggingface.co"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Minute}
	}
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		token:    token,
		client:   httpClient,
	}
}

// Download pulls the named files of a repository into destDir. Files already
// present are skipped unless force is set, so an interrupted pull can simply
// be re-run.
func (c *Client) Download(ctx context.Context, repo string, files []string, destDir string, force bool) error {
	if repo == "" {
		return fmt.Errorf("repository is required")
	}
	if len(files) == 0 {
		files = DefaultModelFiles
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	for _, name := range files {
		destPath := filepath.Join(destDir, name)

		if !force {
			if _, err := os.Stat(destPath); err == nil {
				if DebugLog != nil {
					DebugLog("skipping %s, already present", name)
				}
				continue
			}
		}

		url := fmt.Sprintf("%s/%s/resolve/main/%s", c.endpoint, repo, name)
		if err := c.downloadFile(ctx, url, destPath); err != nil {
			return fmt.Errorf("failed to download %s: %w", name, err)
		}
	}

	return nil
}

func (c *Client) downloadFile(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	if DebugLog != nil {
		DebugLog("downloading %s", url)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return err
	}

	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, dest)
}

// Upload pushes local files into the repository. Every file is a single
// authenticated PUT; the hub versions commits on its side.
func (c *Client) Upload(ctx context.Context, repo string, paths []string, message string) error {
	if repo == "" {
		return fmt.Errorf("repository is required")
	}
	if c.token == "" {
		return ErrUnauthorized
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files to upload")
	}
	if message == "" {
		message = "upload model artifacts"
	}

	for _, path := range paths {
		if err := c.uploadFile(ctx, repo, path, message); err != nil {
			return fmt.Errorf("failed to upload %s: %w", filepath.Base(path), err)
		}
	}

	return nil
}

func (c *Client) uploadFile(ctx context.Context, repo, path, message string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/models/%s/upload/main/%s", c.endpoint, repo, filepath.Base(path))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, file)
	if err != nil {
		return err
	}
	c.authorize(req)
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("X-Commit-Message", message)

	if DebugLog != nil {
		DebugLog("uploading %s (%d bytes) to %s", filepath.Base(path), info.Size(), repo)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return statusError(resp.StatusCode)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", "armorytune")
}

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("hub returned status %d", code)
	}
}
