package update

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"
)

const (
	GitHubAPI     = "https://api.github.com/repos/easonai/armorytune/releases/latest"
	UpdateTimeout = 30 * time.Second
)

// GitHubRelease is the subset of the releases API response the updater
// needs: the tag to compare against and the downloadable assets.
type GitHubRelease struct {
	TagName     string `json:"tag_name"`
	Name        string `json:"name"`
	PublishedAt string `json:"published_at"`
	Assets      []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
		Size               int64  `json:"size"`
	} `json:"assets"`
}

// AssetFor returns the download URL of the named release asset.
func (r *GitHubRelease) AssetFor(name string) (string, bool) {
	for _, asset := range r.Assets {
		if asset.Name == name {
			return asset.BrowserDownloadURL, true
		}
	}
	return "", false
}

func GetLatestVersion() (*GitHubRelease, error) {
	client := &http.Client{Timeout: UpdateTimeout}

	req, err := http.NewRequest("GET", GitHubAPI, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "armorytune-updater")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest version: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &release, nil
}

// CompareVersions reports whether latest is newer than current. Tags may
// carry a leading "v" and fewer than three segments.
func CompareVersions(current, latest string) bool {
	current = strings.TrimPrefix(current, "v")
	latest = strings.TrimPrefix(latest, "v")

	currentParts := strings.Split(current, ".")
	latestParts := strings.Split(latest, ".")

	for i := 0; i < 3; i++ {
		var c, l int
		if i < len(currentParts) {
			fmt.Sscanf(currentParts[i], "%d", &c)
		}
		if i < len(latestParts) {
			fmt.Sscanf(latestParts[i], "%d", &l)
		}

		if l != c {
			return l > c
		}
	}

	return false
}

// GetBinaryName builds the release asset name for the running platform,
// armorytune_<os>_<arch>, matching the names goreleaser publishes.
func GetBinaryName() string {
	name := fmt.Sprintf("armorytune_%s_%s", runtime.GOOS, runtime.GOARCH)
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return name
}

// DownloadBinary fetches url into outputPath via a .part temp file, so a
// failed download never leaves a truncated binary behind.
func DownloadBinary(url, outputPath string, verbose bool) error {
	if verbose {
		fmt.Printf("[UPDATE] Downloading from %s\n", url)
	}

	client := &http.Client{Timeout: 5 * time.Minute}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	if verbose && resp.ContentLength > 0 {
		fmt.Printf("[UPDATE] Downloading %d MB...\n", resp.ContentLength/(1024*1024))
	}

	partPath := outputPath + ".part"
	out, err := os.Create(partPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(partPath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := out.Chmod(0755); err != nil {
		out.Close()
		os.Remove(partPath)
		return fmt.Errorf("failed to set executable permission: %w", err)
	}

	if err := out.Close(); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(partPath, outputPath); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("failed to finalize download: %w", err)
	}

	if verbose {
		fmt.Println("[UPDATE] Download complete")
	}

	return nil
}

// UpdateBinary swaps newPath in place of the running binary.
func UpdateBinary(currentPath, newPath string, verbose bool) error {
	if verbose {
		fmt.Printf("[UPDATE] Replacing binary at %s\n", currentPath)
	}

	if err := os.Remove(currentPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove old binary: %w", err)
	}

	if err := os.Rename(newPath, currentPath); err != nil {
		return fmt.Errorf("failed to replace binary: %w", err)
	}

	return nil
}

// CheckAndUpdate compares the running version against the latest GitHub
// release and, when newer, downloads the platform asset and replaces the
// current binary.
func CheckAndUpdate(currentVersion string, verbose bool) error {
	if verbose {
		fmt.Println("[UPDATE] Checking for updates...")
	}

	release, err := GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	latestVersion := release.TagName

	if verbose {
		fmt.Printf("[UPDATE] Current version: %s\n", currentVersion)
		fmt.Printf("[UPDATE] Latest version:  %s\n", latestVersion)
	}

	if !CompareVersions(currentVersion, latestVersion) {
		fmt.Printf("You are already running the latest version (%s)\n", currentVersion)
		return nil
	}

	fmt.Printf("New version available: %s -> %s\n", currentVersion, latestVersion)
	fmt.Println()

	binaryName := GetBinaryName()
	downloadURL, ok := release.AssetFor(binaryName)
	if !ok {
		return fmt.Errorf("release %s has no asset for %s/%s", latestVersion, runtime.GOOS, runtime.GOARCH)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	tempPath := execPath + ".new"

	fmt.Println("Downloading update...")
	if err := DownloadBinary(downloadURL, tempPath, verbose); err != nil {
		os.Remove(tempPath)
		return err
	}

	fmt.Println("Installing update...")
	if err := UpdateBinary(execPath, tempPath, verbose); err != nil {
		os.Remove(tempPath)
		return err
	}

	fmt.Printf("\n✓ Successfully updated to version %s\n", latestVersion)
	fmt.Println("Please restart armorytune to use the new version")

	return nil
}
