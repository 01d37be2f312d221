// Package version compares gwt release versions and checks for newer
// releases.
//
// Comparison uses golang.org/x/mod/semver after normalizing the loose
// forms release tags come in ("1.2", "v1.2.3"). Update checks are rate
// limited through the modification time of a stamp file.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/mod/semver"
)

const (
	// DefaultReleaseURL is the GitHub API endpoint for the latest gwt release.
	DefaultReleaseURL = "https://api.github.com/repos/shinji-kodama/gwt/releases/latest"

	// InstallCommand is shown in update notifications.
	InstallCommand = "go install github.com/shinji-kodama/gwt/cmd/gwt@latest"

	// CheckInterval is the minimum time between automatic update checks.
	CheckInterval = 24 * time.Hour
)

// Compare returns 1 if remote is newer than current, -1 if it is older and
// 0 if they are equal. A leading "v" is optional and missing minor or
// patch components count as zero.
func Compare(current, remote string) int {
	return semver.Compare(canonical(remote), canonical(current))
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")
	return "v" + v
}

// NeedsCheck reports whether the stamp file is missing or older than
// CheckInterval at now.
func NeedsCheck(stamp string, now time.Time) bool {
	info, err := os.Stat(stamp)
	if err != nil {
		return true
	}
	return now.Sub(info.ModTime()) >= CheckInterval
}

// Touch records a check at now. Failures are ignored; the worst outcome is
// checking again next time.
func Touch(stamp string, now time.Time) {
	if err := os.MkdirAll(filepath.Dir(stamp), 0o755); err != nil {
		return
	}
	if _, err := os.Stat(stamp); os.IsNotExist(err) {
		if err := os.WriteFile(stamp, nil, 0o644); err != nil {
			return
		}
	}
	_ = os.Chtimes(stamp, now, now)
}

// UpdateInfo is the outcome of comparing the running build to the latest release.
type UpdateInfo struct {
	CurrentVersion  string `json:"currentVersion"`
	LatestVersion   string `json:"latestVersion"`
	UpdateAvailable bool   `json:"updateAvailable"`
}

// Checker looks up the latest published release.
type Checker struct {
	// URL returns JSON with a "tag_name" field, as the GitHub releases API does.
	URL string

	// Client defaults to a client with a five second timeout.
	Client *http.Client
}

// NewChecker returns a Checker for the official release feed.
func NewChecker() *Checker {
	return &Checker{URL: DefaultReleaseURL, Client: &http.Client{Timeout: 5 * time.Second}}
}

// Latest fetches the newest release tag, without a leading "v".
func (c *Checker) Latest(ctx context.Context) (string, error) {
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "gwt-cli")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup returned %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("failed to decode release: %w", err)
	}
	if release.TagName == "" {
		return "", errors.New("release has no tag")
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

// Check compares current with the latest release. Lookup failures yield an
// UpdateInfo with an empty LatestVersion and no update.
func (c *Checker) Check(ctx context.Context, current string) UpdateInfo {
	info := UpdateInfo{CurrentVersion: current}
	latest, err := c.Latest(ctx)
	if err != nil {
		return info
	}
	info.LatestVersion = latest
	info.UpdateAvailable = Compare(current, latest) > 0
	return info
}

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("214")).
	Padding(0, 2)

// Notification renders a boxed update notice, or "" when no update is available.
func Notification(info UpdateInfo) string {
	if !info.UpdateAvailable {
		return ""
	}
	body := fmt.Sprintf("Update available: %s → %s\nRun: %s",
		info.CurrentVersion, info.LatestVersion, InstallCommand)
	return boxStyle.Render(body)
}
