package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/depaudit/depaudit/pkg/logger"
)

const (
	defaultBaseURL      = "https://pypi.org/pypi"
	defaultGitHubAPIURL = "https://api.github.com"
)

// Project is the metadata the registry returns for a package.
type Project struct {
	Info     Info                     `json:"info"`
	Releases map[string][]ReleaseFile `json:"releases"`
}

// Info contains the descriptive metadata block for a project.
type Info struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Summary      string            `json:"summary"`
	Description  string            `json:"description"`
	License      string            `json:"license"`
	HomePage     string            `json:"home_page"`
	ProjectURLs  map[string]string `json:"project_urls"`
	Classifiers  []string          `json:"classifiers"`
	RequiresDist []string          `json:"requires_dist"`
}

// ReleaseFile contains information about a specific file in a release.
type ReleaseFile struct {
	Filename     string     `json:"filename"`
	PackageType  string     `json:"packagetype"`
	UploadTime   UploadTime `json:"upload_time"`
	Yanked       bool       `json:"yanked"`
	YankedReason string     `json:"yanked_reason"`
}

// UploadTime parses the registry's timestamp formats, with and without a
// zone designator. Malformed values decode to the zero time instead of
// failing the whole response.
type UploadTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *UploadTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

// Client fetches package metadata from the PyPI JSON API and star counts
// from the GitHub API. A zero-value client is not usable; construct with
// NewClient.
type Client struct {
	BaseURL      string
	GitHubAPIURL string
	httpClient   *http.Client
}

// NewClient creates a registry client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		BaseURL:      defaultBaseURL,
		GitHubAPIURL: defaultGitHubAPIURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// Project fetches metadata for the latest release of a package.
func (c *Client) Project(ctx context.Context, name string) (*Project, error) {
	return c.fetch(ctx, fmt.Sprintf("%s/%s/json", c.BaseURL, name))
}

// ProjectVersion fetches metadata for one pinned release of a package.
func (c *Client) ProjectVersion(ctx context.Context, name, version string) (*Project, error) {
	return c.fetch(ctx, fmt.Sprintf("%s/%s/%s/json", c.BaseURL, name, version))
}

func (c *Client) fetch(ctx context.Context, url string) (*Project, error) {
	var project *Project

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("package not found in registry: %s", url))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("registry returned status %s for %s", resp.Status, url)
		}

		var p Project
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding registry response: %w", err))
		}
		project = &p
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = 5 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		logger.Debugf("registry: fetch failed for %s: %v", url, err)
		return nil, err
	}
	return project, nil
}

// Stars returns the GitHub star count for a repository URL, or 0 when the
// count cannot be determined.
func (c *Client) Stars(ctx context.Context, repoURL string) int {
	owner, repo, ok := splitGitHubURL(repoURL)
	if !ok {
		return 0
	}

	url := fmt.Sprintf("%s/repos/%s/%s", c.GitHubAPIURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debugf("registry: star lookup failed for %s: %v", repoURL, err)
		return 0
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0
	}

	var payload struct {
		StargazersCount int `json:"stargazers_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0
	}
	return payload.StargazersCount
}

// splitGitHubURL extracts owner and repository from a GitHub URL such as
// https://github.com/owner/repo.
func splitGitHubURL(raw string) (owner, repo string, ok bool) {
	parts := strings.Split(strings.TrimRight(raw, "/"), "/")
	for i, part := range parts {
		if part == "github.com" && len(parts) > i+2 {
			return parts[i+1], strings.TrimSuffix(parts[i+2], ".git"), true
		}
	}
	return "", "", false
}
