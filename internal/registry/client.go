// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultModrinthAPI    = "https://api.modrinth.com"
	DefaultModrinthMaven  = "https://api.modrinth.com/maven"
	DefaultCFWidgetAPI    = "https://api.cfwidget.com"
	DefaultGitHubDownload = "https://github.com"

	defaultUserAgent = "RubixDev/carpet-database"
	defaultTimeout   = 5 * time.Minute
)

// ErrNotFound is returned when a registry has no entry for the requested project.
var ErrNotFound = errors.New("not found")

type (
	// StatusError reports a non-success HTTP status for a URL.
	StatusError struct {
		URL        string
		StatusCode int
		Status     string
	}

	// Client is a shared HTTP client for every registry. It is constructed
	// once and passed to the components that need network access.
	Client struct {
		http *resty.Client

		modrinthAPI    string
		modrinthMaven  string
		cfwidgetAPI    string
		githubDownload string
		githubToken    string
	}

	// Option configures a Client during construction.
	Option func(*Client)
)

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", redactURL(e.URL), e.Status)
}

// Is matches ErrNotFound for 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}

// WithModrinthAPI overrides the Modrinth API base URL.
func WithModrinthAPI(base string) Option {
	return func(c *Client) { c.modrinthAPI = strings.TrimRight(base, "/") }
}

// WithModrinthMaven overrides the Modrinth maven base URL.
func WithModrinthMaven(base string) Option {
	return func(c *Client) { c.modrinthMaven = strings.TrimRight(base, "/") }
}

// WithCFWidgetAPI overrides the cfwidget API base URL.
func WithCFWidgetAPI(base string) Option {
	return func(c *Client) { c.cfwidgetAPI = strings.TrimRight(base, "/") }
}

// WithGitHubDownload overrides the host GitHub release assets are fetched from.
func WithGitHubDownload(base string) Option {
	return func(c *Client) { c.githubDownload = strings.TrimRight(base, "/") }
}

// WithGitHubToken attaches a token to requests for GitHub release assets.
func WithGitHubToken(token string) Option {
	return func(c *Client) { c.githubToken = token }
}

// WithUserAgent sets the User-Agent header sent with every request.
// Modrinth asks API consumers to identify themselves.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.http.SetHeader("User-Agent", ua) }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// NewClient creates a Client with the public registry endpoints.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetHeader("User-Agent", defaultUserAgent).
			SetTimeout(defaultTimeout),
		modrinthAPI:    DefaultModrinthAPI,
		modrinthMaven:  DefaultModrinthMaven,
		cfwidgetAPI:    DefaultCFWidgetAPI,
		githubDownload: DefaultGitHubDownload,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ModrinthMavenURL returns the maven URL of a specific file of a Modrinth version.
func (c *Client) ModrinthMavenURL(slug, version, filename string) string {
	return fmt.Sprintf("%s/maven/modrinth/%s/%s/%s",
		c.modrinthMaven, url.PathEscape(slug), url.PathEscape(version), url.PathEscape(filename))
}

// GitHubAssetURL returns the download URL of a release asset.
func (c *Client) GitHubAssetURL(repo, tag, asset string) string {
	return fmt.Sprintf("%s/%s/releases/download/%s/%s",
		c.githubDownload, repo, url.PathEscape(tag), url.PathEscape(asset))
}

// Download fetches rawURL into dest. The file is written next to dest and
// renamed into place once the body has been read completely.
func (c *Client) Download(ctx context.Context, rawURL, dest string) error {
	req := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)
	if c.githubToken != "" && strings.HasPrefix(rawURL, c.githubDownload+"/") {
		req.SetAuthToken(c.githubToken)
	}

	resp, err := req.Get(rawURL)
	if err != nil {
		return fmt.Errorf("GET %s: %w", redactURL(rawURL), err)
	}
	body := resp.RawBody()
	defer func() { _ = body.Close() }() // read-only response body

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return &StatusError{URL: rawURL, StatusCode: resp.StatusCode(), Status: resp.Status()}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dest), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.part")
	if err != nil {
		return fmt.Errorf("create download file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("download %s: %w", redactURL(rawURL), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close download file: %w", err)
	}
	return os.Rename(tmpName, dest)
}

// getJSON decodes the JSON body of a GET request into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(out).
		Get(rawURL)
	if err != nil {
		return fmt.Errorf("GET %s: %w", redactURL(rawURL), err)
	}
	if resp.IsError() {
		return &StatusError{URL: rawURL, StatusCode: resp.StatusCode(), Status: resp.Status()}
	}
	return nil
}

// redactURL strips query parameters and fragments from a URL for safe
// inclusion in error messages.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
