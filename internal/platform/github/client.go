// Package github provides a minimal client for the GitHub contents API,
// used to commit generated code artifacts to a repository.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/taipo/kanban-api/internal/config"
)

const defaultBaseURL = "https://api.github.com"

// ErrNotConfigured indicates the client was constructed from an empty
// configuration.
var ErrNotConfigured = errors.New("github integration is not configured")

// Client commits files through the GitHub contents API. It implements the
// service.CodePublisher interface.
type Client struct {
	baseURL    string
	token      string
	owner      string
	repository string
	branch     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a GitHub contents client from configuration.
// Returns ErrNotConfigured when the integration is disabled.
func NewClient(cfg config.GitHubConfig, logger *slog.Logger) (*Client, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = slog.Default()
	}

	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}

	return &Client{
		baseURL:    defaultBaseURL,
		token:      cfg.Token,
		owner:      cfg.Owner,
		repository: cfg.Repository,
		branch:     branch,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With(slog.String("component", "github_client")),
	}, nil
}

// WithBaseURL overrides the API base URL. Used by tests to point the
// client at a local server.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// contentsRequest is the PUT /contents payload.
type contentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// contentsResponse carries the single field we read from GET /contents.
type contentsResponse struct {
	SHA string `json:"sha"`
}

// PublishFile creates or updates the file at path with the given content.
// An existing file's blob SHA is looked up first; the contents API
// requires it for updates.
func (c *Client) PublishFile(ctx context.Context, path, message, content string) error {
	sha, err := c.fileSHA(ctx, path)
	if err != nil {
		return err
	}

	payload := contentsRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
		Branch:  c.branch,
		SHA:     sha,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode contents request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(path), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build contents request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("contents request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", slog.String("error", err.Error()))
		}
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("github contents API returned %d: %s", resp.StatusCode, detail)
	}

	c.logger.Info("file committed",
		slog.String("path", path),
		slog.String("branch", c.branch),
		slog.Bool("update", sha != ""))
	return nil
}

// fileSHA returns the blob SHA of an existing file, or "" when the file
// does not exist yet.
func (c *Client) fileSHA(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.contentsURL(path)+"?ref="+url.QueryEscape(c.branch), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build lookup request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lookup request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", slog.String("error", err.Error()))
		}
	}()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return "", nil
	case http.StatusOK:
		var out contentsResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", fmt.Errorf("failed to decode lookup response: %w", err)
		}
		return out.SHA, nil
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("github contents API returned %d: %s", resp.StatusCode, detail)
	}
}

func (c *Client) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL, url.PathEscape(c.owner), url.PathEscape(c.repository), path)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}
