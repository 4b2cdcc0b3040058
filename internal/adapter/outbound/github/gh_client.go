package github

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

const urlScheme = "github://"

// FileRef addresses a file in a GitHub repository, written as
// github://owner/repo/path/to/file[@ref].
type FileRef struct {
	Owner string
	Repo  string
	Path  string
	Ref   string
}

// ParseURL parses a github:// URL.
func ParseURL(githubURL string) (FileRef, error) {
	if !IsGitHubURL(githubURL) {
		return FileRef{}, fmt.Errorf("invalid GitHub URL format: %s", githubURL)
	}
	rest := strings.TrimPrefix(githubURL, urlScheme)

	var ref FileRef
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest, ref.Ref = rest[:i], rest[i+1:]
	}

	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return FileRef{}, fmt.Errorf("invalid GitHub URL format: expected github://owner/repo/path/to/file")
	}
	ref.Owner, ref.Repo, ref.Path = parts[0], parts[1], parts[2]
	return ref, nil
}

// APIPath returns the contents API path for the file.
func (r FileRef) APIPath() string {
	p := fmt.Sprintf("repos/%s/%s/contents/%s", r.Owner, r.Repo, r.Path)
	if r.Ref != "" {
		p += "?ref=" + url.QueryEscape(r.Ref)
	}
	return p
}

// commandRunner runs an external command and returns its stdout.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// GHClient wraps the gh CLI command for GitHub operations.
type GHClient struct {
	run commandRunner
}

// NewGHClient creates a new GitHub client.
func NewGHClient() *GHClient {
	return &GHClient{run: execCommand}
}

// FetchFileRaw retrieves the raw content of a file through the contents API.
func (c *GHClient) FetchFileRaw(ctx context.Context, githubURL string) ([]byte, error) {
	ref, err := ParseURL(githubURL)
	if err != nil {
		return nil, err
	}

	if err := c.checkGHCommand(ctx); err != nil {
		return nil, err
	}

	content, err := c.run(ctx, "gh", "api", "-H", "Accept: application/vnd.github.raw", ref.APIPath())
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("empty response from GitHub")
	}
	return content, nil
}

// checkGHCommand verifies that the gh CLI is installed and authenticated.
func (c *GHClient) checkGHCommand(ctx context.Context) error {
	_, err := c.run(ctx, "gh", "auth", "status")
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "executable file not found") || strings.Contains(msg, "not found"):
		return fmt.Errorf("gh CLI is not installed. Please install it from https://cli.github.com/")
	case strings.Contains(msg, "not logged in"):
		return fmt.Errorf("gh CLI is not authenticated. Please run 'gh auth login' first")
	}
	return fmt.Errorf("gh auth check failed: %w", err)
}

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s command failed: %s", name, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%s command failed: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// IsGitHubURL checks if a URL is a GitHub URL.
func IsGitHubURL(source string) bool {
	return strings.HasPrefix(source, urlScheme)
}
