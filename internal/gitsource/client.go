package gitsource

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/mdlinkcheck/internal/logfields"
)

// Client clones documentation repositories into a workspace so their trees
// can be scanned like local directories.
type Client struct {
	workspaceDir string
}

// NewClient creates a git client cloning into the given workspace directory.
func NewClient(workspaceDir string) *Client {
	return &Client{workspaceDir: workspaceDir}
}

// Clone performs a shallow clone of url (optionally a specific branch) and
// returns the checkout path. Set MDLINKCHECK_GIT_TOKEN for private HTTPS
// remotes.
func (c *Client) Clone(url, branch string) (string, error) {
	repoPath := filepath.Join(c.workspaceDir, repoDirName(url))
	slog.Debug("Cloning repository", logfields.URL(url), slog.String("branch", branch), logfields.Path(repoPath))

	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("failed to remove existing directory: %w", err)
	}

	opts := &git.CloneOptions{
		URL:      url,
		Depth:    1,
		Progress: os.Stderr,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + branch)
		opts.SingleBranch = true
	}
	if token := os.Getenv("MDLINKCHECK_GIT_TOKEN"); token != "" {
		opts.Auth = &http.BasicAuth{Username: "token", Password: token}
	}

	repo, err := git.PlainClone(repoPath, false, opts)
	if err != nil {
		return "", fmt.Errorf("failed to clone %s: %w", url, err)
	}

	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Repository cloned", logfields.URL(url), slog.String("commit", ref.Hash().String()[:8]))
	} else {
		slog.Info("Repository cloned", logfields.URL(url))
	}
	return repoPath, nil
}

// repoDirName derives a stable directory name from a repository URL.
func repoDirName(url string) string {
	name := strings.TrimSuffix(filepath.Base(url), ".git")
	if name == "" || name == "." || name == "/" {
		name = "repo"
	}
	return name
}
