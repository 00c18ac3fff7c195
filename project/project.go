// Package project manages the local checkout of an Overleaf project's git
// repository: clone/pull with token auth, file access under the checkout
// root, and commit/push of edits.
//
// A Workspace with no RemoteURL runs in local mode: Refresh and push are
// no-ops, commits happen only if the directory already is a git repository.
// Local mode backs tests and offline use.
package project

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultEmail is the committer email used when none is configured,
// matching the address Overleaf shows for unattributed bot commits.
const DefaultEmail = "overleaf-mcp@example.com"

const committerName = "Overleaf MCP Bot"

// Config locates the repository and carries the git credentials. Loaded
// once at startup and validated eagerly; never mutated afterwards.
type Config struct {
	// RemoteURL is the Overleaf git URL, e.g.
	// https://git.overleaf.com/<project-id>. Empty selects local mode.
	RemoteURL string
	// Token is the Overleaf git authentication token. Required in remote
	// mode. Never logged.
	Token string
	// Email is the committer email. Defaults to DefaultEmail.
	Email string
	// Dir is the local checkout directory.
	Dir string
}

// Workspace is a checked-out project directory.
type Workspace struct {
	cfg    Config
	logger *slog.Logger
}

// New validates cfg and returns a Workspace. In remote mode the URL must be
// https and a token must be present; in local mode Dir must already exist.
func New(cfg Config, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("project: Dir is required")
	}
	if cfg.Email == "" {
		cfg.Email = DefaultEmail
	}
	if cfg.RemoteURL != "" {
		if !strings.HasPrefix(cfg.RemoteURL, "https://") {
			return nil, fmt.Errorf("project: RemoteURL must start with https://")
		}
		if cfg.Token == "" {
			return nil, fmt.Errorf("project: Token is required with RemoteURL")
		}
		if _, err := authURL(cfg.RemoteURL, cfg.Token); err != nil {
			return nil, err
		}
	} else {
		info, err := os.Stat(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("project: local mode: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("project: %s is not a directory", cfg.Dir)
		}
	}
	return &Workspace{cfg: cfg, logger: logger}, nil
}

// Remote reports whether the workspace pushes to an Overleaf remote.
func (w *Workspace) Remote() bool { return w.cfg.RemoteURL != "" }

// Dir returns the checkout root.
func (w *Workspace) Dir() string { return w.cfg.Dir }

// authURL embeds Overleaf's expected credentials (user "git", password =
// token) into the remote URL.
func authURL(remote, token string) (string, error) {
	u, err := url.Parse(remote)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("project: invalid RemoteURL %q", remote)
	}
	u.User = url.UserPassword("git", token)
	return u.String(), nil
}

// Refresh brings the checkout up to date: clone on first use, fast-forward
// pull afterwards. Local mode: no-op.
func (w *Workspace) Refresh(ctx context.Context) error {
	if !w.Remote() {
		return nil
	}
	if _, err := os.Stat(filepath.Join(w.cfg.Dir, ".git")); err == nil {
		if _, err := w.git(ctx, w.cfg.Dir, "pull", "--ff-only"); err != nil {
			return fmt.Errorf("project: pull: %w", err)
		}
		return nil
	}
	cloneURL, err := authURL(w.cfg.RemoteURL, w.cfg.Token)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(w.cfg.Dir), 0o755); err != nil {
		return fmt.Errorf("project: mkdir: %w", err)
	}
	if _, err := w.git(ctx, "", "clone", cloneURL, w.cfg.Dir); err != nil {
		return fmt.Errorf("project: clone: %w", err)
	}
	return nil
}

// ListFiles returns every file path relative to the checkout root, sorted,
// with the .git directory excluded.
func (w *Workspace) ListFiles() ([]string, error) {
	var out []string
	root := w.cfg.Dir
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("project: list: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

// ReadFile returns the contents of the file at the repo-relative path.
func (w *Workspace) ReadFile(path string) (string, error) {
	abs, err := w.abs(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile replaces the contents of the file at the repo-relative path.
func (w *Workspace) WriteFile(path, content string) error {
	abs, err := w.abs(path)
	if err != nil {
		return err
	}
	return os.WriteFile(abs, []byte(content), 0o644)
}

// abs resolves a repo-relative path, rejecting escapes from the checkout.
func (w *Workspace) abs(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("project: empty path")
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("project: absolute path %q not allowed", rel)
	}
	root := filepath.Clean(w.cfg.Dir)
	p := filepath.Join(root, filepath.FromSlash(rel))
	if p != root && !strings.HasPrefix(p, root+string(filepath.Separator)) {
		return "", fmt.Errorf("project: path %q escapes the checkout", rel)
	}
	return p, nil
}
