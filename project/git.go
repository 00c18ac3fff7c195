package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// git runs one git command in dir (empty dir = process cwd, used by clone)
// and returns its combined output. Failures carry the output, with the auth
// token redacted so it never reaches logs or MCP clients.
func (w *Workspace) git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	out := w.redact(buf.String())
	if err != nil {
		return out, fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(out))
	}
	return out, nil
}

func (w *Workspace) redact(s string) string {
	if w.cfg.Token == "" {
		return s
	}
	return strings.ReplaceAll(s, w.cfg.Token, "***")
}

// CommitPush stages path, commits with message, and pushes. It reports
// whether a commit was created: staging an identical file is not an error,
// just committed=false. In local mode the push is skipped, and a directory
// that is not a git repository ignores the request entirely.
func (w *Workspace) CommitPush(ctx context.Context, path, message string) (committed bool, err error) {
	if _, statErr := w.gitDir(); statErr != nil {
		if w.Remote() {
			return false, fmt.Errorf("project: %s is not a git checkout (Refresh first)", w.cfg.Dir)
		}
		return false, nil
	}

	if _, err := w.git(ctx, w.cfg.Dir, "config", "user.name", committerName); err != nil {
		return false, err
	}
	if _, err := w.git(ctx, w.cfg.Dir, "config", "user.email", w.cfg.Email); err != nil {
		return false, err
	}
	if _, err := w.git(ctx, w.cfg.Dir, "add", "--", path); err != nil {
		return false, err
	}

	staged, err := w.hasStagedChanges(ctx, path)
	if err != nil {
		return false, err
	}
	if !staged {
		return false, nil
	}

	if _, err := w.git(ctx, w.cfg.Dir, "commit", "-m", message); err != nil {
		return false, err
	}

	if !w.Remote() {
		return true, nil
	}
	// Overleaf projects use main or master depending on age.
	if _, err := w.git(ctx, w.cfg.Dir, "push", "origin", "main"); err != nil {
		if _, err2 := w.git(ctx, w.cfg.Dir, "push", "origin", "master"); err2 != nil {
			return true, fmt.Errorf("project: push failed on main (%v) and master: %w", err, err2)
		}
	}
	return true, nil
}

// hasStagedChanges reports whether path has staged differences. git diff
// --cached --quiet exits 1 when there are changes, 0 when there are none.
func (w *Workspace) hasStagedChanges(ctx context.Context, path string) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--cached", "--quiet", "--", path)
	cmd.Dir = w.cfg.Dir
	err := cmd.Run()
	if err == nil {
		return false, nil
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) && exit.ExitCode() == 1 {
		return true, nil
	}
	return false, fmt.Errorf("git diff: %w", err)
}

func (w *Workspace) gitDir() (string, error) {
	p := filepath.Join(w.cfg.Dir, ".git")
	if _, err := os.Stat(p); err != nil {
		return "", err
	}
	return p, nil
}
