// Package editor orchestrates section edits on an Overleaf project: it
// refreshes the checkout, runs the locate/rewrite core on the requested
// file, persists and commits the result, and records every attempt in the
// audit log. It is the layer the MCP tools call into.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/Aryan1718/OverLeaf-MCP/audit"
	"github.com/Aryan1718/OverLeaf-MCP/latex"
	"github.com/Aryan1718/OverLeaf-MCP/project"
)

// DefaultHeadingCommand is assumed when a request leaves the heading
// command empty.
const DefaultHeadingCommand = "section"

// Editor is the orchestrator. Repository mutations are serialized with a
// mutex: two concurrent updates to one checkout must not interleave their
// write/commit sequences. The locate/rewrite core itself is pure.
type Editor struct {
	ws     *project.Workspace
	opts   latex.Options
	log    *audit.Store // nil when auditing is disabled
	logger *slog.Logger

	mu sync.Mutex
}

// New builds an Editor from cfg, failing fast on any invalid setting.
func New(cfg Config) (*Editor, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ws, err := project.New(cfg.Project, logger)
	if err != nil {
		return nil, err
	}

	hier := latex.DefaultHierarchy()
	if cfg.HierarchyPath != "" {
		hier, err = latex.LoadHierarchyFile(cfg.HierarchyPath)
		if err != nil {
			return nil, err
		}
	}

	var store *audit.Store
	if cfg.AuditDB != "" {
		store, err = audit.Open(cfg.AuditDB)
		if err != nil {
			return nil, err
		}
	}

	return &Editor{
		ws: ws,
		opts: latex.Options{
			Hierarchy: hier,
			Match:     cfg.TitleMatch,
			Strict:    cfg.Strict,
		},
		log:    store,
		logger: logger,
	}, nil
}

// Close releases the audit store.
func (e *Editor) Close() error {
	if e.log == nil {
		return nil
	}
	return e.log.Close()
}

// ReadResult is the response of the read operation.
type ReadResult struct {
	Path    string `json:"path"`
	Raw     bool   `json:"raw"`
	Content string `json:"content"`
}

// Read fetches a file from the project. raw returns the LaTeX source as
// stored; otherwise a human-friendly preview is rendered.
func (e *Editor) Read(ctx context.Context, path string, raw bool) (ReadResult, error) {
	if path == "" {
		path = "main.tex"
	}
	if err := e.ws.Refresh(ctx); err != nil {
		return ReadResult{}, err
	}
	content, err := e.ws.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ReadResult{}, fmt.Errorf("file %q does not exist in the project", path)
		}
		return ReadResult{}, err
	}
	if !raw {
		content = latex.Preview(content, e.opts.Hierarchy)
	}
	return ReadResult{Path: path, Raw: raw, Content: content}, nil
}

// ListResult is the response of the list operation.
type ListResult struct {
	Files []string `json:"files"`
}

// List enumerates every file in the project, .git excluded.
func (e *Editor) List(ctx context.Context) (ListResult, error) {
	if err := e.ws.Refresh(ctx); err != nil {
		return ListResult{}, err
	}
	files, err := e.ws.ListFiles()
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Files: files}, nil
}

// UpdateRequest replaces the body of one section.
type UpdateRequest struct {
	Path           string `json:"path"`
	SectionTitle   string `json:"section_title"`
	HeadingCommand string `json:"heading_command,omitempty"`
	NewBody        string `json:"new_section_body"`
	CommitMessage  string `json:"commit_message,omitempty"`
}

// UpdateResult reports what happened. Found=false is a structured
// not-found outcome: the file is untouched and Message says so.
type UpdateResult struct {
	Found          bool   `json:"found"`
	Committed      bool   `json:"committed"`
	Path           string `json:"path"`
	SectionTitle   string `json:"section_title"`
	HeadingCommand string `json:"heading_command"`
	BodyStart      int    `json:"body_start,omitempty"`
	BodyEnd        int    `json:"body_end,omitempty"`
	CommitMessage  string `json:"commit_message,omitempty"`
	Message        string `json:"message"`
}

// Update locates the section and replaces only its body, leaving every
// byte outside the span untouched, then writes, commits, and pushes.
// Nothing is written unless the locate fully succeeded.
func (e *Editor) Update(ctx context.Context, req UpdateRequest) (UpdateResult, error) {
	if req.Path == "" {
		return UpdateResult{}, fmt.Errorf("editor: path is required")
	}
	if req.SectionTitle == "" {
		return UpdateResult{}, fmt.Errorf("editor: section_title is required")
	}
	command := req.HeadingCommand
	if command == "" {
		command = DefaultHeadingCommand
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ws.Refresh(ctx); err != nil {
		return UpdateResult{}, err
	}
	text, err := e.ws.ReadFile(req.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return UpdateResult{}, fmt.Errorf("file %q does not exist in the project", req.Path)
		}
		return UpdateResult{}, err
	}

	// Repair tool-call escaping artifacts, then pin the trailing-newline
	// policy: the body always ends with exactly one newline, so the next
	// heading keeps its own line.
	body := strings.TrimSpace(latex.NormalizeBody(req.NewBody)) + "\n"

	newText, span, err := latex.Replace(text, command, req.SectionTitle, body, e.opts)
	switch {
	case errors.Is(err, latex.ErrNotFound):
		e.record(ctx, audit.Entry{
			FilePath:       req.Path,
			HeadingCommand: command,
			SectionTitle:   req.SectionTitle,
			Outcome:        audit.OutcomeNotFound,
		})
		return UpdateResult{
			Path:           req.Path,
			SectionTitle:   req.SectionTitle,
			HeadingCommand: command,
			Message: fmt.Sprintf("Section %q with heading \\%s not found in %q. No changes made.",
				req.SectionTitle, command, req.Path),
		}, nil
	case err != nil:
		e.record(ctx, audit.Entry{
			FilePath:       req.Path,
			HeadingCommand: command,
			SectionTitle:   req.SectionTitle,
			Outcome:        audit.OutcomeError,
			Detail:         err.Error(),
		})
		return UpdateResult{}, err
	}

	if err := e.ws.WriteFile(req.Path, newText); err != nil {
		e.record(ctx, audit.Entry{
			FilePath:       req.Path,
			HeadingCommand: command,
			SectionTitle:   req.SectionTitle,
			Outcome:        audit.OutcomeError,
			Detail:         err.Error(),
		})
		return UpdateResult{}, err
	}

	message := req.CommitMessage
	if message == "" {
		message = fmt.Sprintf("Update section '%s' in %s", req.SectionTitle, req.Path)
	}

	committed, err := e.ws.CommitPush(ctx, req.Path, message)
	if err != nil {
		e.record(ctx, audit.Entry{
			FilePath:       req.Path,
			HeadingCommand: command,
			SectionTitle:   req.SectionTitle,
			Outcome:        audit.OutcomeError,
			Detail:         err.Error(),
			CommitMessage:  message,
		})
		return UpdateResult{}, err
	}

	outcome := audit.OutcomeUpdated
	msg := fmt.Sprintf("Updated section %q in %q.", req.SectionTitle, req.Path)
	if !committed {
		outcome = audit.OutcomeNoChanges
		msg = fmt.Sprintf("Section %q in %q already had this body. No commit created.",
			req.SectionTitle, req.Path)
	}
	e.record(ctx, audit.Entry{
		FilePath:       req.Path,
		HeadingCommand: command,
		SectionTitle:   req.SectionTitle,
		Outcome:        outcome,
		CommitMessage:  message,
	})

	return UpdateResult{
		Found:          true,
		Committed:      committed,
		Path:           req.Path,
		SectionTitle:   req.SectionTitle,
		HeadingCommand: command,
		BodyStart:      span.BodyStart,
		BodyEnd:        span.BodyStart + len(body),
		CommitMessage:  message,
		Message:        msg,
	}, nil
}

// SummarizeResult is the response of the summarize operation.
type SummarizeResult struct {
	Found        bool   `json:"found"`
	Path         string `json:"path"`
	SectionTitle string `json:"section_title"`
	Summary      string `json:"summary,omitempty"`
	Example      string `json:"example,omitempty"`
	Message      string `json:"message,omitempty"`
}

// Summarize condenses one section's body to a few plain-text sentences
// plus a concrete example line.
func (e *Editor) Summarize(ctx context.Context, path, title, command string, maxSentences int) (SummarizeResult, error) {
	if command == "" {
		command = DefaultHeadingCommand
	}
	if err := e.ws.Refresh(ctx); err != nil {
		return SummarizeResult{}, err
	}
	text, err := e.ws.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return SummarizeResult{}, fmt.Errorf("file %q does not exist in the project", path)
		}
		return SummarizeResult{}, err
	}

	span, err := latex.Locate(text, command, title, e.opts)
	if errors.Is(err, latex.ErrNotFound) {
		return SummarizeResult{
			Path:         path,
			SectionTitle: title,
			Message:      fmt.Sprintf("Section %q with heading \\%s not found in %q.", title, command, path),
		}, nil
	}
	if err != nil {
		return SummarizeResult{}, err
	}

	sum, ok := latex.Summarize(text[span.BodyStart:span.BodyEnd], maxSentences)
	if !ok {
		return SummarizeResult{
			Found:        true,
			Path:         path,
			SectionTitle: title,
			Message:      fmt.Sprintf("Section %q is empty or could not be parsed.", title),
		}, nil
	}
	return SummarizeResult{
		Found:        true,
		Path:         path,
		SectionTitle: title,
		Summary:      sum.Text,
		Example:      sum.Example,
	}, nil
}

// RecentEdits returns the newest audit entries.
func (e *Editor) RecentEdits(ctx context.Context, limit int) ([]audit.Entry, error) {
	if e.log == nil {
		return nil, fmt.Errorf("editor: audit log is disabled")
	}
	return e.log.Recent(ctx, limit)
}

// record writes an audit entry best-effort: a failing audit store is
// logged, never allowed to fail the edit itself.
func (e *Editor) record(ctx context.Context, entry audit.Entry) {
	if e.log == nil {
		return
	}
	if _, err := e.log.Record(ctx, entry); err != nil {
		e.logger.Warn("audit record failed", "error", err, "path", entry.FilePath)
	}
}
