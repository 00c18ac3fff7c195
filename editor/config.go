package editor

import (
	"fmt"
	"log/slog"

	"github.com/Aryan1718/OverLeaf-MCP/latex"
	"github.com/Aryan1718/OverLeaf-MCP/project"
)

// Config wires the editor at startup. It replaces the ambient environment
// lookups of earlier iterations: loaded once, validated eagerly in New,
// never mutated afterwards.
type Config struct {
	// Project locates the Overleaf checkout and carries git credentials.
	Project project.Config

	// HierarchyPath optionally points at a YAML sectioning hierarchy; empty
	// selects latex.DefaultHierarchy.
	HierarchyPath string

	// TitleMatch is the section title comparison mode. Default exact.
	TitleMatch latex.TitleMatch

	// Strict makes updates fail with an ambiguity error when a title
	// matches more than one heading, instead of first-match-wins.
	Strict bool

	// AuditDB is the SQLite edit log path. Empty disables the log.
	AuditDB string

	// Logger for operational messages.
	Logger *slog.Logger
}

func (c *Config) validate() error {
	switch c.TitleMatch {
	case "", latex.MatchExact, latex.MatchLoose:
	default:
		return fmt.Errorf("editor: unknown title match mode %q", c.TitleMatch)
	}
	return nil
}
