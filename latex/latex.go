// Package latex locates and rewrites sections of LaTeX documents by raw
// text offsets, without parsing into an AST.
//
// The two core operations:
//
//	span, err := latex.Locate(text, "section", "Results", latex.Options{})
//	newText := latex.Rewrite(text, span, newBody)
//
// Both are pure: they never retain the input and hold no state between
// calls, so they are safe to invoke concurrently on different documents.
// Rewrite guarantees byte-exactness outside the located body span.
//
// Known limitation: the locator does not understand LaTeX comments (%) or
// verbatim-like environments. A sectioning command inside either is matched
// as if it were live markup.
package latex

import "errors"

var (
	// ErrNotFound is returned when no heading matches the requested
	// command and title. It is a normal outcome, not an anomaly.
	ErrNotFound = errors.New("latex: section not found")

	// ErrMalformedHeading is returned when a candidate heading has an
	// unterminated brace argument.
	ErrMalformedHeading = errors.New("latex: malformed heading argument")

	// ErrAmbiguous is returned in strict mode when more than one heading
	// matches the requested command and title.
	ErrAmbiguous = errors.New("latex: ambiguous section title")
)

// Span is the byte-offset extent of one located section. It is only valid
// against the exact document text it was computed from.
type Span struct {
	// HeadingStart is the offset of the heading's backslash.
	HeadingStart int
	// BodyStart is the offset of the first body byte, after the heading's
	// closing brace and the whitespace run that follows it. That
	// whitespace belongs to the heading and survives a rewrite.
	BodyStart int
	// BodyEnd is the offset one past the last body byte: the start of the
	// next same-or-higher-priority sectioning command, the start of
	// \end{document}, or len(text).
	BodyEnd int
}

// TitleMatch selects how a heading argument is compared to the requested
// section title.
type TitleMatch string

const (
	// MatchExact compares the argument bytes as given. Default.
	MatchExact TitleMatch = "exact"
	// MatchLoose trims surrounding whitespace and folds case.
	MatchLoose TitleMatch = "loose"
)

// Options configures Locate. The zero value is usable: default hierarchy,
// exact title matching, first-match-wins.
type Options struct {
	// Hierarchy ranks sectioning commands for boundary detection.
	Hierarchy Hierarchy

	// Match is the title comparison mode.
	Match TitleMatch

	// Strict makes Locate scan the whole document and return ErrAmbiguous
	// when more than one heading matches. When false the first match in
	// document order wins.
	Strict bool
}

func (o *Options) defaults() {
	if o.Hierarchy == nil {
		o.Hierarchy = DefaultHierarchy()
	}
	if o.Match == "" {
		o.Match = MatchExact
	}
}
