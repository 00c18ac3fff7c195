package latex

import (
	"fmt"
	"strings"
)

// Locate finds the body span of the section introduced by
// \<command>{<title>}. A trailing * on the command (starred variants) is
// tolerated. The body runs from the end of the heading (closing brace plus
// the whitespace run that follows) to the next sectioning command of equal
// or higher priority, to \end{document}, or to the end of the document.
//
// When several headings match, the first in document order wins unless
// Options.Strict is set, in which case ErrAmbiguous is returned. When none
// match, ErrNotFound is returned; an empty body is a successful match with
// BodyStart == BodyEnd, never ErrNotFound.
func Locate(text, command, title string, opts Options) (Span, error) {
	opts.defaults()

	var (
		found   Span
		matches int
	)
	needle := `\` + command
	for i := 0; i+len(needle) <= len(text); {
		j := strings.Index(text[i:], needle)
		if j < 0 {
			break
		}
		j += i
		i = j + 1

		if escaped(text, j) {
			continue
		}
		k := j + len(needle)
		if k < len(text) && isLetter(text[k]) {
			// Longer command name: \sect must not fire inside \section.
			continue
		}
		if k < len(text) && text[k] == '*' {
			k++
		}
		if k >= len(text) || text[k] != '{' {
			// Bare macro or optional-argument form; not a heading we match.
			continue
		}
		arg, after, ok := braceArgument(text, k)
		if !ok {
			return Span{}, fmt.Errorf("%w: \\%s at offset %d", ErrMalformedHeading, command, j)
		}
		i = after

		if !titleEqual(arg, title, opts.Match) {
			continue
		}
		matches++
		if matches > 1 {
			return Span{}, fmt.Errorf("%w: %q matches more than one \\%s", ErrAmbiguous, title, command)
		}
		bodyStart := skipSpace(text, after)
		found = Span{
			HeadingStart: j,
			BodyStart:    bodyStart,
			BodyEnd:      bodyEnd(text, bodyStart, command, opts.Hierarchy),
		}
		if !opts.Strict {
			return found, nil
		}
	}
	if matches == 0 {
		return Span{}, ErrNotFound
	}
	return found, nil
}

// escaped reports whether the backslash at offset j is itself consumed by a
// preceding backslash (as in the \\ line break), making it part of a
// control symbol rather than the start of a command.
func escaped(text string, j int) bool {
	n := 0
	for k := j - 1; k >= 0 && text[k] == '\\'; k-- {
		n++
	}
	return n%2 == 1
}

// braceArgument reads the brace-delimited argument whose opening brace sits
// at offset open. The scan tracks brace depth, so titles containing
// balanced braces (\section{Results {v2}}) resolve to their outermost
// extent, and a backslash makes the following byte inert, so \{ and \}
// never change depth. Returns the argument contents, the offset just past
// the closing brace, and whether the argument was terminated.
func braceArgument(text string, open int) (arg string, after int, ok bool) {
	depth := 1
	for i := open + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[open+1 : i], i + 1, true
			}
		}
	}
	return "", 0, false
}

func titleEqual(arg, title string, mode TitleMatch) bool {
	if mode == MatchLoose {
		return strings.EqualFold(strings.TrimSpace(arg), strings.TrimSpace(title))
	}
	return arg == title
}

// skipSpace advances over the whitespace run starting at i. The run after
// a heading's closing brace belongs to the heading, not the body, so a
// rewrite preserves the line break separating heading from body.
func skipSpace(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case ' ', '\t', '\r', '\n':
			i++
		default:
			return i
		}
	}
	return i
}

// bodyEnd scans forward from the body start for the next sectioning
// boundary: the located command itself, any recognized command ranked at or
// above it, or \end{document}. An unranked command (a custom macro absent
// from the hierarchy) bounds on every recognized command, which is how such
// macros behave in the documents that define them.
func bodyEnd(text string, from int, command string, h Hierarchy) int {
	rank, ranked := h.Rank(command)
	for i := from; i < len(text); i++ {
		if text[i] != '\\' || escaped(text, i) {
			continue
		}
		word := commandWord(text, i+1)
		if word == "" {
			continue
		}
		if word == "end" && strings.HasPrefix(text[i+1+len(word):], "{document}") {
			return i
		}
		if word == command {
			return i
		}
		if r, ok := h.Rank(word); ok && (!ranked || r <= rank) {
			return i
		}
	}
	return len(text)
}

// commandWord returns the maximal run of ASCII letters starting at i.
func commandWord(text string, i int) string {
	j := i
	for j < len(text) && isLetter(text[j]) {
		j++
	}
	return text[i:j]
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
