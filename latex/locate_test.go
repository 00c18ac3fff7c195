package latex

import (
	"errors"
	"strings"
	"testing"
)

func mustLocate(t *testing.T, text, command, title string, opts Options) Span {
	t.Helper()
	span, err := Locate(text, command, title, opts)
	if err != nil {
		t.Fatalf("Locate(%q, %q): %v", command, title, err)
	}
	return span
}

func body(text string, span Span) string {
	return text[span.BodyStart:span.BodyEnd]
}

func TestLocate_WorkedExample(t *testing.T) {
	text := "\\sect{A}\nfoo\n\\sect{B}\nbar\n"

	span := mustLocate(t, text, "sect", "B", Options{})
	if got := body(text, span); got != "bar\n" {
		t.Fatalf("body = %q, want %q", got, "bar\n")
	}
	if span.HeadingStart != strings.Index(text, "\\sect{B}") {
		t.Fatalf("HeadingStart = %d", span.HeadingStart)
	}
}

func TestLocate_ThreeSectionBoundaries(t *testing.T) {
	text := "\\section{A}\nalpha\n\\section{B}\nbeta\n\\section{C}\ngamma\n"

	span := mustLocate(t, text, "section", "B", Options{})
	if got := body(text, span); got != "beta\n" {
		t.Fatalf("body = %q, want %q", got, "beta\n")
	}
	if text[span.BodyEnd:span.BodyEnd+11] != "\\section{C}" {
		t.Fatalf("BodyEnd does not sit on \\section{C}: %q", text[span.BodyEnd:])
	}
}

func TestLocate_NestedLevels(t *testing.T) {
	text := "\\section{A}\nintro\n\\subsection{X}\nxbody\n\\section{B}\nend\n"

	// A's body spans the whole subsection, since subsection ranks lower.
	span := mustLocate(t, text, "section", "A", Options{})
	want := "intro\n\\subsection{X}\nxbody\n"
	if got := body(text, span); got != want {
		t.Fatalf("section A body = %q, want %q", got, want)
	}

	// X's body stops at the next section, the end of A's span.
	span = mustLocate(t, text, "subsection", "X", Options{})
	if got := body(text, span); got != "xbody\n" {
		t.Fatalf("subsection X body = %q, want %q", got, "xbody\n")
	}
}

func TestLocate_NotFound(t *testing.T) {
	text := "\\section{A}\nbody\n"

	_, err := Locate(text, "section", "Missing", Options{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// Same title under a different command must not match either.
	_, err = Locate(text, "subsection", "A", Options{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLocate_EmptyBodyIsNotNotFound(t *testing.T) {
	text := "\\section{A}\n\\section{B}\nbody\n"

	span := mustLocate(t, text, "section", "A", Options{})
	if span.BodyStart != span.BodyEnd {
		t.Fatalf("want empty body, got %q", body(text, span))
	}
}

func TestLocate_BraceDepthTitle(t *testing.T) {
	text := "\\section{Results {v2}}\nnew results\n\\section{Next}\nrest\n"

	span := mustLocate(t, text, "section", "Results {v2}", Options{})
	if got := body(text, span); got != "new results\n" {
		t.Fatalf("body = %q, want %q", got, "new results\n")
	}

	// The truncated title a naive first-closing-brace scan would produce
	// must not match anything.
	_, err := Locate(text, "section", "Results {v2", Options{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for truncated title", err)
	}
}

func TestLocate_EscapedBracesInTitle(t *testing.T) {
	// \{ and \} are inert and must not change brace depth.
	text := "\\section{Braces \\{literal\\}}\nbody\n"

	span := mustLocate(t, text, "section", `Braces \{literal\}`, Options{})
	if got := body(text, span); got != "body\n" {
		t.Fatalf("body = %q, want %q", got, "body\n")
	}
}

func TestLocate_MalformedHeading(t *testing.T) {
	text := "\\section{Oops\nnever closed"

	_, err := Locate(text, "section", "Oops", Options{})
	if !errors.Is(err, ErrMalformedHeading) {
		t.Fatalf("err = %v, want ErrMalformedHeading", err)
	}
}

func TestLocate_EscapedCommandSkipped(t *testing.T) {
	// The first \section is preceded by a backslash (a \\ line break), so
	// it is a control symbol continuation, not a heading.
	text := "linebreak \\\\section{B} then\n\\section{B}\nreal\n"

	span := mustLocate(t, text, "section", "B", Options{})
	if got := body(text, span); got != "real\n" {
		t.Fatalf("body = %q, want %q", got, "real\n")
	}
	if span.HeadingStart != strings.LastIndex(text, "\\section{B}") {
		t.Fatalf("matched the escaped occurrence at %d", span.HeadingStart)
	}
}

func TestLocate_CommandNameBoundary(t *testing.T) {
	// \sect must not fire inside \section.
	text := "\\section{B}\nbody\n"
	if _, err := Locate(text, "sect", "B", Options{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLocate_StarredVariant(t *testing.T) {
	text := "\\section*{Intro}\nunnumbered\n\\section{Next}\nrest\n"

	span := mustLocate(t, text, "section", "Intro", Options{})
	if got := body(text, span); got != "unnumbered\n" {
		t.Fatalf("body = %q, want %q", got, "unnumbered\n")
	}
}

func TestLocate_EndDocumentBoundary(t *testing.T) {
	text := "\\begin{document}\n\\section{A}\nbody\n\\end{document}\n"

	span := mustLocate(t, text, "section", "A", Options{})
	if got := body(text, span); got != "body\n" {
		t.Fatalf("body = %q, want %q", got, "body\n")
	}
}

func TestLocate_CustomMacroSameRankAsSection(t *testing.T) {
	// cvsection shares section's rank, so each bounds the other.
	text := "\\section{Top}\nabove\n\\cvsection{SKILLS}\nGo, SQL\n\\section{Bottom}\nbelow\n"

	span := mustLocate(t, text, "section", "Top", Options{})
	if got := body(text, span); got != "above\n" {
		t.Fatalf("section body = %q, want %q", got, "above\n")
	}

	span = mustLocate(t, text, "cvsection", "SKILLS", Options{})
	if got := body(text, span); got != "Go, SQL\n" {
		t.Fatalf("cvsection body = %q, want %q", got, "Go, SQL\n")
	}
}

func TestLocate_UnrankedCommandBoundsOnAnyHeading(t *testing.T) {
	text := "\\mysec{A}\nbody\n\\subsection{X}\nrest\n"

	span := mustLocate(t, text, "mysec", "A", Options{})
	if got := body(text, span); got != "body\n" {
		t.Fatalf("body = %q, want %q", got, "body\n")
	}
}

func TestLocate_FirstMatchWins(t *testing.T) {
	text := "\\section{Dup}\nfirst\n\\section{Dup}\nsecond\n"

	span := mustLocate(t, text, "section", "Dup", Options{})
	if got := body(text, span); got != "first\n" {
		t.Fatalf("body = %q, want %q", got, "first\n")
	}
}

func TestLocate_StrictAmbiguity(t *testing.T) {
	text := "\\section{Dup}\nfirst\n\\section{Dup}\nsecond\n"

	_, err := Locate(text, "section", "Dup", Options{Strict: true})
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("err = %v, want ErrAmbiguous", err)
	}

	// Strict with a unique title still succeeds.
	span, err := Locate("\\section{One}\nbody\n", "section", "One", Options{Strict: true})
	if err != nil {
		t.Fatalf("strict unique: %v", err)
	}
	if span.BodyStart == span.BodyEnd {
		t.Fatal("strict unique: empty span")
	}
}

func TestLocate_LooseTitleMatch(t *testing.T) {
	text := "\\section{ Introduction }\nbody\n"

	if _, err := Locate(text, "section", "introduction", Options{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("exact mode matched a case-folded title: %v", err)
	}

	span := mustLocate(t, text, "section", "introduction", Options{Match: MatchLoose})
	if got := body(text, span); got != "body\n" {
		t.Fatalf("body = %q, want %q", got, "body\n")
	}
}

func TestLocate_HeadingWhitespaceBelongsToHeading(t *testing.T) {
	text := "\\section{A}\n\n  body starts here\n"

	span := mustLocate(t, text, "section", "A", Options{})
	if got := body(text, span); got != "body starts here\n" {
		t.Fatalf("body = %q, want %q", got, "body starts here\n")
	}
}
