package latex

import (
	"errors"
	"testing"
)

func TestRewrite_WorkedExample(t *testing.T) {
	text := "\\sect{A}\nfoo\n\\sect{B}\nbar\n"

	got, _, err := Replace(text, "sect", "B", "baz\n", Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "\\sect{A}\nfoo\n\\sect{B}\nbaz\n"
	if got != want {
		t.Fatalf("Replace = %q, want %q", got, want)
	}
}

func TestRewrite_ByteExactOutsideSpan(t *testing.T) {
	text := "% comment\n\\section{A}\t\nold body\nwith lines\n\\section{B}\nkeep  \n"
	span := mustLocate(t, text, "section", "A", Options{})

	newBody := "replacement\n"
	got := Rewrite(text, span, newBody)

	if got[:span.BodyStart] != text[:span.BodyStart] {
		t.Fatalf("prefix changed: %q != %q", got[:span.BodyStart], text[:span.BodyStart])
	}
	if got[span.BodyStart+len(newBody):] != text[span.BodyEnd:] {
		t.Fatalf("suffix changed: %q != %q", got[span.BodyStart+len(newBody):], text[span.BodyEnd:])
	}
	if got[span.BodyStart:span.BodyStart+len(newBody)] != newBody {
		t.Fatal("body not spliced verbatim")
	}
}

func TestRewrite_NoOpIdempotence(t *testing.T) {
	text := "\\section{A}\nsame body\n\\section{B}\nrest\n"
	span := mustLocate(t, text, "section", "A", Options{})
	same := text[span.BodyStart:span.BodyEnd]

	once := Rewrite(text, span, same)
	if once != text {
		t.Fatalf("no-op rewrite changed text: %q", once)
	}

	span2 := mustLocate(t, once, "section", "A", Options{})
	twice := Rewrite(once, span2, same)
	if twice != once {
		t.Fatalf("second no-op rewrite changed text: %q", twice)
	}
}

func TestRewrite_EmptyBodySpan(t *testing.T) {
	text := "\\section{A}\n\\section{B}\nrest\n"
	span := mustLocate(t, text, "section", "A", Options{})

	got := Rewrite(text, span, "filled\n")
	want := "\\section{A}\nfilled\n\\section{B}\nrest\n"
	if got != want {
		t.Fatalf("Rewrite = %q, want %q", got, want)
	}
}

func TestReplace_FailureLeavesNothingBehind(t *testing.T) {
	text := "\\section{A}\nbody\n"

	got, span, err := Replace(text, "section", "Missing", "new\n", Options{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if got != "" || span != (Span{}) {
		t.Fatalf("failed Replace returned output: %q %+v", got, span)
	}
}
