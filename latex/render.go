package latex

import (
	"regexp"
	"strings"
)

// Rendering turns LaTeX into text a human can skim. These are display
// helpers, intentionally lossy; the byte-exact guarantees of Locate and
// Rewrite do not apply here.

var (
	headingLine = regexp.MustCompile(`^\\([a-zA-Z]+)\*?\{([^}]*)\}`)
	itemCmd     = regexp.MustCompile(`\\item\s*`)
	argCmd      = regexp.MustCompile(`\\[a-zA-Z]+\*?(?:\[[^\]]*\])?\{([^}]*)\}`)
	bareCmd     = regexp.MustCompile(`\\[a-zA-Z]+\*?`)
	spaceRun    = regexp.MustCompile(`[ \t]+`)
	blankRun    = regexp.MustCompile(`\n\s*\n+`)
)

// Preview renders a document for display: preamble and comments dropped,
// headings as underlined upper-case titles, \item lines as bullets,
// everything else passed through stripped. A nil hierarchy means
// DefaultHierarchy.
func Preview(text string, h Hierarchy) string {
	if h == nil {
		h = DefaultHierarchy()
	}
	recognized := make(map[string]bool)
	for _, c := range h.Commands() {
		recognized[c] = true
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		switch {
		case s == "":
			continue
		case strings.HasPrefix(s, "%"):
			continue
		case strings.HasPrefix(s, `\documentclass`):
			continue
		case strings.HasPrefix(s, `\usepackage`):
			continue
		case strings.HasPrefix(s, `\begin{document}`), strings.HasPrefix(s, `\end{document}`):
			continue
		}

		if m := headingLine.FindStringSubmatch(s); m != nil && recognized[m[1]] {
			title := strings.TrimSpace(m[2])
			out = append(out, "", strings.ToUpper(title), strings.Repeat("-", len(title)))
			continue
		}

		if strings.HasPrefix(s, `\item`) {
			content := strings.TrimLeft(strings.TrimPrefix(s, `\item`), " \t")
			out = append(out, "- "+content)
			continue
		}

		out = append(out, s)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// StripToPlain converts LaTeX to plain text, keeping the words and losing
// the markup: comments dropped, \item turned into bullets, one-argument
// commands unwrapped (\textbf{API} becomes API), remaining commands
// removed, whitespace collapsed.
func StripToPlain(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "%") {
			continue
		}
		kept = append(kept, line)
	}
	s := strings.Join(kept, "\n")

	s = itemCmd.ReplaceAllString(s, "- ")
	s = argCmd.ReplaceAllString(s, "$1")
	s = bareCmd.ReplaceAllString(s, "")
	s = spaceRun.ReplaceAllString(s, " ")
	s = blankRun.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

// Summary is a condensed view of a section body.
type Summary struct {
	// Text holds the first sentences of the stripped body.
	Text string
	// Example is one concrete line: the first bullet if any, otherwise a
	// follow-up sentence.
	Example string
}

// Summarize strips body to plain text and condenses it to at most
// maxSentences sentences plus one example line. Returns false when the
// body strips down to nothing.
func Summarize(body string, maxSentences int) (Summary, bool) {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	plain := StripToPlain(body)
	if plain == "" {
		return Summary{}, false
	}

	sentences := splitSentences(plain)
	if len(sentences) == 0 {
		return Summary{Text: plain, Example: plain}, true
	}

	n := min(maxSentences, len(sentences))
	sum := Summary{Text: strings.Join(sentences[:n], " ")}

	for _, line := range strings.Split(plain, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "- ") {
			sum.Example = strings.TrimSpace(line)
			break
		}
	}
	if sum.Example == "" {
		if len(sentences) > 1 {
			sum.Example = sentences[1]
		} else {
			sum.Example = sentences[0]
		}
	}
	return sum, true
}

// splitSentences cuts on sentence-final punctuation followed by
// whitespace. Good enough for summaries; not a linguistic segmenter.
func splitSentences(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 < len(s) && !isSpace(s[i+1]) {
			continue
		}
		if sent := strings.TrimSpace(s[start : i+1]); sent != "" {
			out = append(out, sent)
		}
		start = i + 1
	}
	if sent := strings.TrimSpace(s[start:]); sent != "" {
		out = append(out, sent)
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
