package latex

// Rewrite returns text with the body range of span replaced by body. It is
// a pure splice: every byte before span.BodyStart and after span.BodyEnd is
// carried over unchanged, and body is inserted verbatim. The span must have
// been produced by Locate against this exact text.
func Rewrite(text string, span Span, body string) string {
	return text[:span.BodyStart] + body + text[span.BodyEnd:]
}

// Replace locates the section and splices in body in one step. On any
// locate failure the original text is left untouched and the error is
// returned; no partial output is ever produced.
func Replace(text, command, title, body string, opts Options) (string, Span, error) {
	span, err := Locate(text, command, title, opts)
	if err != nil {
		return "", Span{}, err
	}
	return Rewrite(text, span, body), span, nil
}
