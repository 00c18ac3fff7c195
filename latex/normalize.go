package latex

import "strings"

// NormalizeBody repairs a common escaping artifact in tool-supplied LaTeX:
// a literal backslash-n where a line break after \\ was intended, e.g.
// "May 2026\\nMaster" instead of "May 2026\\\nMaster". Every backslash
// followed by the letter n becomes a backslash followed by a newline.
func NormalizeBody(s string) string {
	return strings.ReplaceAll(s, `\n`, "\\\n")
}
