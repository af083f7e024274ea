// Package latex holds the few text transformations the service applies to generated documents.
package latex

import (
	"regexp"
	"strings"
)

var (
	solutionHeading = regexp.MustCompile(`\\subsection\*\{Solution\}`)
	solutionBold    = regexp.MustCompile(`\\textbf\{Solution[:.]?\}`)

	// A solution runs until the next question heading or the end of the document body.
	headingStop = regexp.MustCompile(`\\(?:sub)?section\*\{Question \d+|\s*\\end\{document\}`)
	boldStop    = regexp.MustCompile(`\\(?:sub)?section\*\{Question \d+|\s*\\textbf\{Question|\s*\\end\{document\}`)

	vspaceRun      = regexp.MustCompile(`(?:\\vspace\{[^}]*\}\s*)+`)
	trailingVspace = regexp.MustCompile(`\\vspace\{[^}]*\}\s*\\end\{document\}`)
)

// ValidateStructure reports whether source looks like a complete LaTeX document.
func ValidateStructure(source string) bool {
	return strings.Contains(source, `\documentclass`) &&
		strings.Contains(source, `\begin{document}`) &&
		strings.Contains(source, `\end{document}`)
}

// StripSolutions removes solution blocks so the document can be handed out as a question sheet.
// Runs of \vspace left behind are collapsed to a single \vspace{0.5cm}.
func StripSolutions(source string) string {
	out := removeBlocks(source, solutionHeading, headingStop)
	out = removeBlocks(out, solutionBold, boldStop)
	out = vspaceRun.ReplaceAllString(out, `\vspace{0.5cm}`+"\n")
	out = trailingVspace.ReplaceAllString(out, `\end{document}`)
	return out
}

// removeBlocks deletes every span that starts at a match of start and ends just before the
// next match of stop. A start without a following stop is left untouched.
func removeBlocks(s string, start, stop *regexp.Regexp) string {
	var b strings.Builder
	pos := 0
	for pos < len(s) {
		loc := start.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		begin, after := pos+loc[0], pos+loc[1]
		end := stop.FindStringIndex(s[after:])
		if end == nil {
			b.WriteString(s[pos:after])
			pos = after
			continue
		}
		b.WriteString(s[pos:begin])
		pos = after + end[0]
	}
	b.WriteString(s[pos:])
	return b.String()
}
