package ingest

import (
	"regexp"
	"strings"
)

var (
	// LaTeX delimiters emitted by the vision models, normalized to the
	// dollar forms KaTeX renders on the client.
	displayMathRe = regexp.MustCompile(`(?s)\\\[(.*?)\\\]`)
	inlineMathRe  = regexp.MustCompile(`(?s)\\\((.*?)\\\)`)

	// Bare LaTeX commands that escaped their math environment entirely,
	// e.g. "the value of \frac{1}{2} is". Wrapped in inline math.
	bareCommandRe = regexp.MustCompile(`(^|[^$\\])(\\(?:frac|sqrt|sum|int|lim|log|sin|cos|tan|times|div|pm|cdot|leq|geq|neq|infty|pi|theta|alpha|beta|gamma)\b[^$\n]*?)(\s|$)`)

	figureRe     = regexp.MustCompile(`(?i)!\[[^\]]*\]\(\s*\)|\[(?:figure|image|diagram|graph)[^\]]*\]`)
	excessBlank  = regexp.MustCompile(`\n{3,}`)
	trailingWsRe = regexp.MustCompile(`[ \t]+\n`)
)

// NormalizeMarkdown cleans up extracted page text so the client can render
// it directly: math delimiters become KaTeX dollar syntax, figure references
// become a stable placeholder token, and layout noise is collapsed.
func NormalizeMarkdown(text string) string {
	out := strings.ReplaceAll(text, "\r\n", "\n")

	out = displayMathRe.ReplaceAllString(out, "$$$$${1}$$$$")
	out = inlineMathRe.ReplaceAllString(out, "$$${1}$$")
	out = bareCommandRe.ReplaceAllString(out, "$1$$$2$$$3")

	out = figureRe.ReplaceAllString(out, "[figure]")

	out = trailingWsRe.ReplaceAllString(out, "\n")
	out = excessBlank.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
