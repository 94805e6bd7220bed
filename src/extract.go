// path: src/extract.go
package src

import (
	"regexp"
	"strings"
)

// Extraction holds the structured pieces of one raw model completion.
// Absent constructs are empty strings, never errors.
type Extraction struct {
	Explanation string
	Code        string
	Diagram     string
}

var fenceRe = regexp.MustCompile("(?s)```([a-zA-Z0-9_+\\.-]*)\\s*\\n(.*?)\\n```")

const diagramFenceLabel = "mermaid"

// Extract splits a raw completion into explanation, concatenated code and
// a normalized diagram definition.
func Extract(raw string) Extraction {
	return Extraction{
		Explanation: ExtractText(raw),
		Code:        ExtractCode(raw),
		Diagram:     ExtractDiagram(raw),
	}
}

// ExtractText returns the prose with every fenced block removed. When the
// stripped result is empty but the input was not, the first paragraph is
// used as a fallback, provided it carries no fence marker itself.
func ExtractText(raw string) string {
	stripped := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	if stripped != "" {
		return stripped
	}
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	para := raw
	if idx := strings.Index(raw, "\n\n"); idx >= 0 {
		para = raw[:idx]
	}
	para = strings.TrimSpace(para)
	if strings.Contains(para, "```") {
		return ""
	}
	return para
}

// ExtractCode concatenates the bodies of all non-diagram fenced blocks,
// in order, joined by a blank line. Returns "" when no such block exists.
func ExtractCode(raw string) string {
	var bodies []string
	for _, m := range fenceRe.FindAllStringSubmatch(raw, -1) {
		lang := strings.ToLower(strings.TrimSpace(m[1]))
		if lang == diagramFenceLabel {
			continue
		}
		bodies = append(bodies, m[2])
	}
	if len(bodies) == 0 {
		return ""
	}
	return strings.Join(bodies, "\n\n")
}

// ExtractDiagram returns the first mermaid-labeled block, sanitized and
// guaranteed to begin with a recognized declaration. Returns "" when the
// completion carries no diagram block.
func ExtractDiagram(raw string) string {
	for _, m := range fenceRe.FindAllStringSubmatch(raw, -1) {
		lang := strings.ToLower(strings.TrimSpace(m[1]))
		if lang != diagramFenceLabel {
			continue
		}
		return NormalizeDiagram(m[2])
	}
	return ""
}
