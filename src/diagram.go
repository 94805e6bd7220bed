// path: src/diagram.go
package src

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	utcp "github.com/universal-tool-calling-protocol/go-utcp"
)

// FallbackDiagram is substituted when the rendering collaborator rejects a
// definition, so the diagram panel is never left blank.
const FallbackDiagram = "flowchart TD\n    A[Start] --> B[End]"

// defaultDeclaration prefixes definitions that lack a recognized opener.
const defaultDeclaration = "flowchart TD"

var diagramDeclarations = []string{
	"graph",
	"flowchart",
	"sequencediagram",
	"classdiagram",
	"statediagram",
	"erdiagram",
	"gantt",
	"pie",
	"journey",
}

var (
	diagramStripRe = regexp.MustCompile(`[()"':]`)
	wsRunRe        = regexp.MustCompile(`[ \t]+`)
	svgIDAttrRe    = regexp.MustCompile(`\s(?:id|aria-labelledby)="[^"]*"`)
)

// HasDiagramDeclaration reports whether the first non-empty line starts
// with a recognized diagram-type keyword.
func HasDiagramDeclaration(def string) bool {
	for _, line := range strings.Split(def, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		word := strings.ToLower(strings.Fields(line)[0])
		// stateDiagram-v2 and friends share the stateDiagram stem.
		for _, decl := range diagramDeclarations {
			if strings.HasPrefix(word, decl) {
				return true
			}
		}
		return false
	}
	return false
}

// SanitizeDiagram strips characters that routinely break mermaid labels
// (parentheses, quotes, colons, apostrophes) and collapses whitespace runs.
func SanitizeDiagram(def string) string {
	lines := strings.Split(def, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = diagramStripRe.ReplaceAllString(line, "")
		line = wsRunRe.ReplaceAllString(line, " ")
		out = append(out, strings.TrimSpace(line))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// NormalizeDiagram sanitizes a candidate definition and ensures it begins
// with a declaration keyword. Empty input stays empty; the caller decides
// whether that means "nothing generated yet".
func NormalizeDiagram(def string) string {
	clean := SanitizeDiagram(def)
	if clean == "" {
		return ""
	}
	if !HasDiagramDeclaration(clean) {
		clean = defaultDeclaration + "\n" + clean
	}
	return clean
}

// NormalizeSVG removes generated unique identifiers so two renders of the
// same definition compare equal.
func NormalizeSVG(svg string) string {
	return svgIDAttrRe.ReplaceAllString(svg, "")
}

// DiagramRenderer is the rendering collaborator. Parse fails fast before
// Render is attempted.
type DiagramRenderer interface {
	Parse(definition string) error
	Render(id, definition string) (string, error)
}

// RenderWithFallback renders a definition, substituting FallbackDiagram
// plus an error annotation when the collaborator fails. The returned note
// is empty on success.
func RenderWithFallback(r DiagramRenderer, id, definition string) (svg, note string) {
	if err := r.Parse(definition); err != nil {
		note = fmt.Sprintf("diagram syntax error: %v", err)
	} else if out, err := r.Render(id, definition); err == nil {
		return out, ""
	} else {
		note = "diagram render failed"
	}
	out, err := r.Render(id, FallbackDiagram)
	if err != nil {
		// Even the fixed fallback failed; show nothing but keep the note.
		return "", note
	}
	return out, note
}

// localRenderer is the in-process fallback collaborator: it validates the
// declaration and emits a minimal SVG that embeds the definition text.
type localRenderer struct{}

func NewLocalRenderer() DiagramRenderer { return localRenderer{} }

func (localRenderer) Parse(definition string) error {
	if strings.TrimSpace(definition) == "" {
		return fmt.Errorf("empty diagram definition")
	}
	if !HasDiagramDeclaration(definition) {
		return fmt.Errorf("missing diagram declaration")
	}
	return nil
}

func (localRenderer) Render(id, definition string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" id="%s" role="img">`, id)
	for i, line := range strings.Split(definition, "\n") {
		fmt.Fprintf(&b, `<text y="%d">%s</text>`, 16*(i+1), line)
	}
	b.WriteString("</svg>")
	return b.String(), nil
}

// utcpRenderer delegates rendering to an external mermaid tool over UTCP,
// falling back to the local renderer when the tool is unreachable.
type utcpRenderer struct {
	ctx    context.Context
	client utcp.UtcpClientInterface
	local  DiagramRenderer
}

// NewUTCPRenderer initializes the UTCP client from the resolved
// provider.json path. Callers treat an error as "no external renderer".
func NewUTCPRenderer(ctx context.Context) (DiagramRenderer, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	providerPath := filepath.Join(home, "utcp", "provider.json")
	if _, err := os.Stat(providerPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("UTCP unavailable: providers file missing at %s", providerPath)
	}
	cfg := &utcp.UtcpClientConfig{ProvidersFilePath: providerPath}
	client, err := utcp.NewUTCPClient(ctx, cfg, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("UTCP unavailable: %w", err)
	}
	return &utcpRenderer{ctx: ctx, client: client, local: NewLocalRenderer()}, nil
}

func (r *utcpRenderer) Parse(definition string) error {
	return r.local.Parse(definition)
}

func (r *utcpRenderer) Render(id, definition string) (string, error) {
	res, err := r.client.CallTool(r.ctx, "mermaid.render_svg", map[string]any{
		"id":         id,
		"definition": definition,
	})
	if err != nil {
		return r.local.Render(id, definition)
	}
	if svg, ok := res.(string); ok && strings.Contains(svg, "<svg") {
		return svg, nil
	}
	return fmt.Sprintf("%v", res), nil
}
