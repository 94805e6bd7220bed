// path: src/extract_test.go
package src

import (
	"strings"
	"testing"
)

const sampleCompletion = "Here is a simple counter app.\n\n" +
	"```jsx\nimport React from \"react\";\nexport default function App() { return <div>hi</div>; }\n```\n\n" +
	"```mermaid\nflowchart TD\n    A[App] --> B[Counter]\n```\n"

func TestExtractSplitsAllParts(t *testing.T) {
	got := Extract(sampleCompletion)

	if got.Explanation != "Here is a simple counter app." {
		t.Fatalf("unexpected explanation: %q", got.Explanation)
	}
	if !strings.Contains(got.Code, "export default function App") {
		t.Fatalf("code block missing from extraction: %q", got.Code)
	}
	if strings.Contains(got.Code, "flowchart") {
		t.Fatalf("mermaid block leaked into code: %q", got.Code)
	}
	if !strings.HasPrefix(got.Diagram, "flowchart TD") {
		t.Fatalf("unexpected diagram: %q", got.Diagram)
	}
}

func TestExtractTextStripsAllFences(t *testing.T) {
	raw := "Intro.\n\n```js\nconsole.log(1)\n```\n\nOutro."
	got := ExtractText(raw)
	if strings.Contains(got, "console.log") {
		t.Fatalf("fence body leaked into text: %q", got)
	}
	if !strings.Contains(got, "Intro.") || !strings.Contains(got, "Outro.") {
		t.Fatalf("prose lost: %q", got)
	}
}

func TestExtractTextFallsBackToFirstParagraph(t *testing.T) {
	raw := "```js\nconsole.log(1)\n```"
	if got := ExtractText(raw); got != "" {
		t.Fatalf("expected empty text for fence-only input, got %q", got)
	}
}

func TestExtractCodeConcatenatesBlocksInOrder(t *testing.T) {
	raw := "```js\nfirst\n```\ntext\n```css\nsecond\n```"
	got := ExtractCode(raw)
	want := "first\n\nsecond"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExtractCodeEmptyWhenNoBlocks(t *testing.T) {
	if got := ExtractCode("just prose, no code"); got != "" {
		t.Fatalf("expected empty code, got %q", got)
	}
}

func TestExtractDiagramIgnoresNonMermaid(t *testing.T) {
	raw := "```js\nlet x = 1\n```"
	if got := ExtractDiagram(raw); got != "" {
		t.Fatalf("expected no diagram, got %q", got)
	}
}

func TestExtractDiagramTakesFirstMermaidBlock(t *testing.T) {
	raw := "```mermaid\ngraph LR\n    A --> B\n```\n```mermaid\npie\n    X 1\n```"
	got := ExtractDiagram(raw)
	if !strings.HasPrefix(got, "graph LR") {
		t.Fatalf("expected first diagram, got %q", got)
	}
}

func TestExtractUnfencedDiagramGetsDeclaration(t *testing.T) {
	raw := "```mermaid\nA --> B\n```"
	got := ExtractDiagram(raw)
	if !strings.HasPrefix(got, "flowchart TD") {
		t.Fatalf("expected default declaration prefix, got %q", got)
	}
}
