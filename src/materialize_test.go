// path: src/materialize_test.go
package src

import (
	"errors"
	"strings"
	"testing"
)

func TestMaterializeJSONFileMap(t *testing.T) {
	code := `{"index.html": "<html></html>", "src/app.js": "console.log(1)"}`
	got, err := Materialize(code, DefaultProjectConfig())
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if len(got.Files) != 2 {
		t.Fatalf("files = %v", got.Files)
	}
	if got.Files["src/app.js"] != "console.log(1)" {
		t.Fatalf("content lost: %v", got.Files)
	}
	if got.MainFile != "index.html" {
		t.Fatalf("main file = %q", got.MainFile)
	}
}

func TestMaterializeBrokenJSONIsUnparsable(t *testing.T) {
	_, err := Materialize(`{"index.html": "<html>`, DefaultProjectConfig())
	if !errors.Is(err, ErrUnparsable) {
		t.Fatalf("expected ErrUnparsable, got %v", err)
	}
}

func TestMaterializeNonPathJSONFallsThrough(t *testing.T) {
	// Valid JSON, but the keys are not file paths. It should be stored as
	// a single generic file instead of failing.
	code := `{"count": "zero", "flag": "yes"}`
	got, err := Materialize(code, DefaultProjectConfig())
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if len(got.Files) != 1 {
		t.Fatalf("expected single generic file, got %v", got.Files)
	}
}

func TestMaterializeReactComponent(t *testing.T) {
	code := "import React from \"react\";\n\nexport default function App() {\n  return <h1>Hello</h1>;\n}"
	cfg := DefaultProjectConfig()
	got, err := Materialize(code, cfg)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}

	for _, want := range []string{"index.html", "src/main.tsx", "src/App.tsx", "src/index.css", "package.json", "vite.config.ts"} {
		if _, ok := got.Files[want]; !ok {
			t.Fatalf("skeleton missing %q: %v", want, keys(got.Files))
		}
	}
	if !strings.Contains(got.Files["src/App.tsx"], "Hello") {
		t.Fatalf("component code not embedded")
	}
	if got.MainFile != "src/main.tsx" {
		t.Fatalf("main file = %q", got.MainFile)
	}
}

func TestMaterializeReactComponentJavaScript(t *testing.T) {
	code := "import React from 'react';\nexport default function App() { return <div/>; }"
	cfg := DefaultProjectConfig()
	cfg.Language = LangJavaScript
	got, err := Materialize(code, cfg)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if _, ok := got.Files["src/App.jsx"]; !ok {
		t.Fatalf("expected jsx extension: %v", keys(got.Files))
	}
	if got.MainFile != "src/main.jsx" {
		t.Fatalf("main file = %q", got.MainFile)
	}
}

func TestMaterializeHTMLDocumentSplits(t *testing.T) {
	code := "<!DOCTYPE html>\n<html><head><style>body { color: red; }</style></head>" +
		"<body><script>console.log(\"hi\")</script></body></html>"
	got, err := Materialize(code, DefaultProjectConfig())
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if !strings.Contains(got.Files["index.html"], "<!DOCTYPE html>") {
		t.Fatalf("index.html missing document")
	}
	if !strings.Contains(got.Files["styles.css"], "color: red") {
		t.Fatalf("style block not split out: %v", got.Files["styles.css"])
	}
	if !strings.Contains(got.Files["script.js"], "console.log") {
		t.Fatalf("script block not split out")
	}
	if got.MainFile != "index.html" {
		t.Fatalf("main file = %q", got.MainFile)
	}
}

func TestMaterializeSingleFileFallback(t *testing.T) {
	got, err := Materialize("package main\n\nfunc main() {}\n", DefaultProjectConfig())
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if _, ok := got.Files["generated/app.go"]; !ok {
		t.Fatalf("expected generated/app.go, got %v", keys(got.Files))
	}
	if got.MainFile != "generated/app.go" {
		t.Fatalf("main file = %q", got.MainFile)
	}
}

func TestMaterializeEmptyCode(t *testing.T) {
	got, err := Materialize("   \n", DefaultProjectConfig())
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if len(got.Files) != 0 || got.MainFile != "" {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
