// path: src/materialize.go
package src

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnparsable marks a structure-detection failure. Callers surface it as
// a dismissible "could not parse generated code" notice and keep the
// previous tree untouched.
var ErrUnparsable = errors.New("could not parse generated code")

// Materialized is the outcome of structure detection: a flat file map plus
// the file to auto-open.
type Materialized struct {
	Files    map[string]string
	MainFile string
}

// mainFileCandidates is the priority order for choosing the file the
// editor opens after materialization.
var mainFileCandidates = []string{
	"src/main.tsx",
	"src/main.jsx",
	"src/main.ts",
	"src/main.js",
	"src/App.tsx",
	"src/App.jsx",
	"src/index.tsx",
	"src/index.jsx",
	"index.html",
	"public/index.html",
	"index.js",
	"index.ts",
	"main.go",
	"app.py",
}

var (
	jsxTagRe      = regexp.MustCompile(`<[A-Za-z][A-Za-z0-9]*(\s[^>]*)?>`)
	htmlRootRe    = regexp.MustCompile(`(?i)<!DOCTYPE\s+html|<html[\s>]`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)
)

// Materialize converts extracted code text into a file map and selects the
// main file. Detection priority: explicit JSON file map, component-framework
// code, full HTML document, then a single generic file.
func Materialize(code string, cfg ProjectConfig) (*Materialized, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return &Materialized{Files: map[string]string{}}, nil
	}

	files, err := detectStructure(code, cfg)
	if err != nil {
		return nil, err
	}
	return &Materialized{Files: files, MainFile: chooseMainFile(files)}, nil
}

func detectStructure(code string, cfg ProjectConfig) (map[string]string, error) {
	if strings.HasPrefix(code, "{") {
		files, ok, err := parseFileMap(code)
		if err != nil {
			return nil, err
		}
		if ok {
			return files, nil
		}
	}
	if looksLikeComponent(code) {
		return spaSkeleton(code, cfg), nil
	}
	if htmlRootRe.MatchString(code) {
		return splitHTMLDocument(code), nil
	}
	return singleFile(code), nil
}

// parseFileMap treats a leading-brace payload as an explicit path → content
// map. A syntactically broken object is a hard parse error; a valid object
// whose keys do not look like paths falls through to the next detector.
func parseFileMap(code string) (map[string]string, bool, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(code), &raw); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	if len(raw) == 0 {
		return nil, false, nil
	}
	files := make(map[string]string, len(raw))
	pathlike := false
	for key, val := range raw {
		var content string
		if err := json.Unmarshal(val, &content); err != nil {
			return nil, false, nil
		}
		if key == "" || strings.HasPrefix(key, "/") {
			return nil, false, nil
		}
		if strings.ContainsAny(key, "/.") {
			pathlike = true
		}
		files[key] = content
	}
	if !pathlike {
		return nil, false, nil
	}
	return files, true, nil
}

// looksLikeComponent detects component-framework output: a React-style
// import together with JSX-like markup.
func looksLikeComponent(code string) bool {
	hasImport := strings.Contains(code, "import React") ||
		strings.Contains(code, "from \"react\"") ||
		strings.Contains(code, "from 'react'") ||
		strings.Contains(code, "export default function") ||
		strings.Contains(code, "export default class")
	return hasImport && jsxTagRe.MatchString(code)
}

// spaSkeleton embeds generated component code as the root component of a
// canonical single-page-app layout: entry point, root component,
// stylesheet, manifest and build config.
func spaSkeleton(code string, cfg ProjectConfig) map[string]string {
	ext := "jsx"
	if cfg.Language == LangTypeScript {
		ext = "tsx"
	}
	name := cfg.Name
	if name == "" {
		name = "generated-app"
	}
	styling := ""
	if cfg.Frontend != nil {
		styling = cfg.Frontend.Styling
	}

	css := "body {\n  margin: 0;\n  font-family: system-ui, sans-serif;\n}\n"
	if styling == "tailwind" {
		css = "@tailwind base;\n@tailwind components;\n@tailwind utilities;\n"
	}

	files := map[string]string{
		"index.html": fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>%s</title>
  </head>
  <body>
    <div id="root"></div>
    <script type="module" src="/src/main.%s"></script>
  </body>
</html>
`, name, ext),
		"src/main." + ext: fmt.Sprintf(`import React from "react";
import ReactDOM from "react-dom/client";
import App from "./App";
import "./index.css";

ReactDOM.createRoot(document.getElementById("root")%s).render(
  <React.StrictMode>
    <App />
  </React.StrictMode>
);
`, tsNonNull(cfg)),
		"src/App." + ext: strings.TrimRight(code, "\n") + "\n",
		"src/index.css":  css,
		"package.json":   packageManifest(name, cfg),
		"vite.config." + buildConfigExt(cfg): `import { defineConfig } from "vite";
import react from "@vitejs/plugin-react";

export default defineConfig({
  plugins: [react()],
});
`,
	}
	return files
}

func tsNonNull(cfg ProjectConfig) string {
	if cfg.Language == LangTypeScript {
		return "!"
	}
	return ""
}

func buildConfigExt(cfg ProjectConfig) string {
	if cfg.Language == LangTypeScript {
		return "ts"
	}
	return "js"
}

func packageManifest(name string, cfg ProjectConfig) string {
	manifest := map[string]any{
		"name":    name,
		"private": true,
		"version": "0.1.0",
		"type":    "module",
		"scripts": map[string]string{
			"dev":   "vite",
			"build": "vite build",
		},
		"dependencies": map[string]string{
			"react":     "^18.3.1",
			"react-dom": "^18.3.1",
		},
		"devDependencies": map[string]string{
			"@vitejs/plugin-react": "^4.3.0",
			"vite":                 "^5.4.0",
		},
	}
	data, _ := json.MarshalIndent(manifest, "", "  ")
	return string(data) + "\n"
}

// splitHTMLDocument stores the whole payload as a markup file and pulls
// the first embedded style and script blocks into sibling files.
func splitHTMLDocument(code string) map[string]string {
	files := map[string]string{
		"index.html": strings.TrimRight(code, "\n") + "\n",
	}
	if m := styleBlockRe.FindStringSubmatch(code); len(m) > 1 && strings.TrimSpace(m[1]) != "" {
		files["styles.css"] = strings.TrimSpace(m[1]) + "\n"
	}
	if m := scriptBlockRe.FindStringSubmatch(code); len(m) > 1 && strings.TrimSpace(m[1]) != "" {
		files["script.js"] = strings.TrimSpace(m[1]) + "\n"
	}
	return files
}

// singleFile stores unrecognized code under a generic name, guessing the
// extension from the code itself.
func singleFile(code string) map[string]string {
	name := "generated/app." + extForCode(code)
	return map[string]string{name: strings.TrimRight(code, "\n") + "\n"}
}

func extForCode(code string) string {
	switch {
	case strings.Contains(code, "package main") || strings.Contains(code, "func main("):
		return "go"
	case strings.Contains(code, "def ") && strings.Contains(code, ":"):
		return "py"
	case strings.Contains(code, "console.log") || strings.Contains(code, "function "):
		return "js"
	case strings.HasPrefix(strings.TrimSpace(code), "#!"):
		return "sh"
	default:
		return "txt"
	}
}

// chooseMainFile scans the conventional entry-point list, then falls back
// to the structurally first file.
func chooseMainFile(files map[string]string) string {
	for _, candidate := range mainFileCandidates {
		if _, ok := files[candidate]; ok {
			return candidate
		}
	}
	return TreeFromMap(files).FirstFile()
}
