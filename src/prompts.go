// path: src/prompts.go
package src

import (
	"fmt"
	"strings"
)

// GenerationSystemPrompt shapes every completion the workspace requests.
const GenerationSystemPrompt = "You are AppWeave, an expert web application generator.\n\n" +
	"For every request you produce exactly three parts, in this order:\n\n" +
	"1.  **Explanation:** A short explanation in plain prose. No headings.\n" +
	"2.  **Code:** The application code in fenced code blocks. When the app spans several files, emit ONE fenced `json` block containing an object mapping file paths to full file contents:\n" +
	"```json\n" +
	"{\"index.html\": \"...\", \"src/App.tsx\": \"...\"}\n" +
	"```\n" +
	"    For a single component, one fenced block with the component is fine.\n" +
	"3.  **Diagram:** A mermaid architecture diagram in a fenced block labeled `mermaid`, starting with a declaration such as `flowchart TD`.\n\n" +
	"**Rules (Non-Negotiable):**\n" +
	"1.  Code must be complete and runnable. Never elide with \"...\".\n" +
	"2.  Do not wrap the whole answer in a single fence.\n" +
	"3.  Keep mermaid labels free of parentheses, quotes and colons.\n"

// classificationPrompt demands strict JSON so the parser has a chance.
const classificationPrompt = "Classify the following app request. Reply with ONLY a JSON object, no prose, matching exactly this shape:\n\n" +
	"{\n" +
	"  \"type\": \"frontend\" | \"backend\" | \"fullstack\",\n" +
	"  \"language\": \"javascript\" | \"typescript\",\n" +
	"  \"name\": \"kebab-case-name\",\n" +
	"  \"description\": \"one sentence\",\n" +
	"  \"frontend\": {\"framework\": \"react\", \"styling\": \"tailwind\", \"features\": []},\n" +
	"  \"backend\": {\"framework\": \"express\", \"database\": \"sqlite\"}\n" +
	"}\n\n" +
	"Include \"frontend\" only when type is frontend or fullstack, and \"backend\" only when type is backend or fullstack.\n\n" +
	"Request:\n%s"

// BuildClassificationPrompt wraps the user's request in the strict-JSON
// classification instruction.
func BuildClassificationPrompt(userPrompt string) string {
	return fmt.Sprintf(classificationPrompt, userPrompt)
}

// BuildGenerationPrompt combines the classified project shape with the
// user's request so the model targets the right stack.
func BuildGenerationPrompt(cfg ProjectConfig, userPrompt string) string {
	var b strings.Builder
	b.WriteString("Build the following web application.\n\n")
	fmt.Fprintf(&b, "Project type: %s\n", cfg.Kind)
	fmt.Fprintf(&b, "Language: %s\n", cfg.Language)
	if cfg.Frontend != nil {
		fmt.Fprintf(&b, "Frontend: %s with %s styling\n", cfg.Frontend.Framework, cfg.Frontend.Styling)
		if len(cfg.Frontend.Features) > 0 {
			fmt.Fprintf(&b, "Features: %s\n", strings.Join(cfg.Frontend.Features, ", "))
		}
	}
	if cfg.Backend != nil {
		fmt.Fprintf(&b, "Backend: %s backed by %s\n", cfg.Backend.Framework, cfg.Backend.Database)
	}
	b.WriteString("\nRequest:\n")
	b.WriteString(userPrompt)
	return b.String()
}
