// path: src/generate_test.go
package src

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedInvoker answers classification and generation prompts with
// separate canned responses.
type scriptedInvoker struct {
	classification string
	generation     string
	err            error
}

func (s scriptedInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if strings.HasPrefix(prompt, "Classify the following app request.") {
		return s.classification, nil
	}
	return s.generation, nil
}

const todoClassification = `{"type":"frontend","language":"typescript","name":"todo-app","description":"A todo list",` +
	`"frontend":{"framework":"react","styling":"tailwind","features":[]}}`

const todoGeneration = "I built a todo list with add and complete actions.\n\n" +
	"```tsx\nimport React from \"react\";\n\nexport default function App() {\n" +
	"  return <div>todos</div>;\n}\n```\n\n" +
	"```mermaid\nflowchart TD\n    UI[App] --> State[Todo State]\n```\n"

func TestGeneratorRunEndToEnd(t *testing.T) {
	gen := NewGenerator(scriptedInvoker{
		classification: todoClassification,
		generation:     todoGeneration,
	}, nil)

	res := gen.Run(context.Background(), "req-1", "build me a todo app")

	require.NoError(t, res.Failure)
	require.Equal(t, "req-1", res.RequestID)
	require.Equal(t, "todo-app", res.Config.Name)
	require.Equal(t, "I built a todo list with add and complete actions.", res.Explanation)
	require.Contains(t, res.Files, "src/App.tsx")
	require.Contains(t, res.Files, "package.json")
	require.Equal(t, "src/main.tsx", res.MainFile)
	require.True(t, strings.HasPrefix(res.Diagram, "flowchart TD"))
}

func TestGeneratorRunEmptyPrompt(t *testing.T) {
	gen := NewGenerator(scriptedInvoker{}, nil)
	res := gen.Run(context.Background(), "req-1", "   ")
	require.Error(t, res.Failure)
}

func TestGeneratorRunInvokeFailure(t *testing.T) {
	gen := NewGenerator(scriptedInvoker{err: errors.New("quota exceeded")}, nil)
	res := gen.Run(context.Background(), "req-1", "anything")
	require.Error(t, res.Failure)
	// Classification failure falls back silently; the run error comes
	// from the generation call.
	require.Equal(t, KindFrontend, res.Config.Kind)
}

func TestGeneratorRunNoCode(t *testing.T) {
	gen := NewGenerator(scriptedInvoker{
		classification: todoClassification,
		generation:     "Sorry, I can only describe the app in words.",
	}, nil)
	res := gen.Run(context.Background(), "req-1", "todo app")
	require.Error(t, res.Failure)
	require.NotEmpty(t, res.Explanation)
}

func TestGeneratorRunUnparsableFileMap(t *testing.T) {
	gen := NewGenerator(scriptedInvoker{
		classification: todoClassification,
		generation:     "Here:\n\n```json\n{\"index.html\": \"<html>\n```\n",
	}, nil)
	res := gen.Run(context.Background(), "req-1", "todo app")
	require.ErrorIs(t, res.Failure, ErrUnparsable)
}

func TestRunHeadlessWritesFiles(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerator(scriptedInvoker{
		classification: todoClassification,
		generation:     todoGeneration,
	}, nil)

	result, err := gen.RunHeadless(context.Background(), dir, "build me a todo app")
	require.NoError(t, err)
	require.NotEmpty(t, result.Actions)

	data, err := os.ReadFile(filepath.Join(dir, "src", "App.tsx"))
	require.NoError(t, err)
	require.Contains(t, string(data), "todos")

	for _, action := range result.Actions {
		require.Equal(t, "saved", action.Action)
		require.Equal(t, "created", action.Message)
		require.NotEmpty(t, action.Diff)
	}
}

func TestRunHeadlessDiffsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "App.tsx"), []byte("old content\n"), 0o644))

	gen := NewGenerator(scriptedInvoker{
		classification: todoClassification,
		generation:     todoGeneration,
	}, nil)

	result, err := gen.RunHeadless(context.Background(), dir, "build me a todo app")
	require.NoError(t, err)

	var updated bool
	for _, action := range result.Actions {
		if action.Path == "src/App.tsx" {
			require.Equal(t, "updated", action.Message)
			require.Contains(t, action.Diff, "-old content")
			updated = true
		}
	}
	require.True(t, updated, "existing file not reported as updated")
}
