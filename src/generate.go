// path: src/generate.go
package src

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GenerationResult is everything one completed request produced. Failure
// is non-nil when the pipeline could not deliver files; Explanation and
// Diagram may still carry partial output in that case.
type GenerationResult struct {
	RequestID   string
	Prompt      string
	Explanation string
	RawCode     string
	Files       map[string]string
	MainFile    string
	Diagram     string
	Config      ProjectConfig
	Failure     error
}

// Generator runs the full prompt-to-files pipeline: classify the request,
// build the generation prompt, invoke the model, extract the parts and
// materialize the code into a file map.
type Generator struct {
	Invoker Invoker
	Logger  *log.Logger
}

func NewGenerator(inv Invoker, logger *log.Logger) *Generator {
	return &Generator{Invoker: inv, Logger: logger}
}

// Run executes one generation request. requestID ties the result back to
// the issuing tracker so stale completions can be discarded.
func (g *Generator) Run(ctx context.Context, requestID, userPrompt string) GenerationResult {
	res := GenerationResult{RequestID: requestID, Prompt: userPrompt}
	if strings.TrimSpace(userPrompt) == "" {
		res.Failure = errors.New("prompt cannot be empty")
		return res
	}

	res.Config = Classify(ctx, g.Invoker, g.Logger, userPrompt)

	raw, err := g.Invoker.Invoke(ctx, BuildGenerationPrompt(res.Config, userPrompt))
	if err != nil {
		res.Failure = fmt.Errorf("generation failed: %w", err)
		return res
	}

	ext := Extract(raw)
	res.Explanation = ext.Explanation
	res.RawCode = ext.Code
	res.Diagram = ext.Diagram

	if ext.Code == "" {
		res.Failure = errors.New("response contained no code")
		return res
	}

	mat, err := Materialize(ext.Code, res.Config)
	if err != nil {
		res.Failure = err
		return res
	}
	res.Files = mat.Files
	res.MainFile = mat.MainFile
	return res
}

// FileAction describes one write performed by a headless run.
type FileAction struct {
	Path, Action, Message string
	Err                   error
	Diff                  string
}

// HeadlessResult is what a non-interactive generation run reports.
type HeadlessResult struct {
	Result  GenerationResult
	Actions []FileAction
}

// RunHeadless generates an app for the prompt and writes the files under
// workspace, returning per-file actions with diffs against whatever was
// on disk before.
func (g *Generator) RunHeadless(ctx context.Context, workspace, userPrompt string) (*HeadlessResult, error) {
	if strings.TrimSpace(userPrompt) == "" {
		return nil, errors.New("prompt cannot be empty")
	}
	abs, err := filepath.Abs(workspace)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}

	res := g.Run(ctx, "headless", userPrompt)
	if res.Failure != nil {
		return nil, res.Failure
	}

	tracker := NewChangeTracker()
	actions := make([]FileAction, 0, len(res.Files))
	paths := make([]string, 0, len(res.Files))
	for p := range res.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, rel := range paths {
		content := res.Files[rel]
		target := filepath.Join(abs, filepath.FromSlash(rel))

		var before string
		if data, err := os.ReadFile(target); err == nil {
			before = string(data)
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			actions = append(actions, FileAction{Path: rel, Action: "error", Err: err})
			continue
		}
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			actions = append(actions, FileAction{Path: rel, Action: "error", Err: err})
			continue
		}

		msg := "created"
		if before != "" {
			msg = "updated"
		}
		tracker.Record(rel, content)
		actions = append(actions, FileAction{
			Path:    rel,
			Action:  "saved",
			Message: msg,
			Diff:    tracker.DiffPretty(rel, before, content),
		})
	}

	return &HeadlessResult{Result: res, Actions: actions}, nil
}
