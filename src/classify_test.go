// path: src/classify_test.go
package src

import (
	"context"
	"errors"
	"testing"
)

// stubInvoker returns a canned completion or error.
type stubInvoker struct {
	response string
	err      error
}

func (s stubInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func TestClassifyParsesFencedConfig(t *testing.T) {
	inv := stubInvoker{response: "```json\n" +
		`{"type":"fullstack","language":"typescript","name":"todo-app","description":"A todo app",` +
		`"frontend":{"framework":"react","styling":"tailwind","features":["dark-mode"]},` +
		`"backend":{"framework":"express","database":"sqlite"}}` + "\n```"}

	cfg := Classify(context.Background(), inv, nil, "build me a todo app")

	if cfg.Kind != KindFullstack {
		t.Fatalf("kind = %q", cfg.Kind)
	}
	if cfg.Name != "todo-app" {
		t.Fatalf("name = %q", cfg.Name)
	}
	if cfg.Frontend == nil || cfg.Frontend.Framework != "react" {
		t.Fatalf("frontend = %+v", cfg.Frontend)
	}
	if cfg.Backend == nil || cfg.Backend.Database != "sqlite" {
		t.Fatalf("backend = %+v", cfg.Backend)
	}
}

func TestClassifyInvokeErrorYieldsDefault(t *testing.T) {
	inv := stubInvoker{err: errors.New("network down")}
	cfg := Classify(context.Background(), inv, nil, "anything")
	if cfg.Kind != KindFrontend || cfg.Language != LangTypeScript {
		t.Fatalf("expected default config, got %+v", cfg)
	}
	if cfg.Frontend == nil || cfg.Frontend.Framework != "react" {
		t.Fatalf("default frontend missing: %+v", cfg.Frontend)
	}
}

func TestClassifyGarbageYieldsDefault(t *testing.T) {
	inv := stubInvoker{response: "I cannot classify this request, sorry."}
	cfg := Classify(context.Background(), inv, nil, "anything")
	if cfg.Kind != KindFrontend || cfg.Language != LangTypeScript {
		t.Fatalf("expected default config, got %+v", cfg)
	}
}

func TestClassifyMissingSubObjectYieldsDefault(t *testing.T) {
	inv := stubInvoker{response: `{"type":"frontend","language":"typescript","name":"x","description":"y"}`}
	cfg := Classify(context.Background(), inv, nil, "anything")
	if cfg.Name != "generated-app" {
		t.Fatalf("expected full default substitution, got %+v", cfg)
	}
}

func TestValidateDropsExtraSubObjects(t *testing.T) {
	cfg := ProjectConfig{
		Kind:     KindBackend,
		Language: LangJavaScript,
		Backend:  &BackendConfig{Framework: "express", Database: "postgres"},
		Frontend: &FrontendConfig{Framework: "react"},
	}
	if err := validateProjectConfig(&cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Frontend != nil {
		t.Fatalf("frontend should be nil for backend projects")
	}
	if cfg.Name == "" {
		t.Fatalf("name default not applied")
	}
}

func TestHasFrontendBackend(t *testing.T) {
	full := ProjectConfig{Kind: KindFullstack}
	if !full.HasFrontend() || !full.HasBackend() {
		t.Fatalf("fullstack should have both sides")
	}
	fe := ProjectConfig{Kind: KindFrontend}
	if !fe.HasFrontend() || fe.HasBackend() {
		t.Fatalf("frontend flags wrong")
	}
}
