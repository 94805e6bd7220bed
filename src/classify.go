// path: src/classify.go
package src

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// ProjectConfig classifies the target project derived from a user prompt.
// The frontend/backend sub-objects exist exactly when Kind requires them.
type ProjectConfig struct {
	Kind        string          `json:"type"`
	Language    string          `json:"language"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Frontend    *FrontendConfig `json:"frontend,omitempty"`
	Backend     *BackendConfig  `json:"backend,omitempty"`
}

type FrontendConfig struct {
	Framework string   `json:"framework"`
	Styling   string   `json:"styling"`
	Features  []string `json:"features"`
}

type BackendConfig struct {
	Framework string `json:"framework"`
	Database  string `json:"database"`
}

const (
	KindFrontend  = "frontend"
	KindBackend   = "backend"
	KindFullstack = "fullstack"

	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
)

// DefaultProjectConfig is the fixed fallback used whenever classification
// fails. Never block generation on a bad classification.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Kind:        KindFrontend,
		Language:    LangTypeScript,
		Name:        "generated-app",
		Description: "Generated application",
		Frontend: &FrontendConfig{
			Framework: "react",
			Styling:   "tailwind",
			Features:  []string{},
		},
	}
}

func (c ProjectConfig) HasFrontend() bool {
	return c.Kind == KindFrontend || c.Kind == KindFullstack
}

func (c ProjectConfig) HasBackend() bool {
	return c.Kind == KindBackend || c.Kind == KindFullstack
}

// Classify asks the model to emit a strict-JSON ProjectConfig for the
// user's prompt. Any transport or parse failure yields the default config;
// the failure is logged, never surfaced.
func Classify(ctx context.Context, inv Invoker, logger *log.Logger, userPrompt string) ProjectConfig {
	raw, err := inv.Invoke(ctx, BuildClassificationPrompt(userPrompt))
	if err != nil {
		logf(logger, "classification call failed, using default config: %v", err)
		return DefaultProjectConfig()
	}
	cfg, err := parseProjectConfig(raw)
	if err != nil {
		logf(logger, "classification parse failed, using default config: %v", err)
		return DefaultProjectConfig()
	}
	return cfg
}

func parseProjectConfig(raw string) (ProjectConfig, error) {
	data, err := extractJSON(raw)
	if err != nil {
		return ProjectConfig{}, err
	}
	var cfg ProjectConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ProjectConfig{}, fmt.Errorf("invalid config JSON: %w", err)
	}
	if err := validateProjectConfig(&cfg); err != nil {
		return ProjectConfig{}, err
	}
	return cfg, nil
}

// validateProjectConfig enforces the sub-object invariant. A partial or
// malformed shape is an error so the caller substitutes the full default
// rather than propagating a half-filled config.
func validateProjectConfig(cfg *ProjectConfig) error {
	switch cfg.Kind {
	case KindFrontend, KindBackend, KindFullstack:
	default:
		return fmt.Errorf("unknown project kind %q", cfg.Kind)
	}
	switch cfg.Language {
	case LangJavaScript, LangTypeScript:
	default:
		return fmt.Errorf("unknown project language %q", cfg.Language)
	}
	if cfg.HasFrontend() && cfg.Frontend == nil {
		return errors.New("missing frontend section")
	}
	if cfg.HasBackend() && cfg.Backend == nil {
		return errors.New("missing backend section")
	}
	if !cfg.HasFrontend() {
		cfg.Frontend = nil
	}
	if !cfg.HasBackend() {
		cfg.Backend = nil
	}
	if cfg.Frontend != nil && cfg.Frontend.Features == nil {
		cfg.Frontend.Features = []string{}
	}
	if cfg.Name == "" {
		cfg.Name = "generated-app"
	}
	return nil
}

var (
	jsonFenceRe         = regexp.MustCompile("(?is)```(?:json[c5]?|json5)?\\s*([{\\[].*?[}\\]])\\s*```")
	trailingArrayComma  = regexp.MustCompile(`,\s*\]`)
	trailingObjectComma = regexp.MustCompile(`,\s*\}`)
	backtickStringRe    = regexp.MustCompile("`([^`\\\\]*(?:\\\\.[^`\\\\]*)*)`")
)

// extractJSON finds the first JSON object or array in a string, handling
// optional markdown fences, backtick quoting and trailing commas. Models
// wrap JSON in prose despite instructions; tolerate it.
func extractJSON(raw string) ([]byte, error) {
	candidate := raw

	if matches := jsonFenceRe.FindStringSubmatch(raw); len(matches) > 1 {
		candidate = matches[1]
	} else {
		start := strings.IndexAny(raw, "[{")
		if start == -1 {
			return nil, errors.New("no JSON object or array found")
		}
		end := strings.LastIndexAny(raw, "}]")
		if end == -1 || end < start {
			return nil, errors.New("no JSON object or array found")
		}
		candidate = raw[start : end+1]
	}

	jsonStr := strings.TrimSpace(candidate)
	if jsonStr == "" {
		return nil, errors.New("empty JSON payload")
	}

	jsonStr = trailingArrayComma.ReplaceAllString(jsonStr, "]")
	jsonStr = trailingObjectComma.ReplaceAllString(jsonStr, "}")

	// Some providers occasionally use backticks instead of double quotes.
	if strings.Contains(jsonStr, "`") {
		jsonStr = backtickStringRe.ReplaceAllString(jsonStr, "\"$1\"")
	}

	first := jsonStr[0]
	if first != '{' && first != '[' {
		return nil, errors.New("response did not contain JSON object or array")
	}

	return []byte(jsonStr), nil
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}
