// path: src/invoker.go
package src

import (
	"context"
	"fmt"
	"strings"

	agent "github.com/Protocol-Lattice/go-agent"
	adk "github.com/Protocol-Lattice/go-agent/src/adk"
	"github.com/Protocol-Lattice/go-agent/src/adk/modules"
	"github.com/Protocol-Lattice/go-agent/src/memory"
	"github.com/Protocol-Lattice/go-agent/src/models"
	openai "github.com/sashabaranov/go-openai"
)

// Invoker is the single seam to the completion backend. Everything above
// it works with raw strings, so tests substitute a canned implementation.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// InvokerConfig selects and parameterizes a backend.
type InvokerConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewInvoker builds the configured backend. Supported providers are
// "gemini" (agent runtime) and "openai" (chat completions, also usable
// against any OpenAI-compatible endpoint via BaseURL).
func NewInvoker(ctx context.Context, cfg InvokerConfig) (Invoker, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return newAgentInvoker(ctx, cfg)
	case "openai":
		return newOpenAIInvoker(cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// agentInvoker runs completions through the go-agent runtime with an
// in-memory session memory.
type agentInvoker struct {
	agent *agent.Agent
}

func newAgentInvoker(ctx context.Context, cfg InvokerConfig) (Invoker, error) {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-pro"
	}
	memOpts := memory.DefaultOptions()
	builder, err := adk.New(
		ctx,
		adk.WithDefaultSystemPrompt(GenerationSystemPrompt),
		adk.WithModules(
			modules.InMemoryMemoryModule(10000, memory.AutoEmbedder(), &memOpts),
			modules.NewModelModule("gemini", func(_ context.Context) (models.Agent, error) {
				return models.NewGeminiLLM(ctx, model, "Web app generator")
			}),
		),
	)
	if err != nil {
		return nil, err
	}
	ag, err := builder.BuildAgent(ctx)
	if err != nil {
		return nil, err
	}
	return &agentInvoker{agent: ag}, nil
}

func (a *agentInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	return a.agent.Generate(ctx, "1", prompt)
}

// openaiInvoker talks to an OpenAI-compatible chat completions endpoint.
type openaiInvoker struct {
	client *openai.Client
	model  string
}

func newOpenAIInvoker(cfg InvokerConfig) (Invoker, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai provider requires an API key")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}
	return &openaiInvoker{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

func (o *openaiInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: GenerationSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
