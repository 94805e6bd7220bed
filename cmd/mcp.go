package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/appweave/appweave/src"
)

const (
	toolScaffoldApp     = "scaffold_app"
	toolClassifyPrompt  = "classify_prompt"
	toolValidateDiagram = "validate_diagram"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Expose generation as MCP tools over stdio",
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := newLogger()

	inv, err := src.NewInvoker(ctx, src.InvokerConfig{
		Provider: viper.GetString("provider"),
		Model:    viper.GetString("model"),
		APIKey:   viper.GetString("api_key"),
		BaseURL:  viper.GetString("base_url"),
	})
	if err != nil {
		return fmt.Errorf("init completion backend: %w", err)
	}
	gen := src.NewGenerator(inv, logger)

	s := server.NewMCPServer(
		"AppWeave MCP Server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	registerTools(s, gen, inv)

	return server.ServeStdio(s)
}

func registerTools(s *server.MCPServer, gen *src.Generator, inv src.Invoker) {
	s.AddTool(mcp.Tool{
		Name:        toolScaffoldApp,
		Description: "Generate a web application from a natural-language prompt and return it as a JSON map of file paths to contents",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"prompt": map[string]interface{}{
					"type":        "string",
					"description": "Description of the app to build",
				},
			},
			Required: []string{"prompt"},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prompt := request.GetString("prompt", "")
		res := gen.Run(ctx, "mcp", prompt)
		if res.Failure != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Generation failed: %v", res.Failure)), nil
		}
		payload := map[string]interface{}{
			"explanation": res.Explanation,
			"files":       res.Files,
			"main_file":   res.MainFile,
			"diagram":     res.Diagram,
			"config":      res.Config,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	s.AddTool(mcp.Tool{
		Name:        toolClassifyPrompt,
		Description: "Classify an app request into a project configuration (type, language, frameworks)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"prompt": map[string]interface{}{
					"type":        "string",
					"description": "Description of the app to classify",
				},
			},
			Required: []string{"prompt"},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prompt := request.GetString("prompt", "")
		cfg := src.Classify(ctx, inv, nil, prompt)
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to encode config: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	s.AddTool(mcp.Tool{
		Name:        toolValidateDiagram,
		Description: "Normalize a mermaid diagram definition: sanitize problem characters and ensure a diagram-type declaration",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"definition": map[string]interface{}{
					"type":        "string",
					"description": "Candidate mermaid definition",
				},
			},
			Required: []string{"definition"},
		},
	}, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		def := request.GetString("definition", "")
		normalized := src.NormalizeDiagram(def)
		if normalized == "" {
			return mcp.NewToolResultError("Empty diagram definition"), nil
		}
		return mcp.NewToolResultText(normalized), nil
	})
}
