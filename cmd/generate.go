package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/appweave/appweave/src"
)

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate an app without the TUI and write it to the workspace",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := newLogger()
	prompt := strings.Join(args, " ")

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
	result, err := gen.RunHeadless(ctx, viper.GetString("workspace"), prompt)
	if err != nil {
		return err
	}

	if result.Result.Explanation != "" {
		fmt.Println(result.Result.Explanation)
		fmt.Println()
	}
	for _, action := range result.Actions {
		switch action.Action {
		case "saved":
			fmt.Printf("💾 %s %s\n", action.Message, action.Path)
			if strings.TrimSpace(action.Diff) != "" {
				fmt.Print(action.Diff)
			}
		case "error":
			fmt.Printf("❌ %s: %v\n", action.Path, action.Err)
		}
	}
	if result.Result.MainFile != "" {
		fmt.Printf("\nEntry point: %s\n", result.Result.MainFile)
	}
	return nil
}
