package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/appweave/appweave/src"
)

var resumeSession bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive workspace",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&resumeSession, "resume", false, "restore the last session")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
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

	store, err := src.OpenStore(filepath.Join(viper.GetString("data_dir"), "sessions.db"))
	if err != nil {
		logger.Printf("session store unavailable: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	renderer, err := src.NewUTCPRenderer(ctx)
	if err != nil {
		logger.Printf("external diagram renderer unavailable: %v", err)
		renderer = src.NewLocalRenderer()
	}

	m := src.NewModel(ctx, src.ModelOptions{
		Generator: src.NewGenerator(inv, logger),
		Store:     store,
		Renderer:  renderer,
		Logger:    logger,
		Workspace: viper.GetString("workspace"),
		TypingCPS: viper.GetInt("typing.cps"),
	})
	if resumeSession {
		m.RestoreSession()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
