package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "appweave",
	Short: "Describe a web app, watch it get built",
	Long: "AppWeave turns natural-language prompts into runnable web applications.\n" +
		"It classifies the request, generates the code, materializes a project\n" +
		"tree and draws an architecture diagram, all inside a terminal workspace.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/appweave/config.yaml)")
	rootCmd.PersistentFlags().String("provider", "", "completion backend: gemini or openai")
	rootCmd.PersistentFlags().String("model", "", "model name override")
	rootCmd.PersistentFlags().StringP("workspace", "w", "", "project workspace directory")
	viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "appweave")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APPWEAVE")

	viper.SetDefault("provider", "gemini")
	viper.SetDefault("model", "")
	viper.SetDefault("api_key", "")
	viper.SetDefault("base_url", "")
	viper.SetDefault("workspace", ".")
	viper.SetDefault("typing.cps", 400)
	viper.SetDefault("data_dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "appweave"))

	_ = viper.ReadInConfig()
}

// newLogger writes to a file under data_dir so log lines never tear the
// TUI. Falls back to a discarding logger when the file cannot be opened.
func newLogger() *log.Logger {
	dir := viper.GetString("data_dir")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard, "", 0)
	}
	f, err := os.OpenFile(filepath.Join(dir, "appweave.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(io.Discard, "", 0)
	}
	return log.New(f, "", log.LstdFlags)
}
