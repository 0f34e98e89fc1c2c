package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liveset-audio/dsp-engine/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "dsp-engine",
	Short: "Real-time block-rendering audio DSP engine",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tracksCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dsp-engine: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
