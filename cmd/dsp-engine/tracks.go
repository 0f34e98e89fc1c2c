package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liveset-audio/dsp-engine/internal/engine"
	"github.com/liveset-audio/dsp-engine/internal/sample"
)

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List the sample packs and samples available to the mono sampler",
	RunE:  runTracks,
}

func runTracks(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	sampleDir := cfg.GetStringOr("soir.dsp.sample_directory", "./samples")

	manager, err := sample.Init(sampleDir, engine.SampleRate)
	if err != nil {
		return fmt.Errorf("dsp-engine tracks: %w", err)
	}

	for _, packName := range manager.PackNames() {
		pack, err := manager.GetPack(packName)
		if err != nil {
			return fmt.Errorf("dsp-engine tracks: %w", err)
		}
		fmt.Printf("%s:\n", packName)
		for _, name := range pack.GetSampleNames() {
			fmt.Printf("  - %s\n", name)
		}
	}
	return nil
}
