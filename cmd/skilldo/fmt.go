package main

import (
	"fmt"
	"os"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/cobra"

	"github.com/SkillDoAI/skilldo/pkg/presenter"
	"github.com/SkillDoAI/skilldo/pkg/skill"
)

// FmtConfig holds configuration for the fmt command
type FmtConfig struct {
	Write bool
}

// NewFmtConfig creates a new FmtConfig with default values
func NewFmtConfig() *FmtConfig {
	return &FmtConfig{
		Write: false,
	}
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Normalize skill document front-matter",
	Long: `Re-emit front-matter in canonical key order (name, description, version,
ecosystem, license, generated_with); the document body is left untouched.

Without --write, a unified diff of the pending changes is printed.
Without file arguments, every document in the corpus is formatted.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := getFmtConfigFromFlags(cmd)

		paths := args
		if len(paths) == 0 {
			discovery, err := newDiscovery()
			if err != nil {
				presenter.Error(err, "Failed to initialize corpus discovery")
				os.Exit(1)
			}
			paths, err = discovery.DiscoverPaths()
			if err != nil {
				presenter.Error(err, "Failed to discover skill files")
				os.Exit(1)
			}
		}

		changed := 0
		failed := 0
		for _, path := range paths {
			original, err := os.ReadFile(path)
			if err != nil {
				presenter.Error(err, fmt.Sprintf("Failed to read %s", path))
				failed++
				continue
			}

			normalized, err := skill.Normalize(original)
			if err != nil {
				presenter.Error(err, fmt.Sprintf("Failed to normalize %s", path))
				failed++
				continue
			}

			if string(normalized) == string(original) {
				continue
			}
			changed++

			if config.Write {
				if err := os.WriteFile(path, normalized, 0o644); err != nil {
					presenter.Error(err, fmt.Sprintf("Failed to write %s", path))
					failed++
					continue
				}
				presenter.Success(fmt.Sprintf("Formatted %s", path))
			} else {
				diff := udiff.Unified(path, path, string(original), string(normalized))
				fmt.Print(diff)
			}
		}

		if changed == 0 && failed == 0 {
			presenter.Info("All documents already formatted")
		}
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewFmtConfig()
	fmtCmd.Flags().BoolP("write", "w", defaults.Write, "Write changes back to the files instead of printing a diff")
}

// getFmtConfigFromFlags extracts fmt configuration from command flags
func getFmtConfigFromFlags(cmd *cobra.Command) *FmtConfig {
	config := NewFmtConfig()

	if write, err := cmd.Flags().GetBool("write"); err == nil {
		config.Write = write
	}

	return config
}
