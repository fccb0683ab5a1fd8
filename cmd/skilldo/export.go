package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SkillDoAI/skilldo/pkg/corpus"
	"github.com/SkillDoAI/skilldo/pkg/export"
	"github.com/SkillDoAI/skilldo/pkg/presenter"
)

// ExportConfig holds configuration for the export command
type ExportConfig struct {
	Format  string
	Output  string
	Title   string
	Summary string
}

// NewExportConfig creates a new ExportConfig with default values
func NewExportConfig() *ExportConfig {
	defaults := export.DefaultOptions()
	return &ExportConfig{
		Format:  "llms-txt",
		Output:  "",
		Title:   defaults.Title,
		Summary: defaults.Summary,
	}
}

// Validate validates the ExportConfig and returns an error if invalid
func (c *ExportConfig) Validate() error {
	if c.Format != "llms-txt" && c.Format != "json" {
		return errors.Errorf("invalid format: %s, must be one of: llms-txt, json", c.Format)
	}
	return nil
}

var exportCmd = &cobra.Command{
	Use:   "export [pattern...]",
	Short: "Export the corpus for LLM retrieval",
	Long: `Export the skill corpus as an llms.txt index or as JSON metadata.
Optional glob patterns restrict the export by skill name.
Output goes to stdout unless --output is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := getExportConfigFromFlags(cmd)

		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		discovery, err := newDiscovery()
		if err != nil {
			presenter.Error(err, "Failed to initialize corpus discovery")
			os.Exit(1)
		}

		skills, err := discovery.DiscoverSkills()
		if err != nil {
			presenter.Error(err, "Failed to discover skills")
			os.Exit(1)
		}

		skills, err = corpus.FilterByPatterns(skills, args)
		if err != nil {
			presenter.Error(err, "Invalid skill name pattern")
			os.Exit(1)
		}

		var output []byte
		switch config.Format {
		case "llms-txt":
			text, err := export.LlmsTxt(skills, export.Options{Title: config.Title, Summary: config.Summary})
			if err != nil {
				presenter.Error(err, "Failed to render llms.txt")
				os.Exit(1)
			}
			output = []byte(text)
		case "json":
			output, err = export.JSON(skills)
			if err != nil {
				presenter.Error(err, "Failed to render JSON export")
				os.Exit(1)
			}
		}

		if config.Output == "" {
			fmt.Print(string(output))
			return
		}

		if err := os.WriteFile(config.Output, output, 0o644); err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to write %s", config.Output))
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Exported %d skill documents to %s", len(skills), config.Output))
	},
}

func init() {
	defaults := NewExportConfig()
	exportCmd.Flags().StringP("format", "f", defaults.Format, "Export format (llms-txt, json)")
	exportCmd.Flags().StringP("output", "o", defaults.Output, "Output file (defaults to stdout)")
	exportCmd.Flags().String("title", defaults.Title, "Corpus title for llms.txt")
	exportCmd.Flags().String("summary", defaults.Summary, "Corpus summary for llms.txt")
}

// getExportConfigFromFlags extracts export configuration from command flags
func getExportConfigFromFlags(cmd *cobra.Command) *ExportConfig {
	config := NewExportConfig()

	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	if output, err := cmd.Flags().GetString("output"); err == nil {
		config.Output = output
	}
	if title, err := cmd.Flags().GetString("title"); err == nil {
		config.Title = title
	}
	if summary, err := cmd.Flags().GetString("summary"); err == nil {
		config.Summary = summary
	}

	return config
}
