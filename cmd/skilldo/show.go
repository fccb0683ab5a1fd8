package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/SkillDoAI/skilldo/pkg/presenter"
)

// ShowConfig holds configuration for the show command
type ShowConfig struct {
	Render   bool
	Metadata bool
}

// NewShowConfig creates a new ShowConfig with default values
func NewShowConfig() *ShowConfig {
	return &ShowConfig{
		Render:   false,
		Metadata: false,
	}
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a skill document",
	Long: `Print a skill document by name. By default the raw Markdown source is
printed; --render renders it for the terminal, and --metadata prints
only the front-matter as JSON.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getShowConfigFromFlags(cmd)

		discovery, err := newDiscovery()
		if err != nil {
			presenter.Error(err, "Failed to initialize corpus discovery")
			os.Exit(1)
		}

		doc, err := discovery.GetSkill(args[0])
		if err != nil {
			presenter.Error(err, "Skill not found")
			os.Exit(1)
		}

		if config.Metadata {
			output, err := json.MarshalIndent(doc.Metadata, "", "  ")
			if err != nil {
				presenter.Error(err, "Failed to encode metadata")
				os.Exit(1)
			}
			fmt.Println(string(output))
			return
		}

		if config.Render {
			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				presenter.Error(err, "Failed to create renderer")
				os.Exit(1)
			}

			rendered, err := renderer.Render(doc.Body)
			if err != nil {
				presenter.Error(err, "Failed to render document")
				os.Exit(1)
			}
			fmt.Print(rendered)
			return
		}

		content, err := os.ReadFile(doc.Path)
		if err != nil {
			presenter.Error(err, "Failed to read document")
			os.Exit(1)
		}
		fmt.Print(string(content))
	},
}

func init() {
	defaults := NewShowConfig()
	showCmd.Flags().BoolP("render", "r", defaults.Render, "Render the document for the terminal")
	showCmd.Flags().BoolP("metadata", "m", defaults.Metadata, "Print only the front-matter as JSON")
}

// getShowConfigFromFlags extracts show configuration from command flags
func getShowConfigFromFlags(cmd *cobra.Command) *ShowConfig {
	config := NewShowConfig()

	if render, err := cmd.Flags().GetBool("render"); err == nil {
		config.Render = render
	}
	if metadata, err := cmd.Flags().GetBool("metadata"); err == nil {
		config.Metadata = metadata
	}

	return config
}
