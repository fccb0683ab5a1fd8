package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SkillDoAI/skilldo/pkg/presenter"
	"github.com/SkillDoAI/skilldo/pkg/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema for skill front-matter",
	Long: `Print the JSON schema describing skill document front-matter, for use
in editor validation and CI pipelines.`,
	Run: func(_ *cobra.Command, _ []string) {
		output, err := schema.Frontmatter()
		if err != nil {
			presenter.Error(err, "Failed to generate schema")
			os.Exit(1)
		}
		fmt.Println(string(output))
	},
}
