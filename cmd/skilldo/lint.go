package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SkillDoAI/skilldo/pkg/lint"
	"github.com/SkillDoAI/skilldo/pkg/presenter"
)

// LintConfig holds configuration for the lint command
type LintConfig struct {
	Format string
	Quiet  bool
}

// NewLintConfig creates a new LintConfig with default values
func NewLintConfig() *LintConfig {
	return &LintConfig{
		Format: "text",
		Quiet:  false,
	}
}

// Validate validates the LintConfig and returns an error if invalid
func (c *LintConfig) Validate() error {
	if c.Format != "text" && c.Format != "json" {
		return errors.Errorf("invalid format: %s, must be one of: text, json", c.Format)
	}
	return nil
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Lint the structure of all skill documents",
	Long: `Check every skill document in the corpus for structural problems:
front-matter that fails to parse or misses required keys, unterminated
code fences, python fences that do not scan, out-of-order sections, and
duplicate skill names.

Exits with a non-zero status if any error-severity finding is reported.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getLintConfigFromFlags(cmd)

		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		presenter.SetQuiet(config.Quiet)

		discovery, err := newDiscovery()
		if err != nil {
			presenter.Error(err, "Failed to initialize corpus discovery")
			os.Exit(1)
		}

		report, err := lint.New(discovery).Run(ctx)
		if err != nil {
			presenter.Error(err, "Lint run failed")
			os.Exit(1)
		}

		if config.Format == "json" {
			output, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				presenter.Error(err, "Failed to encode report")
				os.Exit(1)
			}
			fmt.Println(string(output))
		} else {
			printLintReport(report)
		}

		if report.HasErrors() {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewLintConfig()
	lintCmd.Flags().String("format", defaults.Format, "Output format (text, json)")
	lintCmd.Flags().BoolP("quiet", "q", defaults.Quiet, "Only print findings, no summary")
}

// getLintConfigFromFlags extracts lint configuration from command flags
func getLintConfigFromFlags(cmd *cobra.Command) *LintConfig {
	config := NewLintConfig()

	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
		config.Quiet = quiet
	}

	return config
}

func printLintReport(report *lint.Report) {
	for _, finding := range report.Findings {
		location := finding.Path
		if finding.Line > 0 {
			location = fmt.Sprintf("%s:%d", finding.Path, finding.Line)
		}
		line := fmt.Sprintf("%s: %s (%s)", location, finding.Message, finding.Rule)

		if finding.Severity == lint.SeverityError {
			fmt.Fprintln(os.Stderr, "error: "+line)
		} else {
			fmt.Fprintln(os.Stderr, "warning: "+line)
		}
	}

	errorCount, warningCount := report.Counts()
	presenter.Stats(&presenter.LintStats{
		CheckedFiles: report.CheckedFiles,
		ErrorCount:   errorCount,
		WarningCount: warningCount,
	})

	if errorCount == 0 && warningCount == 0 {
		presenter.Success(fmt.Sprintf("%d documents checked, no problems found", report.CheckedFiles))
	}
}
