package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SkillDoAI/skilldo/pkg/links"
	"github.com/SkillDoAI/skilldo/pkg/presenter"
)

// LinksConfig holds configuration for the links command
type LinksConfig struct {
	Timeout        time.Duration
	Concurrency    int
	Attempts       uint
	RetryDelay     time.Duration
	AllowedDomains []string
}

// NewLinksConfig creates a new LinksConfig with default values
func NewLinksConfig() *LinksConfig {
	return &LinksConfig{
		Timeout:     10 * time.Second,
		Concurrency: 8,
		Attempts:    3,
		RetryDelay:  time.Second,
	}
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Check reference URLs in skill documents",
	Long: `Extract http(s) URLs from the References section of every skill document
and verify that they respond. Checks run concurrently with retries and
an optional domain allowlist.

Exits with a non-zero status if any URL fails.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getLinksConfigFromFlags(cmd)

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

		opts := []links.CheckerOption{
			links.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
			links.WithConcurrency(config.Concurrency),
			links.WithRetry(config.Attempts, config.RetryDelay),
		}
		if len(config.AllowedDomains) > 0 {
			opts = append(opts, links.WithDomainFilter(links.NewDomainFilter(config.AllowedDomains)))
		}

		results := links.NewChecker(opts...).Check(ctx, skills)

		broken := 0
		for _, result := range results {
			switch {
			case result.Skipped:
				presenter.Info(fmt.Sprintf("SKIP %s (%s)", result.URL, result.Skill))
			case result.OK:
				presenter.Success(fmt.Sprintf("%d %s (%s)", result.StatusCode, result.URL, result.Skill))
			default:
				broken++
				detail := result.Error
				if detail == "" {
					detail = fmt.Sprintf("status %d", result.StatusCode)
				}
				presenter.Warning(fmt.Sprintf("FAIL %s (%s): %s", result.URL, result.Skill, detail))
			}
		}

		if broken > 0 {
			presenter.Error(fmt.Errorf("%d broken reference URLs", broken), "Link check failed")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("%d reference URLs checked", len(results)))
	},
}

func init() {
	defaults := NewLinksConfig()
	linksCmd.Flags().Duration("timeout", defaults.Timeout, "HTTP timeout per request")
	linksCmd.Flags().Int("concurrency", defaults.Concurrency, "Maximum concurrent checks")
	linksCmd.Flags().Uint("attempts", defaults.Attempts, "Retry attempts per URL")
	linksCmd.Flags().Duration("retry-delay", defaults.RetryDelay, "Delay between retries")
	linksCmd.Flags().StringSlice("allowed-domain", defaults.AllowedDomains, "Restrict checks to these domains (repeatable)")
}

// getLinksConfigFromFlags extracts links configuration from command flags
func getLinksConfigFromFlags(cmd *cobra.Command) *LinksConfig {
	config := NewLinksConfig()

	if timeout, err := cmd.Flags().GetDuration("timeout"); err == nil {
		config.Timeout = timeout
	}
	if concurrency, err := cmd.Flags().GetInt("concurrency"); err == nil {
		config.Concurrency = concurrency
	}
	if attempts, err := cmd.Flags().GetUint("attempts"); err == nil {
		config.Attempts = attempts
	}
	if retryDelay, err := cmd.Flags().GetDuration("retry-delay"); err == nil {
		config.RetryDelay = retryDelay
	}
	if allowedDomains, err := cmd.Flags().GetStringSlice("allowed-domain"); err == nil {
		config.AllowedDomains = allowedDomains
	}

	return config
}
