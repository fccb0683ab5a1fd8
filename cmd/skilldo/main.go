package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SkillDoAI/skilldo/pkg/config"
	"github.com/SkillDoAI/skilldo/pkg/corpus"
	"github.com/SkillDoAI/skilldo/pkg/logger"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLDO")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skilldo")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skilldo",
	Short: "Tooling for corpora of library skill documents",
	Long: `skilldo manages a corpus of SKILL.md documents: structured Markdown
guides describing how to use third-party libraries. It lints document
structure, indexes the corpus for search, serves it over HTTP, and
exports it for LLM retrieval.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if level := viper.GetString("log_level"); level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				fmt.Fprintf(os.Stderr, "invalid log level %q: %s\n", level, err)
				os.Exit(1)
			}
		}
		logger.SetLogFormat(viper.GetString("log_format"))

		shutdown, err := initTracing(cmd.Context())
		if err != nil {
			logger.G(cmd.Context()).WithError(err).Warn("failed to initialize tracing")
			return
		}
		tracingShutdown = shutdown
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

// tracingShutdown flushes spans before exit, set in PersistentPreRun
var tracingShutdown func(context.Context) error

// newDiscovery builds corpus discovery from the loaded configuration
func newDiscovery() (*corpus.Discovery, error) {
	cfg, err := config.GetConfigFromViper()
	if err != nil {
		return nil, err
	}

	var opts []corpus.Option

	if len(cfg.CorpusDirs) > 0 {
		opts = append(opts, corpus.WithCorpusDirs(cfg.CorpusDirs...))
	} else {
		opts = append(opts, corpus.WithDefaultDirs())
	}

	if len(cfg.Include) > 0 {
		opts = append(opts, corpus.WithIncludePatterns(cfg.Include...))
	}

	return corpus.NewDiscovery(opts...)
}

func main() {
	// Add global flags
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (json, fmt)")
	rootCmd.PersistentFlags().StringSlice("corpus-dir", nil, "Corpus directories to scan (overrides config)")
	rootCmd.PersistentFlags().StringSlice("include", nil, "Glob patterns of skill names to include (e.g. 'aio*')")
	rootCmd.PersistentFlags().String("profile", "", "Configuration profile to apply")

	// Bind flags to viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("corpus_dirs", rootCmd.PersistentFlags().Lookup("corpus-dir"))
	viper.BindPFlag("include", rootCmd.PersistentFlags().Lookup("include"))
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))

	// Add subcommands
	rootCmd.AddCommand(withTracing(lintCmd))
	rootCmd.AddCommand(withTracing(listCmd))
	rootCmd.AddCommand(withTracing(showCmd))
	rootCmd.AddCommand(withTracing(searchCmd))
	rootCmd.AddCommand(withTracing(indexCmd))
	rootCmd.AddCommand(withTracing(serveCmd))
	rootCmd.AddCommand(withTracing(watchCmd))
	rootCmd.AddCommand(withTracing(exportCmd))
	rootCmd.AddCommand(withTracing(fmtCmd))
	rootCmd.AddCommand(withTracing(linksCmd))
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)

	ctx := context.Background()
	err := rootCmd.ExecuteContext(ctx)

	if tracingShutdown != nil {
		if shutdownErr := tracingShutdown(ctx); shutdownErr != nil {
			logger.G(ctx).WithError(shutdownErr).Warn("failed to shut down tracing")
		}
	}

	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
