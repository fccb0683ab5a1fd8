package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SkillDoAI/skilldo/pkg/config"
	"github.com/SkillDoAI/skilldo/pkg/db"
	"github.com/SkillDoAI/skilldo/pkg/index"
	"github.com/SkillDoAI/skilldo/pkg/presenter"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the skill index",
	Long: `Search indexed skill documents by name, description, and section text.
Run 'skilldo index' first to build or refresh the index.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		dbPath, err := dbPathFromFlags(cmd)
		if err != nil {
			presenter.Error(err, "Failed to determine index database path")
			os.Exit(1)
		}

		store, err := index.NewStore(ctx, dbPath)
		if err != nil {
			presenter.Error(err, "Failed to open index")
			os.Exit(1)
		}
		defer store.Close()

		records, err := store.Search(ctx, args[0])
		if err != nil {
			presenter.Error(err, "Search failed")
			os.Exit(1)
		}

		if len(records) == 0 {
			presenter.Info("No matching skill documents")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tVERSION\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t-------\t-----------")
		for _, record := range records {
			description := record.Description
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", record.Name, record.Version, description)
		}
		tw.Flush()
	},
}

func init() {
	searchCmd.Flags().String("db", "", "Path to the index database (defaults to ~/.skilldo/index.db)")
}

// dbPathFromFlags resolves the index database path from the --db flag,
// falling back to the configured path, then the default location
func dbPathFromFlags(cmd *cobra.Command) (string, error) {
	if path, err := cmd.Flags().GetString("db"); err == nil && path != "" {
		return path, nil
	}
	if cfg, err := config.GetConfigFromViper(); err == nil && cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	return db.DefaultDBPath()
}
