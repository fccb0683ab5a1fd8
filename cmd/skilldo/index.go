package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SkillDoAI/skilldo/pkg/index"
	"github.com/SkillDoAI/skilldo/pkg/presenter"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the skill search index",
	Long: `Discover all skill documents and rebuild the SQLite search index from
scratch. Broken documents are skipped; run 'skilldo lint' to see them.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

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

		if err := store.Rebuild(ctx, skills); err != nil {
			presenter.Error(err, "Failed to rebuild index")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Indexed %d skill documents into %s", len(skills), dbPath))
	},
}

func init() {
	indexCmd.Flags().String("db", "", "Path to the index database (defaults to ~/.skilldo/index.db)")
}
