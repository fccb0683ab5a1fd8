package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SkillDoAI/skilldo/pkg/corpus"
	"github.com/SkillDoAI/skilldo/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list [pattern...]",
	Short: "List skill documents in the corpus",
	Long: `List skill documents with their names, versions, ecosystems, and descriptions.

Optional glob patterns restrict the listing by skill name, e.g. "skilldo list 'py*' torch".`,
	Run: func(_ *cobra.Command, args []string) {
		discovery, err := newDiscovery()
		if err != nil {
			presenter.Error(err, "Failed to initialize corpus discovery")
			os.Exit(1)
		}

		allSkills, err := discovery.DiscoverSkills()
		if err != nil {
			presenter.Error(err, "Failed to discover skills")
			os.Exit(1)
		}

		allSkills, err = corpus.FilterByPatterns(allSkills, args)
		if err != nil {
			presenter.Error(err, "Invalid skill name pattern")
			os.Exit(1)
		}

		if len(allSkills) == 0 {
			presenter.Info("No skill documents found")
			return
		}

		names := make([]string, 0, len(allSkills))
		for name := range allSkills {
			names = append(names, name)
		}
		sort.Strings(names)

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tVERSION\tECOSYSTEM\tLICENSE\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t-------\t---------\t-------\t-----------")

		for _, name := range names {
			doc := allSkills[name]
			description := doc.Description
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", doc.Name, doc.Version, doc.Ecosystem, doc.License, description)
		}
		tw.Flush()
	},
}
