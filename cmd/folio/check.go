package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/content"
)

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the content and report problems",
		Long: `Check loads every collection and fails if two entities of one collection
share a slug. Posts referring to unknown authors or categories are reported
as warnings; those references are skipped when the site renders.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(c.cfg.ContentDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, coll := range content.Collections {
				fmt.Fprintf(out, "%-11s %d\n", coll, snap.Len(coll))
			}
			fmt.Fprintf(out, "%-11s %d\n", "published", len(snap.Published()))

			for _, p := range snap.PostList() {
				for _, ref := range danglingAuthors(snap, p) {
					c.logger.Warn().Str("post", p.Slug).Str("author", ref).Msg("unknown author")
				}
				for _, ref := range danglingCategories(snap, p) {
					c.logger.Warn().Str("post", p.Slug).Str("category", ref).Msg("unknown category")
				}
			}
			return nil
		},
	}
}

func loadSnapshot(dir string) (*content.Snapshot, error) {
	snap, err := content.LoadSnapshot(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}
	return snap, nil
}

func danglingAuthors(snap *content.Snapshot, p content.Post) []string {
	var out []string
	for _, ref := range p.Authors {
		if _, ok := snap.Author(ref); !ok {
			out = append(out, ref)
		}
	}
	return out
}

func danglingCategories(snap *content.Snapshot, p content.Post) []string {
	known := make(map[string]bool)
	for _, cat := range snap.CategoryList() {
		known[content.CategoryKey(cat.Slug)] = true
	}
	var out []string
	for _, ref := range p.Categories {
		if !known[content.CategoryKey(ref)] {
			out = append(out, ref)
		}
	}
	return out
}
