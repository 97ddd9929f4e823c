package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/content"
)

func (c *cli) paramsCmd() *cobra.Command {
	var asJSON bool
	names := make([]string, len(content.Collections))
	for i, coll := range content.Collections {
		names[i] = string(coll)
	}
	cmd := &cobra.Command{
		Use:       "params <collection>",
		Short:     "Print the route parameters of a collection",
		Long:      "Params prints the slug segments of every entity in a collection, one slug per line.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			coll := content.Collection(args[0])
			if !slices.Contains(content.Collections, coll) {
				return fmt.Errorf("unknown collection %q (want one of %s)", args[0], strings.Join(names, ", "))
			}
			snap, err := loadSnapshot(c.cfg.ContentDir)
			if err != nil {
				return err
			}
			params := snap.StaticParams(coll)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(params)
			}
			for _, p := range params {
				fmt.Fprintln(out, strings.Join(p, "/"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array of segment lists")
	return cmd
}
