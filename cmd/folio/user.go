package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/comments"
)

func (c *cli) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage commenter profiles",
	}

	var u comments.User
	add := &cobra.Command{
		Use:   "add",
		Short: "Create or update a commenter profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := comments.NewStore(c.cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open comment store: %w", err)
			}
			defer store.Close()
			if err := store.SaveUser(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved user %s\n", u.ID)
			return nil
		},
	}
	add.Flags().StringVar(&u.ID, "id", "", "user id (required)")
	add.Flags().StringVar(&u.Name, "name", "", "display name")
	add.Flags().StringVar(&u.Image, "image", "", "avatar URL")
	_ = add.MarkFlagRequired("id")

	cmd.AddCommand(add)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the folio version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
		},
	}
}
