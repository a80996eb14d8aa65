package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ballotbox/ballot/internal/core/domain"
)

type candidateFlags struct {
	name     string
	party    string
	position string
	imageURL string
}

func (f *candidateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "candidate name")
	cmd.Flags().StringVar(&f.party, "party", "", "party")
	cmd.Flags().StringVar(&f.position, "position", "", "position contested")
	cmd.Flags().StringVar(&f.imageURL, "image-url", "", "portrait URL")
}

// overlay applies the flags that were set on top of base.
func (f *candidateFlags) overlay(cmd *cobra.Command, base domain.CandidateInput) domain.CandidateInput {
	if cmd.Flags().Changed("name") {
		base.Name = f.name
	}
	if cmd.Flags().Changed("party") {
		base.Party = f.party
	}
	if cmd.Flags().Changed("position") {
		base.Position = f.position
	}
	if cmd.Flags().Changed("image-url") {
		base.ImageURL = f.imageURL
	}
	return base
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the candidate roster (admin accounts only)",
	}

	cmd.AddCommand(newAdminAddCmd())
	cmd.AddCommand(newAdminUpdateCmd())
	cmd.AddCommand(newAdminDeleteCmd())

	return cmd
}

func newAdminAddCmd() *cobra.Command {
	f := &candidateFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a candidate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			if err := a.requireAdmin(); err != nil {
				return err
			}
			c, err := a.roster.Add(cmd.Context(), f.overlay(cmd, domain.CandidateInput{}))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added candidate %d: %s\n", c.ID, c.Name)
			return nil
		},
	}
	f.register(cmd)

	return cmd
}

func newAdminUpdateCmd() *cobra.Command {
	f := &candidateFlags{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a candidate; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := a.requireAdmin(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cur, err := a.roster.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			in := f.overlay(cmd, domain.CandidateInput{
				Name:     cur.Name,
				Party:    cur.Party,
				Position: cur.Position,
				ImageURL: cur.ImageURL,
			})
			c, err := a.roster.Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated candidate %d: %s\n", c.ID, c.Name)
			return nil
		},
	}
	f.register(cmd)

	return cmd
}

func newAdminDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := a.requireAdmin(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.roster.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted candidate %d\n", id)
			return nil
		},
	}
}
