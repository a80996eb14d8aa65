package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ballotbox/ballot/internal/core/domain"
)

func newCandidatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "candidates [id]",
		Short: "List the candidate roster, or show one candidate",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				c, err := a.roster.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatCandidate(*c))
				return nil
			}

			list, err := a.roster.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatRoster(list))
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether you have voted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			if err := a.requireSession(); err != nil {
				return err
			}
			st, err := a.ballot.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatStatus(st, a.roster.Snapshot()))
			return nil
		},
	}
}

func newVoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote <candidate-id>",
		Short: "Cast your single vote",
		Long: `Cast your vote for a candidate from the current roster. Each voter
votes once; a second attempt is refused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			vote, err := a.ballot.Cast(cmd.Context(), id)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrAlreadyVoted):
				st := a.ballot.Cached()
				fmt.Fprintln(cmd.OutOrStdout(), formatStatus(st, a.roster.Snapshot()))
				return err
			default:
				return err
			}

			name := strconv.FormatInt(vote.CandidateID, 10)
			for _, c := range a.roster.Snapshot() {
				if c.ID == vote.CandidateID {
					name = c.Name
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Vote recorded for %s.\n", name)
			return nil
		},
	}
}

func newResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Show the current tally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := appFrom(cmd).ballot.Results(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatResults(res))
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid candidate id %q", s)
	}
	return id, nil
}
