package main

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/ballotbox/ballot/internal/core/domain"
)

func formatSession(s domain.Session) string {
	if !s.IsAuthenticated {
		return "Not logged in."
	}
	name := s.DisplayName
	if name == "" {
		name = s.Email
	}
	if s.Email != "" && s.Email != name {
		name += " <" + s.Email + ">"
	}
	return fmt.Sprintf("Logged in as %s (%s, id %s)", name, s.Role, s.SubjectID)
}

func formatCandidate(c domain.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n", c.ID, c.Name)
	fmt.Fprintf(&b, "  Party:    %s\n", c.Party)
	fmt.Fprintf(&b, "  Position: %s", c.Position)
	if c.ImageURL != "" {
		fmt.Fprintf(&b, "\n  Image:    %s", c.ImageURL)
	}
	return b.String()
}

func formatRoster(list []domain.Candidate) string {
	if len(list) == 0 {
		return "No candidates yet.\n"
	}
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPARTY\tPOSITION")
	for _, c := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Party, c.Position)
	}
	_ = w.Flush()
	return buf.String()
}

func formatStatus(st domain.BallotStatus, roster []domain.Candidate) string {
	switch {
	case !st.Checked:
		return "Voting status unknown."
	case !st.HasVoted:
		return "You have not voted yet."
	case st.CandidateID == nil:
		return "You have already voted."
	}
	for _, c := range roster {
		if c.ID == *st.CandidateID {
			return fmt.Sprintf("You have already voted for %s.", c.Name)
		}
	}
	return fmt.Sprintf("You have already voted for candidate %d.", *st.CandidateID)
}

func formatResults(res domain.Results) string {
	if len(res) == 0 {
		return "No candidates yet.\n"
	}
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVOTES\tSHARE")
	for _, c := range res.Ranked() {
		var n int64
		if c.VoteCount != nil {
			n = *c.VoteCount
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.1f%%\n", c.ID, c.Name, n, res.Share(c.ID))
	}
	_ = w.Flush()
	fmt.Fprintf(&buf, "Total votes: %d\n", res.Total())
	return buf.String()
}
