package backend

import (
	"context"
	"errors"

	"github.com/ballotbox/ballot/internal/core/domain"
)

var seedCandidates = []domain.CandidateInput{
	{Name: "Ada Lovelace", Party: "Analytical Party", Position: "Mayor"},
	{Name: "Grace Hopper", Party: "Compiler Coalition", Position: "Mayor"},
	{Name: "Alan Turing", Party: "Independent", Position: "Mayor"},
}

// Seed creates the admin account and, when withCandidates is set, a small
// roster. Existing records are left alone.
func Seed(ctx context.Context, auth *AuthService, election *ElectionService, adminEmail, adminPassword string, withCandidates bool) error {
	if adminEmail != "" && adminPassword != "" {
		_, err := auth.CreateAdmin(ctx, "Administrator", adminEmail, adminPassword)
		if err != nil && !errors.Is(err, domain.ErrUserExists) {
			return err
		}
	}

	if !withCandidates {
		return nil
	}
	existing, err := election.ListCandidates(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, in := range seedCandidates {
		if _, err := election.CreateCandidate(ctx, in); err != nil {
			return err
		}
	}
	return nil
}
