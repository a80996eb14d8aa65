package domain

import (
	"sort"
	"time"
)

// Candidate is a server-owned roster entry. VoteCount is only present in
// results responses.
type Candidate struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Party     string     `json:"party"`
	Position  string     `json:"position"`
	ImageURL  string     `json:"imageUrl"`
	VoteCount *int64     `json:"voteCount,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// CandidateInput carries the admin-editable fields of a candidate.
type CandidateInput struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Party    string `json:"party"    validate:"required,max=120"`
	Position string `json:"position" validate:"required,max=120"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
}

// Results is a vote tally as returned by the results endpoint.
type Results []Candidate

// Total sums the vote counts of all candidates.
func (r Results) Total() int64 {
	var total int64
	for _, c := range r {
		if c.VoteCount != nil {
			total += *c.VoteCount
		}
	}
	return total
}

// Share returns the percentage of the total held by candidate id, or 0.
func (r Results) Share(id int64) float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	for _, c := range r {
		if c.ID == id && c.VoteCount != nil {
			return float64(*c.VoteCount) * 100 / float64(total)
		}
	}
	return 0
}

// Ranked returns a copy ordered by vote count, highest first. Ties keep
// roster order.
func (r Results) Ranked() Results {
	out := make(Results, len(r))
	copy(out, r)
	sort.SliceStable(out, func(i, j int) bool {
		return count(out[i]) > count(out[j])
	})
	return out
}

func count(c Candidate) int64 {
	if c.VoteCount == nil {
		return 0
	}
	return *c.VoteCount
}
