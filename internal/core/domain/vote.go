package domain

import "time"

// Vote is a server-owned record of a cast ballot. At most one exists per
// voter.
type Vote struct {
	ID          int64     `json:"id"`
	VoterID     string    `json:"voterId"`
	CandidateID int64     `json:"candidateId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BallotStatus is the client's advisory view of whether the acting voter has
// already voted. Checked is false until the duplicate check has run.
type BallotStatus struct {
	VoterID     string `json:"voterId"`
	Checked     bool   `json:"checked"`
	HasVoted    bool   `json:"hasVoted"`
	CandidateID *int64 `json:"candidateId,omitempty"`
	Receipt     *Vote  `json:"receipt,omitempty"`
}

// CanCast reports whether the cast action should be offered.
func (b BallotStatus) CanCast() bool {
	return b.Checked && !b.HasVoted
}
