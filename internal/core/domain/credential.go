package domain

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Credential is the authenticated identity and bearer token for the current
// session. A Credential is either complete or absent; see Complete.
type Credential struct {
	SubjectID   string    `json:"subjectId"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	Token       string    `json:"token"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// NewCredential builds a Credential from an auth response.
func NewCredential(p Profile, token string, issuedAt time.Time) (Credential, error) {
	c := Credential{
		SubjectID:   p.ID,
		DisplayName: p.Name,
		Email:       p.Email,
		Role:        p.Role,
		Token:       token,
		IssuedAt:    issuedAt.UTC(),
	}
	if !c.Complete() {
		return Credential{}, ErrIncompleteCredential
	}
	return c, nil
}

// Complete reports whether every mandatory field is populated. Name and
// email are optional because the server may omit them.
func (c Credential) Complete() bool {
	return c.SubjectID != "" && c.Token != "" && c.Role.Valid() && !c.IssuedAt.IsZero()
}

// IsAdmin reports whether the credential carries the admin role.
func (c Credential) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// BearerToken returns the raw token for the Authorization header.
func (c Credential) BearerToken() string {
	return c.Token
}

// WithToken returns a copy with the token replaced and IssuedAt reset.
func (c Credential) WithToken(token string, issuedAt time.Time) Credential {
	c.Token = token
	c.IssuedAt = issuedAt.UTC()
	return c
}

// String never includes the token.
func (c Credential) String() string {
	return fmt.Sprintf("Credential{subject=%s role=%s email=%s issued=%s}",
		c.SubjectID, c.Role, c.Email, c.IssuedAt.Format(time.RFC3339))
}

// GoString keeps %#v from printing the token.
func (c Credential) GoString() string {
	return c.String()
}

// MarshalZerologObject logs the credential without the token.
func (c Credential) MarshalZerologObject(e *zerolog.Event) {
	e.Str("subject", c.SubjectID).
		Str("role", string(c.Role)).
		Time("issued_at", c.IssuedAt)
}
