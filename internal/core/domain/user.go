package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role gates which server endpoints a Credential may successfully call.
type Role string

const (
	RoleVoter Role = "voter"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleVoter || r == RoleAdmin
}

// Profile is the user record returned by the auth endpoints.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// wireProfile accepts both the role string and the legacy isAdmin flag, and
// ids encoded as JSON numbers or strings.
type wireProfile struct {
	ID        json.RawMessage `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      string          `json:"role"`
	IsAdmin   bool            `json:"isAdmin"`
	CreatedAt *time.Time      `json:"createdAt"`
}

// UnmarshalJSON decodes the server user shape.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var w wireProfile
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id, err := decodeID(w.ID)
	if err != nil {
		return fmt.Errorf("profile id: %w", err)
	}

	role := Role(strings.ToLower(strings.TrimSpace(w.Role)))
	switch {
	case w.IsAdmin || role == RoleAdmin:
		role = RoleAdmin
	default:
		role = RoleVoter
	}

	*p = Profile{
		ID:    id,
		Name:  w.Name,
		Email: w.Email,
		Role:  role,
	}
	if w.CreatedAt != nil {
		p.CreatedAt = *w.CreatedAt
	}
	return nil
}

// decodeID turns a JSON number, string or null into its string form.
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
