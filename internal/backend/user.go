// Package backend implements the voting service behind the development
// server: accounts, tokens, the candidate roster and the ballot box, all
// held in memory.
package backend

import (
	"strconv"
	"time"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// User is an account record. The password hash never leaves the package in
// a response.
type User struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Subject is the token subject for u.
func (u *User) Subject() string {
	return strconv.FormatInt(u.ID, 10)
}
