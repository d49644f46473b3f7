// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PasswordChecker compares a plaintext candidate against a stored hash.
// It is satisfied by the infrastructure password hasher; declaring it here
// lets the entity expose password matching without depending on a concrete
// hashing algorithm.
type PasswordChecker interface {
	Check(password, hash string) bool
}

// User is the credential and profile record for a single account.
// The password hash is never serialized outbound.
type User struct {
	ID                   uuid.UUID  `json:"id"`
	Email                string     `json:"email"`
	Name                 string     `json:"name"`
	PasswordHash         string     `json:"-"`
	Role                 Role       `json:"role"`
	Avatar               string     `json:"avatar,omitempty"`
	AvatarRef            string     `json:"-"` // storage key of the avatar object, used for cleanup
	Phone                string     `json:"phone,omitempty"`
	Profession           string     `json:"profession,omitempty"`
	IsProfessional       bool       `json:"isProfessional"`
	IsActive             bool       `json:"isActive"`
	LastLogin            *time.Time `json:"lastLogin,omitempty"`
	PasswordResetToken   string     `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// NormalizeEmail lowercases and trims an email address so lookups and the
// unique constraint behave case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MatchPassword reports whether the plaintext candidate matches the stored hash.
func (u *User) MatchPassword(checker PasswordChecker, candidate string) bool {
	if u.PasswordHash == "" {
		return false
	}

	return checker.Check(candidate, u.PasswordHash)
}

// IsAdmin reports whether this user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TouchLastLogin stamps the last successful authentication time.
func (u *User) TouchLastLogin(now time.Time) {
	u.LastLogin = &now
}
