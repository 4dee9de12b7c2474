package domain

import "time"

const (
	RoleHR    = "hr"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one the identity store accepts.
func ValidRole(role string) bool {
	return role == RoleHR || role == RoleAdmin
}

// User models an authenticated HR or admin actor.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSummary is the display projection joined onto leave records.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
