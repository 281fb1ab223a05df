package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	GitHub       string
	LinkedIn     string
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the user shape returned by the auth endpoints.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

type Profile struct {
	Username string `json:"username"`
	GitHub   string `json:"github"`
	LinkedIn string `json:"linkedin"`
	Profile  string `json:"profile"`
}

func (u *User) ProfileView() Profile {
	return Profile{Username: u.Username, GitHub: u.GitHub, LinkedIn: u.LinkedIn, Profile: u.ProfileImage}
}

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateRegistration(r Registration) error {
	if strings.TrimSpace(r.Username) == "" {
		return Invalid("username is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return Invalid("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return Invalid("Invalid email: %s", r.Email)
	}
	if len(r.Password) < 6 {
		return Invalid("password must be at least 6 characters")
	}
	if r.Role != "" && !r.Role.Valid() {
		return Invalid("Invalid role: %s", r.Role)
	}
	return nil
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate carries the optional fields of a profile update; empty
// strings keep the stored value.
type ProfileUpdate struct {
	Username string
	GitHub   string
	LinkedIn string
}
