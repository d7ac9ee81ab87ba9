package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds the bcrypt hash, never the plain text.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Principal is the public identity attached to an authenticated request.
type Principal struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Email: u.Email, Name: u.Name, AvatarURL: u.AvatarURL}
}

// Author is the short user card embedded in posts and comments.
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}
