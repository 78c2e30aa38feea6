package model

import "time"

// User represents a registered account.
// This is a pure domain model with no database-specific dependencies or tags.
// The password is stored as a one-way digest and never in plaintext.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserView is the wire projection of a user. The password digest is never
// exposed through it.
type UserView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// View returns the public projection of the user.
func (u *User) View() *UserView {
	return &UserView{ID: u.ID, Email: u.Email}
}
