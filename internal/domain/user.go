package domain

import "time"

// User is an account able to own bookmarks.
type User struct {
	ID       int64
	Username string
	Email    string

	// PasswordHash is the bcrypt hash. It never leaves the service layer.
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the public view of a user.
type Profile struct {
	Username string
	Email    string
}

func (u *User) Profile() Profile {
	return Profile{Username: u.Username, Email: u.Email}
}
