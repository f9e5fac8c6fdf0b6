package entity

import "time"

type User struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DisplayName is the full name, falling back to the email.
func (that *User) DisplayName() string {
	if that.FullName != "" {
		return that.FullName
	}
	return that.Email
}

// Player returns the public part of the user.
func (that *User) Player() Player {
	return Player{
		ID:       that.ID,
		FullName: that.FullName,
		Email:    that.Email,
	}
}
