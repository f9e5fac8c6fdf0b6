package entity

// Player is a user as seen by other users.
type Player struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
