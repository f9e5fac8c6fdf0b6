package entity

import "time"

const TokenTypeBearer = "Bearer"

// Token is an issued access token as returned to clients.
type Token struct {
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Claims are the verified contents of an access token.
type Claims struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}
