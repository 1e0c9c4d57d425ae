package model

import "time"

// Session associates an opaque cookie token with a logged-in user.
// Expired sessions are reaped by a TTL index on expires_at.
type Session struct {
	Token     string    `bson:"_id" json:"token"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Identity is the request-scoped actor passed into the booking engine.
// A zero Identity means the request is anonymous; the booking may still
// proceed (subject to policy) but confirmation email is skipped.
type Identity struct {
	UserID string
	Name   string
	Email  string
}

// Anonymous reports whether no authenticated user is attached.
func (i Identity) Anonymous() bool {
	return i.Email == "" && i.UserID == ""
}
