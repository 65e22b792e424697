package models

import "time"

// Session is a refresh session bound to one account. Token is opaque to
// clients and rotated on every refresh.
type Session struct {
	ID        string
	AccountID string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
