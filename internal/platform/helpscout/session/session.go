package session

import "time"

// Session is the persisted snapshot of an authenticated Help Scout client.
type Session struct {
	ClientID    string    `json:"client_id"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Expiry      time.Time `json:"expiry,omitempty"`
	IssuedAt    time.Time `json:"issued_at,omitempty"`
}

// Expired reports whether the token is past its expiry at now.
// A session without an expiry never expires.
func (s *Session) Expired(now time.Time) bool {
	if s.Expiry.IsZero() {
		return false
	}
	return !now.Before(s.Expiry)
}
