package session

import "errors"

var (
	// ErrPhoneRequired is returned when a login carries no phone number.
	ErrPhoneRequired = errors.New("phone is required")

	// ErrInvalidToken is returned for empty or unknown session tokens.
	ErrInvalidToken = errors.New("not logged in or invalid token")
)

// Profile is the mock user record generated on first login for a phone number.
type Profile struct {
	ID     string `json:"id"`
	Phone  string `json:"phone"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
