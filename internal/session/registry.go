package session

import (
	"errors"
	"strings"
	"sync"
)

// maxTokenAttempts bounds regeneration when a freshly drawn token is already live.
const maxTokenAttempts = 8

var errTokenExhausted = errors.New("could not allocate a unique token")

// Registry holds live sessions: token to profile and phone to token. Both maps are
// only touched under mu, so a token is present iff its owner's phone points at it.
type Registry struct {
	mu       sync.RWMutex
	gen      Generator
	profiles map[string]Profile
	tokens   map[string]string
}

// NewRegistry constructs an empty registry drawing randomness from gen.
func NewRegistry(gen Generator) *Registry {
	return &Registry{
		gen:      gen,
		profiles: make(map[string]Profile),
		tokens:   make(map[string]string),
	}
}

// Login returns the live token for phone, issuing a new token and profile when the
// phone has none. created reports whether a new session was issued.
func (r *Registry) Login(phone string) (token string, profile Profile, created bool, err error) {
	if strings.TrimSpace(phone) == "" {
		return "", Profile{}, false, ErrPhoneRequired
	}

	r.mu.RLock()
	if tok, ok := r.tokens[phone]; ok {
		p := r.profiles[tok]
		r.mu.RUnlock()
		return tok, p, false, nil
	}
	r.mu.RUnlock()

	profile, err = r.gen.Profile(phone)
	if err != nil {
		return "", Profile{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// another request may have logged the same phone in between
	if tok, ok := r.tokens[phone]; ok {
		return tok, r.profiles[tok], false, nil
	}

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		tok, err := r.gen.Token()
		if err != nil {
			return "", Profile{}, false, err
		}
		if _, taken := r.profiles[tok]; taken || tok == "" {
			continue
		}
		r.profiles[tok] = profile
		r.tokens[phone] = tok
		return tok, profile, true, nil
	}
	return "", Profile{}, false, errTokenExhausted
}

// Lookup returns the profile bound to token.
func (r *Registry) Lookup(token string) (Profile, error) {
	if token == "" {
		return Profile{}, ErrInvalidToken
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[token]
	if !ok {
		return Profile{}, ErrInvalidToken
	}
	return profile, nil
}

// Logout drops token and its phone mapping. Unknown tokens are ignored and reported
// through the boolean.
func (r *Registry) Logout(token string) (Profile, bool) {
	if token == "" {
		return Profile{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[token]
	if !ok {
		return Profile{}, false
	}
	delete(r.profiles, token)
	if r.tokens[profile.Phone] == token {
		delete(r.tokens, profile.Phone)
	}
	return profile, true
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}
