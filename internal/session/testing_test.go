package session

import (
	"errors"
	"fmt"
	"sync"
)

// seqGenerator hands out predictable tokens and profiles. Queued tokens are used
// first; afterwards tokens are numbered.
type seqGenerator struct {
	mu       sync.Mutex
	queued   []string
	tokens   int
	profiles int
	err      error
}

func (g *seqGenerator) Token() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	if len(g.queued) > 0 {
		tok := g.queued[0]
		g.queued = g.queued[1:]
		return tok, nil
	}
	g.tokens++
	return fmt.Sprintf("tok%029d", g.tokens), nil
}

func (g *seqGenerator) Profile(phone string) (Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.profiles++
	return Profile{
		ID:     fmt.Sprintf("user-%d", g.profiles),
		Phone:  phone,
		Name:   "测试",
		Avatar: DefaultAvatarURL,
	}, nil
}

var errGenerator = errors.New("entropy unavailable")

// assertConsistent checks both maps describe the same set of sessions.
func assertConsistent(r *Registry) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.profiles) != len(r.tokens) {
		return fmt.Errorf("map sizes differ: %d profiles, %d tokens", len(r.profiles), len(r.tokens))
	}
	for tok, p := range r.profiles {
		if r.tokens[p.Phone] != tok {
			return fmt.Errorf("phone %s points at %q, expected %q", p.Phone, r.tokens[p.Phone], tok)
		}
	}
	return nil
}
