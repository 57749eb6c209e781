package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestLoginIsIdempotentPerPhone(t *testing.T) {
	r := NewRegistry(&seqGenerator{})

	first, profile, created, err := r.Login("13800000000")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !created {
		t.Fatalf("expected first login to create a session")
	}

	second, again, created, err := r.Login("13800000000")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if created || second != first || again != profile {
		t.Fatalf("expected same token and profile, got %s/%+v vs %s/%+v", second, again, first, profile)
	}
	if r.Len() != 1 {
		t.Fatalf("expected one live session, got %d", r.Len())
	}
}

func TestLoginDistinctPhones(t *testing.T) {
	r := NewRegistry(&seqGenerator{})

	tokA, profA, _, err := r.Login("13800000001")
	if err != nil {
		t.Fatalf("login a: %v", err)
	}
	tokB, profB, _, err := r.Login("13800000002")
	if err != nil {
		t.Fatalf("login b: %v", err)
	}
	if tokA == tokB {
		t.Fatalf("expected distinct tokens, both %s", tokA)
	}
	if profA.ID == profB.ID || profA.Phone == profB.Phone {
		t.Fatalf("expected distinct profiles, got %+v and %+v", profA, profB)
	}
	if err := assertConsistent(r); err != nil {
		t.Fatal(err)
	}
}

func TestLoginRejectsBlankPhone(t *testing.T) {
	r := NewRegistry(&seqGenerator{})
	for _, phone := range []string{"", "   "} {
		if _, _, _, err := r.Login(phone); !errors.Is(err, ErrPhoneRequired) {
			t.Fatalf("phone %q: expected ErrPhoneRequired, got %v", phone, err)
		}
	}
	if r.Len() != 0 {
		t.Fatalf("expected no sessions")
	}
}

func TestLookupReturnsLoginProfile(t *testing.T) {
	r := NewRegistry(&seqGenerator{})
	tok, profile, _, err := r.Login("13800000000")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	got, err := r.Lookup(tok)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != profile {
		t.Fatalf("expected %+v, got %+v", profile, got)
	}

	for _, bad := range []string{"", "unknown"} {
		if _, err := r.Lookup(bad); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", bad, err)
		}
	}
}

func TestLogoutRemovesBothMappings(t *testing.T) {
	r := NewRegistry(&seqGenerator{})
	tok, profile, _, err := r.Login("13800000000")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	removed, ok := r.Logout(tok)
	if !ok || removed != profile {
		t.Fatalf("expected logout to return %+v, got %+v (%v)", profile, removed, ok)
	}
	if _, err := r.Lookup(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token to be invalid after logout, got %v", err)
	}

	next, fresh, created, err := r.Login("13800000000")
	if err != nil {
		t.Fatalf("relogin: %v", err)
	}
	if !created || next == tok || fresh.ID == profile.ID {
		t.Fatalf("expected a new session after logout, got %s/%+v", next, fresh)
	}
	if err := assertConsistent(r); err != nil {
		t.Fatal(err)
	}
}

func TestLogoutUnknownTokenIsNoop(t *testing.T) {
	r := NewRegistry(&seqGenerator{})
	if _, _, _, err := r.Login("13800000000"); err != nil {
		t.Fatalf("login: %v", err)
	}
	for _, tok := range []string{"", "nope"} {
		if _, ok := r.Logout(tok); ok {
			t.Fatalf("token %q: expected no-op logout", tok)
		}
	}
	if r.Len() != 1 {
		t.Fatalf("expected existing session to survive, got %d", r.Len())
	}
}

func TestLoginRegeneratesCollidingToken(t *testing.T) {
	gen := &seqGenerator{queued: []string{"dup", "dup", "fresh"}}
	r := NewRegistry(gen)

	first, _, _, err := r.Login("13800000001")
	if err != nil || first != "dup" {
		t.Fatalf("expected first token dup, got %q (%v)", first, err)
	}
	second, _, _, err := r.Login("13800000002")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if second != "fresh" {
		t.Fatalf("expected colliding token to be redrawn, got %q", second)
	}
	if err := assertConsistent(r); err != nil {
		t.Fatal(err)
	}
}

func TestLoginGivesUpOnPersistentCollision(t *testing.T) {
	queued := make([]string, maxTokenAttempts+1)
	for i := range queued {
		queued[i] = "same"
	}
	r := NewRegistry(&seqGenerator{queued: queued})

	if _, _, _, err := r.Login("13800000001"); err != nil {
		t.Fatalf("first login: %v", err)
	}
	if _, _, _, err := r.Login("13800000002"); !errors.Is(err, errTokenExhausted) {
		t.Fatalf("expected errTokenExhausted, got %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("failed login must not leave state behind")
	}
}

func TestLoginPropagatesGeneratorError(t *testing.T) {
	r := NewRegistry(&seqGenerator{err: errGenerator})
	if _, _, _, err := r.Login("13800000000"); !errors.Is(err, errGenerator) {
		t.Fatalf("expected generator error, got %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("expected no sessions after failure")
	}
}

func TestConcurrentLoginSamePhone(t *testing.T) {
	r := NewRegistry(&seqGenerator{})

	const workers = 50
	tokens := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, _, _, err := r.Login("13800000000")
			if err != nil {
				t.Errorf("login %d: %v", i, err)
			}
			tokens[i] = tok
		}(i)
	}
	wg.Wait()

	for i, tok := range tokens {
		if tok != tokens[0] {
			t.Fatalf("worker %d got %s, expected %s", i, tok, tokens[0])
		}
	}
	if r.Len() != 1 {
		t.Fatalf("expected a single session, got %d", r.Len())
	}
}

func TestConcurrentLoginLogoutKeepsMapsConsistent(t *testing.T) {
	r := NewRegistry(&seqGenerator{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			phone := fmt.Sprintf("1380000%04d", i%5)
			for j := 0; j < 25; j++ {
				tok, _, _, err := r.Login(phone)
				if err != nil {
					t.Errorf("login: %v", err)
					return
				}
				if j%2 == 0 {
					r.Logout(tok)
				}
			}
		}(i)
	}
	wg.Wait()

	if err := assertConsistent(r); err != nil {
		t.Fatal(err)
	}
	if r.Len() > 5 {
		t.Fatalf("expected at most one session per phone, got %d", r.Len())
	}
}
