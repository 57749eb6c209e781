package session

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const (
	// TokenLength is the number of characters in an issued token.
	TokenLength = 32

	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// DefaultAvatarURL is the stock avatar attached to every generated profile.
	DefaultAvatarURL = "https://img95.699pic.com/photo/40250/6425.jpg_wh300.jpg"
)

var (
	surnames   = []string{"张", "李", "王", "刘", "陈", "杨", "赵", "黄", "周", "吴"}
	givenNames = []string{"伟", "芳", "娜", "秀英", "敏", "静", "丽", "强", "磊", "军"}
)

// Generator supplies the random parts of a session.
type Generator interface {
	Token() (string, error)
	Profile(phone string) (Profile, error)
}

// RandomGenerator draws tokens and names from crypto/rand.
type RandomGenerator struct {
	avatarURL string
}

// NewRandomGenerator builds the default generator. An empty avatarURL falls back to
// DefaultAvatarURL.
func NewRandomGenerator(avatarURL string) *RandomGenerator {
	if avatarURL == "" {
		avatarURL = DefaultAvatarURL
	}
	return &RandomGenerator{avatarURL: avatarURL}
}

// Token returns a TokenLength character alphanumeric string.
func (g *RandomGenerator) Token() (string, error) {
	buf := make([]byte, TokenLength)
	for i := range buf {
		n, err := randIndex(len(tokenAlphabet))
		if err != nil {
			return "", err
		}
		buf[i] = tokenAlphabet[n]
	}
	return string(buf), nil
}

// Profile builds a fresh profile with a UUID and a random display name.
func (g *RandomGenerator) Profile(phone string) (Profile, error) {
	s, err := randIndex(len(surnames))
	if err != nil {
		return Profile{}, err
	}
	n, err := randIndex(len(givenNames))
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		ID:     uuid.NewString(),
		Phone:  phone,
		Name:   surnames[s] + givenNames[n],
		Avatar: g.avatarURL,
	}, nil
}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
