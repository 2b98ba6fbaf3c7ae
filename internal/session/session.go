package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eatorbit-client/internal/domain"
)

// Session holds the signed-in identity and its bearer credential. It is an
// explicit object with a defined lifecycle: created at startup (loading any
// persisted credential), written on login, torn down on logout. It implements
// api.CredentialSource, so an expired or absent token short-circuits
// authenticated calls before any network I/O.
type Session struct {
	path string

	mu    sync.Mutex
	token string
	user  domain.User
}

type persisted struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// New loads any credential persisted at path. A missing or unreadable file
// just means signed-out.
func New(path string) *Session {
	s := &Session{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		return s
	}
	s.token = p.Token
	s.user = p.User
	return s
}

// SetCredential stores the credential returned by a successful login and
// persists it for later runs.
func (s *Session) SetCredential(token string, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	return s.save()
}

// Clear signs out: drops the in-memory identity and removes the persisted
// credential.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = domain.User{}
	if s.path == "" {
		return nil
	}
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Token returns the bearer credential. ok is false when nobody is signed in
// or the token's exp claim has passed; the client treats both the same way
// and never issues the request.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", false
	}
	if expired(s.token) {
		return "", false
	}
	return s.token, true
}

// User returns the signed-in profile, if any.
func (s *Session) User() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || expired(s.token) {
		return domain.User{}, false
	}
	return s.user, true
}

// Role reports the signed-in role, or empty when signed out.
func (s *Session) Role() domain.Role {
	u, ok := s.User()
	if !ok {
		return ""
	}
	return u.Role
}

func (s *Session) save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	raw, err := json.Marshal(persisted{Token: s.token, User: s.user})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// expired inspects the exp claim without verifying the signature; the client
// holds no signing secret and only needs to know whether the server would
// reject the token anyway.
func expired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return true
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().After(exp.Time)
}
