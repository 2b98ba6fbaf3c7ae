package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eatorbit-client/internal/domain"
)

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"user_id": int64(3)}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestCredentialPersistsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	tok := signToken(t, time.Now().Add(time.Hour))
	u := domain.User{UserID: 3, Name: "Test Customer", Role: domain.RoleCustomer}

	s := New(path)
	if _, ok := s.Token(); ok {
		t.Fatal("fresh session should be signed out")
	}
	if err := s.SetCredential(tok, u); err != nil {
		t.Fatalf("SetCredential: %v", err)
	}

	s2 := New(path)
	got, ok := s2.Token()
	if !ok || got != tok {
		t.Fatalf("Token() = %q, %v", got, ok)
	}
	if u2, ok := s2.User(); !ok || u2.Name != "Test Customer" {
		t.Fatalf("User() = %+v, %v", u2, ok)
	}
	if s2.Role() != domain.RoleCustomer {
		t.Fatalf("Role() = %q", s2.Role())
	}
}

func TestExpiredTokenReadsAsSignedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	s := New(path)
	if err := s.SetCredential(signToken(t, time.Now().Add(-time.Minute)), domain.User{UserID: 3}); err != nil {
		t.Fatalf("SetCredential: %v", err)
	}

	if _, ok := s.Token(); ok {
		t.Fatal("expired token must not be offered")
	}
	if _, ok := s.User(); ok {
		t.Fatal("expired session has no user")
	}
	if s.Role() != "" {
		t.Fatalf("Role() = %q, want empty", s.Role())
	}
}

func TestTokenWithoutExpClaimIsUsable(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "token.json"))
	if err := s.SetCredential(signToken(t, time.Time{}), domain.User{UserID: 3}); err != nil {
		t.Fatalf("SetCredential: %v", err)
	}
	if _, ok := s.Token(); !ok {
		t.Fatal("token without exp should be offered")
	}
}

func TestMalformedTokenReadsAsSignedOut(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "token.json"))
	if err := s.SetCredential("not-a-jwt", domain.User{UserID: 3}); err != nil {
		t.Fatalf("SetCredential: %v", err)
	}
	if _, ok := s.Token(); ok {
		t.Fatal("malformed token must not be offered")
	}
}

func TestClearRemovesPersistedCredential(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	s := New(path)
	if err := s.SetCredential(signToken(t, time.Now().Add(time.Hour)), domain.User{UserID: 3}); err != nil {
		t.Fatalf("SetCredential: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := s.Token(); ok {
		t.Fatal("cleared session should be signed out")
	}
	if _, ok := New(path).Token(); ok {
		t.Fatal("credential file should be gone")
	}
	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}
