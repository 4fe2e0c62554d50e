package app

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Vijayesvar/pledgdemo/internal/domain"
	"github.com/Vijayesvar/pledgdemo/internal/store"
)

func newTestAuth() (*store.Store, *AuthService) {
	st := store.NewStore(nil, dec("8000000"), testLogger())
	return st, NewAuthService(st, "test-secret", "demo@pledg.in", "demo1234", testLogger())
}

func TestLoginIssuesToken(t *testing.T) {
	st, auth := newTestAuth()

	user, token, err := auth.Login("demo@pledg.in", "demo1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Email != "demo@pledg.in" {
		t.Fatalf("unexpected user email %s", user.Email)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		t.Fatalf("token did not validate: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != user.ID {
		t.Fatalf("expected sub claim %s, got %v", user.ID, claims["sub"])
	}

	if st.User() == nil {
		t.Fatal("session user not installed")
	}
}

func TestLoginAcceptsCaseInsensitiveEmail(t *testing.T) {
	_, auth := newTestAuth()
	if _, _, err := auth.Login("  Demo@Pledg.in ", "demo1234"); err != nil {
		t.Fatalf("expected case-insensitive email match, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, auth := newTestAuth()

	if _, _, err := auth.Login("demo@pledg.in", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := auth.Login("other@pledg.in", "demo1234"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	st, auth := newTestAuth()
	if _, _, err := auth.Login("demo@pledg.in", "demo1234"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	auth.Logout()
	if st.User() != nil {
		t.Fatal("expected session cleared on logout")
	}
}
