/**
 * @description
 * Demo authentication. A single hardcoded credential pair is accepted; a
 * successful login resets the session and issues an HS256 token for the API.
 */
package app

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Vijayesvar/pledgdemo/internal/domain"
	"github.com/Vijayesvar/pledgdemo/internal/store"
)

const tokenTTL = 24 * time.Hour

// AuthService handles the demo login and token issuance.
type AuthService struct {
	store        *store.Store
	jwtSecret    []byte
	demoEmail    string
	demoPassword string
	logger       *slog.Logger
}

// NewAuthService creates the auth service for the configured demo
// credentials.
func NewAuthService(st *store.Store, jwtSecret, demoEmail, demoPassword string, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        st,
		jwtSecret:    []byte(jwtSecret),
		demoEmail:    strings.ToLower(demoEmail),
		demoPassword: demoPassword,
		logger:       logger,
	}
}

// Login checks the demo credentials, resets the session for a fresh user and
// returns a signed bearer token.
func (a *AuthService) Login(email, password string) (domain.User, string, error) {
	if strings.ToLower(strings.TrimSpace(email)) != a.demoEmail || password != a.demoPassword {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	user := domain.User{
		ID:    uuid.NewString(),
		Email: a.demoEmail,
		Name:  "Demo User",
	}
	a.store.Login(user)

	stored := a.store.User()
	if stored == nil {
		return domain.User{}, "", fmt.Errorf("session user missing after login")
	}

	claims := jwt.MapClaims{
		"sub":   stored.ID,
		"email": stored.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("failed to sign token: %w", err)
	}

	a.logger.Info("demo user logged in", "user_id", stored.ID)
	return *stored, token, nil
}

// Logout clears the session.
func (a *AuthService) Logout() {
	a.store.Logout()
	a.logger.Info("demo user logged out")
}
