// Package auth is the console's authentication provider: admin accounts in
// the document store, bcrypt passwords, signed tokens and Redis-backed
// sessions that sign-out revokes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidAdmin       = errors.New("admin needs an email and a password of at least 8 characters")
)

const minPasswordLength = 8

// TokenConfig is the signing key and lifetime of issued tokens.
type TokenConfig struct {
	Key []byte
	TTL time.Duration
}

type Service struct {
	admins   *AdminRepository
	sessions *SessionStore
	tokens   TokenConfig
	log      *zap.Logger
}

func NewService(admins *AdminRepository, sessions *SessionStore, tokens TokenConfig, log *zap.Logger) *Service {
	return &Service{
		admins:   admins,
		sessions: sessions,
		tokens:   tokens,
		log:      log.Named("auth"),
	}
}

// SignIn checks the credential and opens a session. It returns the signed
// token that names the session.
func (s *Service) SignIn(ctx context.Context, cred Credential) (*Principal, string, error) {
	admin, err := s.admins.FindByEmail(ctx, cred.Email)
	if err != nil {
		s.log.Error("admin lookup failed", zap.Error(err))
		return nil, "", fmt.Errorf("sign in: %w", err)
	}
	if admin == nil || !CheckPasswordHash(cred.Password, admin.PasswordHash) {
		s.log.Info("sign in rejected", zap.String("email", normalizeEmail(cred.Email)))
		return nil, "", ErrInvalidCredentials
	}

	token, claims, err := GenerateJWT(s.tokens.Key, admin.Name, admin.Email, s.tokens.TTL)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	data := SessionData{Email: admin.Email, Name: admin.Name, CreatedAt: time.Now().UTC()}
	if err := s.sessions.Save(ctx, claims.ID, data, s.tokens.TTL); err != nil {
		s.log.Error("session not saved", zap.Error(err))
		return nil, "", err
	}

	s.log.Info("signed in", zap.String("email", admin.Email))
	return &Principal{Email: admin.Email, Name: admin.Name}, token, nil
}

// Verify validates the token and its session.
func (s *Service) Verify(ctx context.Context, token string) (*JWTClaims, error) {
	claims, err := ValidateJWT(s.tokens.Key, token)
	if err != nil {
		return nil, ErrNoSession
	}
	if _, err := s.sessions.Lookup(ctx, claims.ID); err != nil {
		return nil, err
	}
	return claims, nil
}

// Resume returns the principal of a still-open session.
func (s *Service) Resume(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return &Principal{Email: claims.Email, Name: claims.Name}, nil
}

// SignOut revokes the session named by the token. An expired or malformed
// token has no session left to revoke.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := ValidateJWT(s.tokens.Key, token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		s.log.Error("sign out failed", zap.String("email", claims.Email), zap.Error(err))
		return err
	}
	s.log.Info("signed out", zap.String("email", claims.Email))
	return nil
}

// CreateAdmin adds an admin, or resets the name and password of an existing
// one. It reports whether a new account was created.
func (s *Service) CreateAdmin(ctx context.Context, email, name, password string) (bool, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") || len(password) < minPasswordLength {
		return false, ErrInvalidAdmin
	}

	existing, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := &Admin{Email: email, Name: name, PasswordHash: hash}
	if err := s.admins.Save(ctx, admin, existing == nil); err != nil {
		return false, fmt.Errorf("save admin: %w", err)
	}
	return existing == nil, nil
}

// Profile returns the stored admin behind a principal.
func (s *Service) Profile(ctx context.Context, email string) (*Admin, error) {
	return s.admins.FindByEmail(ctx, email)
}
