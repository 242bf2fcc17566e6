// Package auth authenticates site administrators with an email and a bcrypt
// hashed password, and issues signed access tokens (HS256 JWTs) whose ids are
// tracked in a session registry so that signing out revokes them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/donmariogerlin/gerlin/backend"
)

var _ backend.Auth = (*Service)(nil)

// MinPasswordLen is the shortest password SetPassword accepts.
const MinPasswordLen = 8

// DefaultTTL is the lifetime of an access token.
const DefaultTTL = 12 * time.Hour

var ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLen)

// Accounts stores the password hashes of the administrators.
type Accounts interface {
	PasswordHash(ctx context.Context, email string) (string, error)
	SetPasswordHash(ctx context.Context, email, hash string) error
}

// Registry records the ids of live sessions.
type Registry interface {
	Add(ctx context.Context, id string, ttl time.Duration) error
	Active(ctx context.Context, id string) (bool, error)
	Remove(ctx context.Context, id string) error
}

type Service struct {
	accounts Accounts
	registry Registry
	secret   []byte
	ttl      time.Duration
	cost     int
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// New returns a Service signing tokens with secret. A zero ttl means
// DefaultTTL.
func New(accounts Accounts, registry Registry, secret []byte, ttl time.Duration) (*Service, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: token secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		accounts: accounts,
		registry: registry,
		secret:   secret,
		ttl:      ttl,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}, nil
}

func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := s.accounts.PasswordHash(ctx, email)
	if errors.Is(err, backend.ErrNotFound) {
		// Burn the same time as a real comparison so unknown emails do not
		// answer faster.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, backend.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, backend.ErrInvalidCredentials
	}

	now := s.now()
	sess := &backend.Session{
		ID:        uuid.NewString(),
		Email:     email,
		ExpiresAt: now.Add(s.ttl).Truncate(time.Second),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	})
	sess.Token, err = token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if err := s.registry.Add(ctx, sess.ID, s.ttl); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}
	return sess, nil
}

func (s *Service) GetSession(ctx context.Context, token string) (*backend.Session, error) {
	if token == "" {
		return nil, backend.ErrNoSession
	}
	claims, err := s.parse(token, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrNoSession, err)
	}
	ok, err := s.registry.Active(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !ok {
		return nil, backend.ErrNoSession
	}
	return &backend.Session{
		ID:        claims.ID,
		Token:     token,
		Email:     claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignOut revokes the session behind token. Tokens that do not parse are
// ignored.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	if err := s.registry.Remove(ctx, claims.ID); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// SetPassword creates the admin account or replaces its password.
func (s *Service) SetPassword(ctx context.Context, email, password string) error {
	if len(password) < MinPasswordLen {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.accounts.SetPasswordHash(ctx, strings.ToLower(strings.TrimSpace(email)), string(hash))
}

func (s *Service) parse(token string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, errors.New("token has no id")
	}
	return claims, nil
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-password"), s.cost)
	})
	return s.dummyHash
}
