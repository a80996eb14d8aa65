package backend

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// Claims is the payload of an issued token.
type Claims struct {
	Role  domain.Role `json:"role"`
	Name  string      `json:"name,omitempty"`
	Email string      `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// AuthService implements registration, login and token lifecycle.
type AuthService struct {
	repo      UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiry
}

func NewAuthService(repo UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
		revoked:   make(map[string]time.Time),
	}
}

// Register creates a voter account and signs it in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *User, error) {
	return s.create(ctx, name, email, password, domain.RoleVoter)
}

// CreateAdmin creates an admin account. Used for seeding only.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*User, error) {
	_, u, err := s.create(ctx, name, email, password, domain.RoleAdmin)
	return u, err
}

func (s *AuthService) create(ctx context.Context, name, email, password string, role domain.Role) (string, *User, error) {
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user, err := s.repo.Create(ctx, &User{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Me returns the account behind claims.
func (s *AuthService) Me(ctx context.Context, claims *Claims) (*User, error) {
	id, err := claims.UserID()
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// Refresh issues a new token for the holder of claims and revokes the old
// one.
func (s *AuthService) Refresh(ctx context.Context, claims *Claims) (string, *User, error) {
	user, err := s.Me(ctx, claims)
	if err != nil {
		return "", nil, err
	}
	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	s.Revoke(claims)
	return token, user, nil
}

// Revoke makes the token behind claims unusable until it expires.
func (s *AuthService) Revoke(claims *Claims) {
	if claims.ID == "" {
		return
	}
	exp := s.now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, until := range s.revoked {
		if now.After(until) {
			delete(s.revoked, id)
		}
	}
	s.revoked[claims.ID] = exp
}

// IsRevoked reports whether the token id was revoked.
func (s *AuthService) IsRevoked(jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok
}

// Parse validates a signed token and returns its claims.
func (s *AuthService) Parse(signed string) (*Claims, error) {
	return ParseToken(signed, s.jwtSecret)
}

// ParseToken validates an HS256 token signed with secret.
func ParseToken(signed, secret string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func (s *AuthService) generateToken(user *User) (string, error) {
	now := s.now()
	claims := Claims{
		Role:  user.Role,
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Subject(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
