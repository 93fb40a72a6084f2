package services

import (
	"errors"
	"fmt"
	"time"

	"market/internal/apperr"
	"market/internal/models"

	"github.com/dgrijalva/jwt-go"
)

// RefreshTokenType marks refresh tokens. Access tokens carry no type.
const RefreshTokenType = "refresh"

// Authentication failures. They are returned wrapped around the decode error
// that caused them, so callers can match with errors.Is and still log the cause.
var (
	ErrMissingToken       = apperr.Unauthorized("token is missing")
	ErrInvalidToken       = apperr.Unauthorized("could not validate credentials")
	ErrTokenExpired       = apperr.Unauthorized("token has expired")
	ErrWrongTokenType     = apperr.Unauthorized("wrong token type")
	ErrInvalidCredentials = apperr.Unauthorized("incorrect email or password")
	ErrInactiveUser       = apperr.Unauthorized("user is inactive")
)

// Claims is the payload of both access and refresh tokens. The subject is
// the user's email.
type Claims struct {
	Role      string `json:"role"`
	UserID    uint   `json:"id"`
	TokenType string `json:"token_type,omitempty"`
	jwt.StandardClaims
}

// TokenConfig holds signing settings and lifetimes.
type TokenConfig struct {
	Secret        string
	Algorithm     string
	AccessExpire  time.Duration
	RefreshExpire time.Duration
}

// TokenService issues and validates signed access and refresh tokens.
type TokenService struct {
	secret        []byte
	method        jwt.SigningMethod
	accessExpire  time.Duration
	refreshExpire time.Duration
	now           func() time.Time
}

// NewTokenService creates a TokenService. Only HMAC algorithms are accepted.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token secret is empty")
	}
	return &TokenService{
		secret:        []byte(cfg.Secret),
		method:        method,
		accessExpire:  cfg.AccessExpire,
		refreshExpire: cfg.RefreshExpire,
		now:           time.Now,
	}, nil
}

// RefreshExpire is the lifetime of refresh tokens.
func (s *TokenService) RefreshExpire() time.Duration {
	return s.refreshExpire
}

// IssueAccess mints a short-lived access token for user.
func (s *TokenService) IssueAccess(user *models.User) (string, error) {
	return s.issue(user, "", s.accessExpire)
}

// IssueRefresh mints a long-lived refresh token for user.
func (s *TokenService) IssueRefresh(user *models.User) (string, error) {
	return s.issue(user, RefreshTokenType, s.refreshExpire)
}

func (s *TokenService) issue(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Role:      user.Role,
		UserID:    user.ID,
		TokenType: tokenType,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.Email,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseAccess validates an access token and returns its claims.
func (s *TokenService) ParseAccess(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "" {
		return nil, ErrWrongTokenType.Wrap(fmt.Errorf("got %q token where an access token is required", claims.TokenType))
	}
	return claims, nil
}

// ParseRefresh validates a refresh token and returns its claims.
func (s *TokenService) ParseRefresh(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != RefreshTokenType {
		return nil, ErrWrongTokenType.Wrap(errors.New("access token presented where a refresh token is required"))
	}
	return claims, nil
}

func (s *TokenService) parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		// Expiry is only reported for tokens whose signature checked out.
		const untrusted = jwt.ValidationErrorMalformed | jwt.ValidationErrorUnverifiable | jwt.ValidationErrorSignatureInvalid
		if errors.As(err, &validationErr) &&
			validationErr.Errors&jwt.ValidationErrorExpired != 0 &&
			validationErr.Errors&untrusted == 0 {
			return nil, ErrTokenExpired.Wrap(err)
		}
		return nil, ErrInvalidToken.Wrap(err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken.Wrap(errors.New("token has no subject"))
	}
	return claims, nil
}
