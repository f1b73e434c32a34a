package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "docarchive"

// HMACAuthenticator signs HS256 tokens for the configured admin account and verifies them.
type HMACAuthenticator struct {
	secret       []byte
	ttl          time.Duration
	username     string
	passwordHash string
	logger       *slog.Logger
	now          func() time.Time
}

// NewHMACAuthenticator constructs an authenticator. username and passwordHash may be empty,
// in which case Login always fails and only externally issued HS256 tokens are accepted.
func NewHMACAuthenticator(secret string, ttl time.Duration, username, passwordHash string, logger *slog.Logger) (*HMACAuthenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &HMACAuthenticator{
		secret:       []byte(secret),
		ttl:          ttl,
		username:     username,
		passwordHash: passwordHash,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// Login checks the admin credentials and returns a signed token with its expiry.
func (a *HMACAuthenticator) Login(username, password string) (string, time.Time, error) {
	if a.username == "" || a.passwordHash == "" {
		return "", time.Time{}, ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	// Always run bcrypt so an unknown username costs the same as a wrong password.
	passOK := CheckPassword(a.passwordHash, password)
	if !userOK || !passOK {
		a.logger.Warn("login rejected", "username", username)
		return "", time.Time{}, ErrInvalidCredentials
	}
	return a.Issue(username)
}

// Issue signs a token for subject.
func (a *HMACAuthenticator) Issue(subject string) (string, time.Time, error) {
	now := a.now()
	exp := now.Add(a.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: RoleAdmin,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify validates an HS256 token signed with the shared secret.
func (a *HMACAuthenticator) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		a.logger.Debug("token rejected", "error", err)
		return nil, ErrUnauthorized
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func (a *HMACAuthenticator) Close() error { return nil }
