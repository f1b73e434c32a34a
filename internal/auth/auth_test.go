package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"docarchive/internal/logging"
)

func testHash(t *testing.T, password string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret"))
}

func TestHMACAuthenticator_Login(t *testing.T) {
	a, err := NewHMACAuthenticator("secret", 30*time.Minute, "admin", testHash(t, "pw"), logging.Discard())
	require.NoError(t, err)

	token, exp, err := a.Login("admin", "pw")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	claims, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, _, err = a.Login("admin", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = a.Login("root", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHMACAuthenticator_Verify(t *testing.T) {
	a, err := NewHMACAuthenticator("secret", time.Minute, "", "", logging.Discard())
	require.NoError(t, err)

	_, _, err = a.Login("admin", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	t.Run("expired", func(t *testing.T) {
		a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := a.Issue("admin")
		require.NoError(t, err)
		a.now = time.Now

		_, err = a.Verify(token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewHMACAuthenticator("other", time.Minute, "", "", logging.Discard())
		require.NoError(t, err)
		token, _, err := other.Issue("admin")
		require.NoError(t, err)

		_, err = a.Verify(token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("alg none", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "admin"},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = a.Verify(token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := a.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestNewHMACAuthenticator_EmptySecret(t *testing.T) {
	_, err := NewHMACAuthenticator("", time.Minute, "", "", logging.Discard())
	assert.Error(t, err)
}

func ecJWKS(t *testing.T, kid string, key *ecdsa.PrivateKey) keyfunc.Keyfunc {
	t.Helper()
	enc := func(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }
	raw, err := json.Marshal(map[string]any{
		"keys": []map[string]string{{
			"kty": "EC",
			"crv": "P-256",
			"kid": kid,
			"x":   enc(key.PublicKey.X.FillBytes(make([]byte, 32))),
			"y":   enc(key.PublicKey.Y.FillBytes(make([]byte, 32))),
		}},
	})
	require.NoError(t, err)
	k, err := keyfunc.NewJWKSetJSON(raw)
	require.NoError(t, err)
	return k
}

func TestJWKSVerifier(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	v := newJWKSVerifier(ecJWKS(t, "k1", key), logging.Discard())
	defer v.Close()

	sign := func(subject string) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodES256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   subject,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		})
		tok.Header["kid"] = "k1"
		s, err := tok.SignedString(key)
		require.NoError(t, err)
		return s
	}

	claims, err := v.Verify(sign("user-1"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	_, err = v.Verify(sign(""))
	assert.ErrorIs(t, err, ErrUnauthorized)

	hs := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}})
	hs.Header["kid"] = "k1"
	hsToken, err := hs.SignedString([]byte("shared"))
	require.NoError(t, err)
	_, err = v.Verify(hsToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
