package auth

import (
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/loga115/ticketflow/internal/config"
)

func TestHMACVerifierRoundTrip(t *testing.T) {
	verifier, err := NewVerifier(config.AuthConfig{Mode: config.AuthModeHMAC, JWTSecret: "test-secret"}, nil)
	require.NoError(t, err)
	hmac, ok := verifier.(*HMACVerifier)
	require.True(t, ok)

	token, err := hmac.IssueToken("owner-1", "dana@example.com")
	require.NoError(t, err)

	identity, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", identity.OwnerID)
	assert.Equal(t, "dana@example.com", identity.Email)
}

func TestHMACVerifierWrongSecret(t *testing.T) {
	issuer := &HMACVerifier{secret: []byte("secret-a")}
	token, err := issuer.IssueToken("owner-1", "")
	require.NoError(t, err)

	verifier := &HMACVerifier{secret: []byte("secret-b")}
	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestHMACVerifierRejectsUnsignedAlg(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "owner-1"}}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	verifier := &HMACVerifier{secret: []byte("secret")}
	_, err = verifier.Verify(signed)
	assert.Error(t, err)
}

func TestHMACVerifierMissingSubject(t *testing.T) {
	issuer := &HMACVerifier{secret: []byte("secret")}
	token, err := issuer.IssueToken("", "dana@example.com")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.Error(t, err)
}

func TestStaticVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("service-token"), bcrypt.MinCost)
	require.NoError(t, err)

	verifier, err := NewVerifier(config.AuthConfig{
		Mode:            config.AuthModeStatic,
		StaticTokenHash: string(hash),
		StaticOwnerID:   "owner-static",
		StaticEmail:     "svc@example.com",
	}, nil)
	require.NoError(t, err)

	identity, err := verifier.Verify("service-token")
	require.NoError(t, err)
	assert.Equal(t, "owner-static", identity.OwnerID)

	_, err = verifier.Verify("wrong-token")
	assert.Error(t, err)
}

func TestInsecureVerifier(t *testing.T) {
	issuer := &HMACVerifier{secret: []byte("whatever")}
	token, err := issuer.IssueToken("owner-up", "up@example.com")
	require.NoError(t, err)

	verifier := &InsecureVerifier{}
	identity, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "owner-up", identity.OwnerID)

	_, err = verifier.Verify("not-a-jwt")
	assert.Error(t, err)
}

func TestNewVerifierValidation(t *testing.T) {
	_, err := NewVerifier(config.AuthConfig{Mode: config.AuthModeHMAC}, nil)
	assert.Error(t, err, "hmac mode needs a secret")

	_, err = NewVerifier(config.AuthConfig{Mode: config.AuthModeStatic}, nil)
	assert.Error(t, err, "static mode needs a hash and owner")

	_, err = NewVerifier(config.AuthConfig{Mode: "bogus"}, nil)
	assert.Error(t, err)
}

func TestNewVerifierInsecureWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	verifier, err := NewVerifier(config.AuthConfig{Mode: config.AuthModeInsecure}, zap.New(core))
	require.NoError(t, err)
	require.IsType(t, &InsecureVerifier{}, verifier)

	entries := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "insecure")
}
