package auth

import (
	"errors"
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/loga115/ticketflow/internal/config"
)

// Identity is the authenticated caller. OwnerID scopes every query.
type Identity struct {
	OwnerID string
	Email   string
}

// Claims describes the bearer token payload.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier turns a bearer token into a caller identity. Verification is
// a strategy so deployments choose between verify-then-trust and trusting
// the upstream issuer explicitly.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// NewVerifier selects the verifier for the configured auth mode. Choosing
// the insecure mode logs a warning so an accidental production deployment
// is visible at startup.
func NewVerifier(cfg config.AuthConfig, logger *zap.Logger) (TokenVerifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Mode {
	case config.AuthModeHMAC:
		if cfg.JWTSecret == "" {
			return nil, errors.New("AUTH_JWT_SECRET required for hmac mode")
		}
		return &HMACVerifier{secret: []byte(cfg.JWTSecret)}, nil
	case config.AuthModeStatic:
		if cfg.StaticTokenHash == "" || cfg.StaticOwnerID == "" {
			return nil, errors.New("AUTH_STATIC_TOKEN_HASH and AUTH_STATIC_OWNER_ID required for static mode")
		}
		return &StaticVerifier{
			hash:     []byte(cfg.StaticTokenHash),
			identity: Identity{OwnerID: cfg.StaticOwnerID, Email: cfg.StaticEmail},
		}, nil
	case config.AuthModeInsecure:
		logger.Warn("auth mode insecure: token signatures are NOT verified; do not use outside development")
		return &InsecureVerifier{}, nil
	}
	return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
}

// HMACVerifier validates HS256 signatures before trusting claims.
type HMACVerifier struct {
	secret []byte
}

// Verify parses and validates the token signature and expiry.
func (v *HMACVerifier) Verify(tokenStr string) (*Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return identityFromClaims(claims)
}

// IssueToken signs a token for the subject. Used by tooling and tests.
func (v *HMACVerifier) IssueToken(ownerID, email string) (string, error) {
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: ownerID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// StaticVerifier compares the raw bearer token against a bcrypt hash and
// maps it to a single configured identity. Suited to service-to-service use.
type StaticVerifier struct {
	hash     []byte
	identity Identity
}

// Verify runs the bcrypt comparison.
func (v *StaticVerifier) Verify(tokenStr string) (*Identity, error) {
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(tokenStr)); err != nil {
		return nil, errors.New("token mismatch")
	}
	id := v.identity
	return &id, nil
}

// InsecureVerifier decodes claims without checking the signature, trusting
// the datastore's row-level policy for enforcement. Opt-in only.
type InsecureVerifier struct{}

// Verify extracts the subject claim without signature validation.
func (v *InsecureVerifier) Verify(tokenStr string) (*Identity, error) {
	parser := jwt.NewParser()
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, err
	}
	return identityFromClaims(claims)
}

func identityFromClaims(claims *Claims) (*Identity, error) {
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &Identity{OwnerID: claims.Subject, Email: claims.Email}, nil
}
