package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

// Signing errors.
var (
	// ErrNoSecret is returned when the signing secret is empty.
	ErrNoSecret = errors.New("token: secret must not be empty")
)

// Verification errors.
var (
	// ErrMalformedToken is returned when a token does not have the
	// expected structure or encoding.
	ErrMalformedToken = errors.New("token: malformed token")

	// ErrInvalidSignature is returned when the signature does not match
	// the token contents.
	ErrInvalidSignature = errors.New("token: invalid signature")

	// ErrTokenExpired is returned when the token is older than the
	// configured maximum age.
	ErrTokenExpired = errors.New("token: token expired")
)

// tokenVersion prefixes every token so the format can evolve.
const tokenVersion = "v1"

// Key derivation defaults per RFC 8018 recommendations.
const (
	defaultIterations = 1000
	defaultKeyLength  = 32
)

// SignConfig configures token signing.
type SignConfig struct {
	// Iterations is the PBKDF2 iteration count. Defaults to 1000.
	Iterations int

	// KeyLength is the derived key length in bytes. Defaults to 32.
	KeyLength int

	// SignedAt overrides the embedded signing time. Defaults to now.
	SignedAt time.Time
}

// VerifyConfig configures token verification.
type VerifyConfig struct {
	// Iterations and KeyLength must match the values used at signing.
	Iterations int
	KeyLength  int

	// MaxAge rejects tokens signed longer ago than this. Zero disables
	// the age check.
	MaxAge time.Duration
}

// Sign wraps a payload in a signed token of the form
// "v1.<timestamp>.<payload>.<signature>". The signing key is derived
// from the secret and salt with PBKDF2-SHA256 (RFC 8018); the signature
// is HMAC-SHA256 over the version, timestamp and payload.
//
// The payload is encoded, not encrypted: anyone holding the token can
// read it. The signature only guarantees it has not been altered.
func Sign(secret, salt string, payload []byte, cfg SignConfig) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}

	signedAt := cfg.SignedAt
	if signedAt.IsZero() {
		signedAt = time.Now()
	}

	encoding := base64.RawURLEncoding
	body := tokenVersion + "." +
		strconv.FormatInt(signedAt.Unix(), 10) + "." +
		encoding.EncodeToString(payload)

	key := deriveKey(secret, salt, cfg.Iterations, cfg.KeyLength)
	sig := signBody(key, body)

	return body + "." + encoding.EncodeToString(sig), nil
}

// Verify checks a token's signature and age and returns the payload.
//
// Structural problems (wrong version, wrong part count, broken
// encoding) return ErrMalformedToken; a well-formed token with a wrong
// signature returns ErrInvalidSignature. Expiry is checked only after
// the signature holds.
func Verify(secret, salt, token string, cfg VerifyConfig) ([]byte, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	parts := strings.Split(token, ".")
	if len(parts) != 4 || parts[0] != tokenVersion {
		return nil, ErrMalformedToken
	}

	signedAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad timestamp", ErrMalformedToken)
	}

	encoding := base64.RawURLEncoding

	payload, err := encoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: bad payload encoding", ErrMalformedToken)
	}

	sig, err := encoding.DecodeString(parts[3])
	if err != nil {
		return nil, fmt.Errorf("%w: bad signature encoding", ErrMalformedToken)
	}

	key := deriveKey(secret, salt, cfg.Iterations, cfg.KeyLength)
	expected := signBody(key, strings.Join(parts[:3], "."))

	if !hmac.Equal(sig, expected) {
		return nil, ErrInvalidSignature
	}

	if cfg.MaxAge > 0 {
		age := time.Since(time.Unix(signedAt, 0))
		if age > cfg.MaxAge {
			return nil, ErrTokenExpired
		}
	}

	return payload, nil
}

func deriveKey(secret, salt string, iterations, keyLength int) []byte {
	if iterations <= 0 {
		iterations = defaultIterations
	}
	if keyLength <= 0 {
		keyLength = defaultKeyLength
	}

	return pbkdf2.Key([]byte(secret), []byte(salt), iterations, keyLength, sha256.New)
}

func signBody(key []byte, body string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(body))
	return mac.Sum(nil)
}
