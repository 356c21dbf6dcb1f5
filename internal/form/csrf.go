// internal/form/csrf.go
//
// Forms subsystem: stateless CSRF token utilities.
//
// Context
//   Every rendered form embeds a hidden `csrf_token` input.  Change and
//   submit requests must echo a token this process (or a sibling sharing the
//   key) signed.  The token is stateless:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – issue time, 8 bytes, big-endian.
//   •  HMAC – keyed with `security.csrf_key`.
//
//   Validation checks the signature and that the issue time lies within
//   maxAge.  No server-side sessions are required.
//
// Workflow
//   •  SetSecret(key)   → called once at boot with the configured key.
//   •  GenerateToken()  → token string for the renderer.
//   •  VerifyToken(tok) → constant-time verify; false on any failure.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	nonceBytes = 16
	tokenBytes = nonceBytes + 8 + sha256.Size // nonce + ts + sig
	maxAge     = 2 * time.Hour                // token valid window
	minKeyLen  = 32
)

var (
	secretMu  sync.Mutex
	secretKey []byte
)

// SetSecret installs the HMAC key.  Keys shorter than 32 bytes are refused.
func SetSecret(key []byte) error {
	if len(key) < minKeyLen {
		return errors.New("csrf: key must be at least 32 bytes")
	}
	secretMu.Lock()
	secretKey = append([]byte(nil), key...)
	secretMu.Unlock()
	return nil
}

// GenerateToken creates a new CSRF token.  Call once per form render.
func GenerateToken() (string, error) {
	return generateAt(time.Now())
}

func generateAt(now time.Time) (string, error) {
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(now.UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, sign(nonce, ts)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// VerifyToken returns true if tok passes HMAC and age checks.
func VerifyToken(tok string) bool {
	if tok == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:nonceBytes]
	tsBytes := raw[nonceBytes : nonceBytes+8]
	sig := raw[nonceBytes+8:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	if time.Since(issued) > maxAge || time.Until(issued) > time.Minute {
		// Older than maxAge, or from the future beyond clock skew.
		return false
	}

	return hmac.Equal(sig, sign(nonce, tsBytes))
}

func sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, fetchSecret())
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}

// fetchSecret returns the process-wide key.  Without SetSecret a random key
// is generated once; tokens then stop verifying after a restart.
func fetchSecret() []byte {
	secretMu.Lock()
	defer secretMu.Unlock()
	if secretKey == nil {
		secretKey = make([]byte, minKeyLen)
		_, _ = rand.Read(secretKey)
		zap.S().Warnw("csrf key not configured, using ephemeral key")
	}
	return secretKey
}
