package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// SignedURLSigner creates and validates signed download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate returns a signed token referencing the subject and object key.
func (s *SignedURLSigner) Generate(subject, key string) (string, time.Time, error) {
	if subject == "" || key == "" {
		return "", time.Time{}, fmt.Errorf("subject and key required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	encodedKey := base64.RawURLEncoding.EncodeToString([]byte(key))
	payload := fmt.Sprintf("%s|%d|%s", subject, expiresAt.Unix(), encodedKey)
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))
	token := strings.Join([]string{subject, fmt.Sprintf("%d", expiresAt.Unix()), encodedKey, signature}, ".")
	return token, expiresAt, nil
}

// Parse validates a token and returns the embedded metadata.
// When allowExpired is true, the timestamp check is skipped (used by cleanup routines).
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (subject, key string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", time.Time{}, fmt.Errorf("invalid token format")
	}
	subject = parts[0]
	ts := parts[1]
	encodedKey := parts[2]
	signature := parts[3]

	rawKey, err := base64.RawURLEncoding.DecodeString(encodedKey)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("decode key: %w", err)
	}

	expUnix, err := parseUnix(ts)
	if err != nil {
		return "", "", time.Time{}, err
	}
	expiresAt = time.Unix(expUnix, 0)

	payload := fmt.Sprintf("%s|%s|%s", subject, ts, encodedKey)
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return "", "", time.Time{}, fmt.Errorf("invalid token signature")
	}
	if !allowExpired && time.Now().After(expiresAt) {
		return "", "", time.Time{}, fmt.Errorf("token expired")
	}
	return subject, string(rawKey), expiresAt, nil
}

func parseUnix(raw string) (int64, error) {
	var ts int64
	_, err := fmt.Sscanf(raw, "%d", &ts)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp")
	}
	return ts, nil
}
