// Package signing implements the client-origin request signing scheme: every
// outbound API call carries a fresh nonce, a timestamp, and an HMAC-SHA256
// signature over both, keyed by a secret shared between client and server.
package signing

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Header names for the three signing values.
const (
	HeaderNonce     = "X-Client-Nonce"
	HeaderTimestamp = "X-Client-Timestamp"
	HeaderSignature = "X-Client-Signature"
)

const (
	base36Chars  = "0123456789abcdefghijklmnopqrstuvwxyz"
	nonceRandLen = 13

	// timestampLayout is ISO-8601 with millisecond precision in UTC.
	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// Headers holds one request's signing values, derived fresh per call and
// never reused. Nonce uniqueness is probabilistic (random suffix plus
// millisecond timestamp), not guaranteed.
type Headers struct {
	Nonce     string
	Timestamp string
	Signature string
}

// NewHeaders derives a full set of signing headers for the current instant.
// It fails only if the process randomness source is unavailable, which is
// fatal to the request.
func NewHeaders(secret string) (Headers, error) {
	now := time.Now()

	nonce, err := nonceAt(now)
	if err != nil {
		return Headers{}, err
	}
	timestamp := now.UTC().Format(timestampLayout)

	return Headers{
		Nonce:     nonce,
		Timestamp: timestamp,
		Signature: Sign(secret, nonce, timestamp),
	}, nil
}

// Sign computes the hex-encoded HMAC-SHA256 of "{nonce}:{timestamp}" keyed
// by secret.
func Sign(secret, nonce, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(nonce + ":" + timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}

// nonceAt builds "{epochMillis}-{13 random base-36 chars}".
func nonceAt(now time.Time) (string, error) {
	buf := make([]byte, nonceRandLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	for i, b := range buf {
		buf[i] = base36Chars[int(b)%len(base36Chars)]
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), buf), nil
}
