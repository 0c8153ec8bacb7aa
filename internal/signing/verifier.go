package signing

import (
	"crypto/hmac"
	"errors"
	"sync"
	"time"
)

// Verification errors. Missing or malformed headers are the caller's fault
// (bad request); everything else is an authorization failure.
var (
	ErrMissingHeaders     = errors.New("missing signing headers")
	ErrMalformedTimestamp = errors.New("malformed timestamp header")
	ErrInvalidRequest     = errors.New("invalid request signature")
)

// maxTimestampAge is how far in the past a signed timestamp may lie before
// the request is rejected as stale. Replayed nonces are remembered for the
// same window.
const maxTimestampAge = 5 * time.Minute

// Verifier checks inbound signing headers: signature match, timestamp
// freshness, and nonce single-use within the freshness window.
type Verifier struct {
	secret string
	now    func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewVerifier creates a Verifier keyed by the shared client secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: secret,
		now:    time.Now,
		seen:   make(map[string]time.Time),
	}
}

// Verify validates one request's signing headers. A nonce is consumed even
// when the rest of the check fails, so a captured request cannot be retried
// into acceptance.
func (v *Verifier) Verify(nonce, timestamp, signature string) error {
	if nonce == "" || timestamp == "" || signature == "" {
		return ErrMissingHeaders
	}

	ts, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return ErrMalformedTimestamp
	}

	if !v.consumeNonce(nonce) {
		return ErrInvalidRequest
	}
	if v.now().Add(-maxTimestampAge).After(ts) {
		return ErrInvalidRequest
	}

	expected := Sign(v.secret, nonce, timestamp)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidRequest
	}
	return nil
}

// consumeNonce records the nonce and reports whether it was unused. Expired
// entries are pruned on the way through, keeping the cache bounded by the
// freshness window.
func (v *Verifier) consumeNonce(nonce string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	cutoff := v.now().Add(-maxTimestampAge)
	for n, at := range v.seen {
		if at.Before(cutoff) {
			delete(v.seen, n)
		}
	}

	if _, used := v.seen[nonce]; used {
		return false
	}
	v.seen[nonce] = v.now()
	return true
}
