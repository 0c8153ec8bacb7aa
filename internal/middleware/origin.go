package middleware

import (
	"errors"
	"net/http"

	"github.com/StrayFurther/TimeTrack/internal/signing"
)

// RequestOrigin returns middleware that rejects requests whose signing
// headers are absent, stale, replayed, or carry a wrong signature. OPTIONS
// preflight requests are exempt because browsers strip custom headers from
// them.
func RequestOrigin(verifier *signing.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			err := verifier.Verify(
				r.Header.Get(signing.HeaderNonce),
				r.Header.Get(signing.HeaderTimestamp),
				r.Header.Get(signing.HeaderSignature),
			)
			switch {
			case errors.Is(err, signing.ErrMissingHeaders):
				writeJSONError(w, http.StatusBadRequest, "missing required headers")
			case errors.Is(err, signing.ErrMalformedTimestamp):
				writeJSONError(w, http.StatusBadRequest, "invalid header format")
			case err != nil:
				writeJSONError(w, http.StatusUnauthorized, "invalid request")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
