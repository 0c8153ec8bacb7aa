package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/StrayFurther/TimeTrack/internal/crypto"
	"github.com/StrayFurther/TimeTrack/internal/signing"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	testAgent  = "timetrack-cli/1.0"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestJWTAuthAllowsValidToken(t *testing.T) {
	token, err := crypto.GenerateToken("a@b.co", testAgent, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := EmailFromContext(r.Context())
		if !ok || email != "a@b.co" {
			t.Errorf("EmailFromContext() = %q, %v; want a@b.co, true", email, ok)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/user/details", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", testAgent)
	rec := httptest.NewRecorder()

	JWTAuth(testSecret)(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	inner, called := okHandler()
	req := httptest.NewRequest(http.MethodGet, "/user/details", nil)
	rec := httptest.NewRecorder()

	JWTAuth(testSecret)(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if *called {
		t.Error("handler must not run without credentials")
	}
}

func TestJWTAuthRejectsTokenFromOtherClient(t *testing.T) {
	token, err := crypto.GenerateToken("a@b.co", "other-client/9.9", testSecret)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	inner, called := okHandler()
	req := httptest.NewRequest(http.MethodGet, "/user/details", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", testAgent)
	rec := httptest.NewRecorder()

	JWTAuth(testSecret)(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if *called {
		t.Error("handler must not run for a token bound to another client")
	}
}

func TestRequestOriginAcceptsSignedRequest(t *testing.T) {
	verifier := signing.NewVerifier(testSecret)
	inner, called := okHandler()

	h, err := signing.NewHeaders(testSecret)
	if err != nil {
		t.Fatalf("NewHeaders() unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/user/login", nil)
	req.Header.Set(signing.HeaderNonce, h.Nonce)
	req.Header.Set(signing.HeaderTimestamp, h.Timestamp)
	req.Header.Set(signing.HeaderSignature, h.Signature)
	rec := httptest.NewRecorder()

	RequestOrigin(verifier)(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !*called {
		t.Error("handler should run for a correctly signed request")
	}
}

func TestRequestOriginRejectsUnsignedRequest(t *testing.T) {
	verifier := signing.NewVerifier(testSecret)
	inner, called := okHandler()

	req := httptest.NewRequest(http.MethodPost, "/user/login", nil)
	rec := httptest.NewRecorder()

	RequestOrigin(verifier)(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if *called {
		t.Error("handler must not run for an unsigned request")
	}
}

func TestRequestOriginRejectsReplay(t *testing.T) {
	verifier := signing.NewVerifier(testSecret)
	inner, _ := okHandler()

	h, err := signing.NewHeaders(testSecret)
	if err != nil {
		t.Fatalf("NewHeaders() unexpected error: %v", err)
	}

	mw := RequestOrigin(verifier)(inner)
	for i, want := range []int{http.StatusOK, http.StatusUnauthorized} {
		req := httptest.NewRequest(http.MethodPost, "/user/login", nil)
		req.Header.Set(signing.HeaderNonce, h.Nonce)
		req.Header.Set(signing.HeaderTimestamp, h.Timestamp)
		req.Header.Set(signing.HeaderSignature, h.Signature)
		rec := httptest.NewRecorder()

		mw.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("attempt %d: status = %d, want %d", i+1, rec.Code, want)
		}
	}
}

func TestRequestOriginSkipsOptions(t *testing.T) {
	verifier := signing.NewVerifier(testSecret)
	inner, called := okHandler()

	req := httptest.NewRequest(http.MethodOptions, "/user/login", nil)
	rec := httptest.NewRecorder()

	RequestOrigin(verifier)(inner).ServeHTTP(rec, req)

	if !*called {
		t.Error("OPTIONS preflight must pass through unverified")
	}
}

func TestRateLimit(t *testing.T) {
	inner, _ := okHandler()
	mw := RateLimit(1, 2)(inner)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/user/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want within burst", statuses[:2])
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want %d", statuses[2], http.StatusTooManyRequests)
	}
}

func TestRateLimitIsPerIP(t *testing.T) {
	inner, _ := okHandler()
	mw := RateLimit(1, 1)(inner)

	for i, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodPost, "/user/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("request %d from %s status = %d, want %d", i, addr, rec.Code, http.StatusOK)
		}
	}
}
