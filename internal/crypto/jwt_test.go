package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"
const testAgent = "timetrack-cli/1.0"

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken("a@b.co", testAgent, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty string")
	}
}

func TestGenerateTokenRejectsBadInput(t *testing.T) {
	if _, err := GenerateToken("", testAgent, testSecret); err != ErrEmptyEmail {
		t.Errorf("GenerateToken() error = %v, want ErrEmptyEmail", err)
	}
	if _, err := GenerateToken("a@b.co", "", testSecret); err != ErrEmptyUserAgent {
		t.Errorf("GenerateToken() error = %v, want ErrEmptyUserAgent", err)
	}
	if _, err := GenerateToken("a@b.co", testAgent, "short"); err != ErrWeakSecret {
		t.Errorf("GenerateToken() error = %v, want ErrWeakSecret", err)
	}
}

func TestValidateTokenValid(t *testing.T) {
	token, err := GenerateToken("a@b.co", testAgent, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	claims, err := ValidateToken(token, testAgent, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if claims.Email() != "a@b.co" {
		t.Errorf("ValidateToken() email = %q, want %q", claims.Email(), "a@b.co")
	}
	if claims.UserAgent != testAgent {
		t.Errorf("ValidateToken() userAgent = %q, want %q", claims.UserAgent, testAgent)
	}
}

func TestValidateTokenInvalid(t *testing.T) {
	if _, err := ValidateToken("not-a-valid-token", testAgent, testSecret); err == nil {
		t.Error("ValidateToken() expected error for invalid token")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("a@b.co", testAgent, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	if _, err := ValidateToken(token, testAgent, "ffffffffffffffffffffffffffffffff"); err == nil {
		t.Error("ValidateToken() expected error for wrong secret")
	}
}

func TestValidateTokenWrongUserAgent(t *testing.T) {
	token, err := GenerateToken("a@b.co", testAgent, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	if _, err := ValidateToken(token, "another-client/2.0", testSecret); err == nil {
		t.Error("ValidateToken() expected error for wrong user agent")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "a@b.co",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
		UserAgent: testAgent,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	if _, err := ValidateToken(tokenString, testAgent, testSecret); err == nil {
		t.Error("ValidateToken() expected error for expired token")
	}
}

func TestExtractBearer(t *testing.T) {
	token, err := ExtractBearer("Bearer abc.def.ghi")
	if err != nil {
		t.Fatalf("ExtractBearer() unexpected error: %v", err)
	}
	if token != "abc.def.ghi" {
		t.Errorf("ExtractBearer() = %q, want %q", token, "abc.def.ghi")
	}

	if _, err := ExtractBearer("Basic abc"); err == nil {
		t.Error("ExtractBearer() expected error for non-bearer header")
	}
	if _, err := ExtractBearer(""); err == nil {
		t.Error("ExtractBearer() expected error for empty header")
	}
}
