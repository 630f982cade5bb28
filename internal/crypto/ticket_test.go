package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testImageURL = "https://ideogram.ai/api/images/ephemeral/abc.png"

func TestGenerateTicket(t *testing.T) {
	token, err := GenerateTicket(testImageURL, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateTicket() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateTicket() returned empty string")
	}
}

func TestValidateTicketValid(t *testing.T) {
	token, err := GenerateTicket(testImageURL, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateTicket() unexpected error: %v", err)
	}

	claims, err := ValidateTicket(token, testImageURL, "test-secret")
	if err != nil {
		t.Fatalf("ValidateTicket() unexpected error: %v", err)
	}
	if claims.URL != testImageURL {
		t.Errorf("ValidateTicket() URL = %q, want %q", claims.URL, testImageURL)
	}
}

func TestValidateTicketWrongURL(t *testing.T) {
	token, err := GenerateTicket(testImageURL, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateTicket() unexpected error: %v", err)
	}

	_, err = ValidateTicket(token, "https://evil.example/internal", "test-secret")
	if !errors.Is(err, ErrTicketURL) {
		t.Errorf("ValidateTicket() error = %v, want ErrTicketURL", err)
	}
}

func TestValidateTicketInvalid(t *testing.T) {
	if _, err := ValidateTicket("not-a-valid-token", testImageURL, "test-secret"); err == nil {
		t.Error("ValidateTicket() expected error for invalid token")
	}
}

func TestValidateTicketWrongSecret(t *testing.T) {
	token, err := GenerateTicket(testImageURL, "correct-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateTicket() unexpected error: %v", err)
	}

	if _, err := ValidateTicket(token, testImageURL, "wrong-secret"); err == nil {
		t.Error("ValidateTicket() expected error for wrong secret")
	}
}

func TestValidateTicketExpired(t *testing.T) {
	token, err := GenerateTicket(testImageURL, "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateTicket() unexpected error: %v", err)
	}

	if _, err := ValidateTicket(token, testImageURL, "test-secret"); err == nil {
		t.Error("ValidateTicket() expected error for expired token")
	}
}

func TestValidateTicketWrongAudience(t *testing.T) {
	secret := "test-secret"

	// Same issuer, but an audience from another token family.
	claims := TicketClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ticketIssuer,
			Audience:  jwt.ClaimStrings{"brandgen-api"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		URL: testImageURL,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	if _, err := ValidateTicket(tokenString, testImageURL, secret); err == nil {
		t.Error("ValidateTicket() expected error for wrong audience")
	}
}
