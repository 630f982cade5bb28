package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ticketIssuer   = "brandgen"
	ticketAudience = "brandgen-download"
)

var (
	ErrInvalidTicket = errors.New("invalid or expired download ticket")
	ErrTicketURL     = errors.New("download ticket does not match url")
)

// TicketClaims binds a download ticket to a single image URL.
type TicketClaims struct {
	jwt.RegisteredClaims
	URL string `json:"url"`
}

// GenerateTicket signs a ticket allowing the pass-through download of imageURL.
func GenerateTicket(imageURL, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := TicketClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ticketIssuer,
			Audience:  jwt.ClaimStrings{ticketAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		URL: imageURL,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateTicket parses a ticket and checks it was issued for imageURL.
func ValidateTicket(tokenString, imageURL, secret string) (*TicketClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TicketClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidTicket
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(ticketIssuer), jwt.WithAudience(ticketAudience))
	if err != nil {
		return nil, ErrInvalidTicket
	}

	claims, ok := token.Claims.(*TicketClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidTicket
	}
	if claims.URL != imageURL {
		return nil, ErrTicketURL
	}

	return claims, nil
}
