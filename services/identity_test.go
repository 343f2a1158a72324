package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTVerifierRoundTrip(t *testing.T) {
	v := NewJWTVerifier("secret")
	token, err := v.Issue(Identity{Email: "Ann@X.com", Name: "Ann"}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	id, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Email != "ann@x.com" || id.Name != "Ann" {
		t.Errorf("identity = %+v", id)
	}
}

func TestJWTVerifierRejects(t *testing.T) {
	v := NewJWTVerifier("secret")
	expired, _ := v.Issue(Identity{Email: "a@x.com"}, -time.Minute)
	foreign, _ := NewJWTVerifier("other").Issue(Identity{Email: "a@x.com"}, time.Hour)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, IdentityClaims{Email: "a@x.com"}).SignedString([]byte("secret"))
	noEmail, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "uid-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))

	for name, token := range map[string]string{
		"garbage":    "not-a-token",
		"expired":    expired,
		"bad secret": foreign,
		"no expiry":  noExpiry,
		"no email":   noEmail,
	} {
		if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrInvalidCredential) {
			t.Errorf("%s: err = %v, want ErrInvalidCredential", name, err)
		}
	}
}

func TestJWTVerifierEmailFromSubject(t *testing.T) {
	v := NewJWTVerifier("secret")
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "Sub@x.com", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))

	id, err := v.Verify(context.Background(), token)
	if err != nil || id.Email != "sub@x.com" {
		t.Errorf("Verify = %+v, %v", id, err)
	}
}
