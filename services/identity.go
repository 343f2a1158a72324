package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/option"
)

// ErrInvalidCredential is returned when a bearer token cannot be verified
var ErrInvalidCredential = errors.New("invalid credential")

// Identity is the verified caller of a request
type Identity struct {
	Email   string `json:"email"`
	UID     string `json:"uid,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// IdentityVerifier decodes a bearer credential into an Identity
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// VerifierFunc adapts a function to IdentityVerifier
type VerifierFunc func(ctx context.Context, token string) (*Identity, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (*Identity, error) {
	return f(ctx, token)
}

// IdentityClaims is the claim set of tokens issued and accepted by JWTVerifier
type IdentityClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier accepts HS256 tokens signed with a shared secret
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(ctx context.Context, raw string) (*Identity, error) {
	claims := &IdentityClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	email := claims.Email
	if email == "" && strings.Contains(claims.Subject, "@") {
		email = claims.Subject
	}
	if email == "" {
		return nil, fmt.Errorf("%w: token carries no email", ErrInvalidCredential)
	}
	return &Identity{
		Email:   strings.ToLower(email),
		UID:     claims.Subject,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

// Issue signs a token for identity valid for ttl. Used by the CLI for local development.
func (v *JWTVerifier) Issue(identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	subject := identity.UID
	if subject == "" {
		subject = identity.Email
	}
	claims := IdentityClaims{
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// FirebaseVerifier accepts Firebase Authentication ID tokens
type FirebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier builds a verifier from a service account file.
// An empty path falls back to application default credentials.
func NewFirebaseVerifier(ctx context.Context, credentialsFile string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, raw string) (*Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: token carries no email", ErrInvalidCredential)
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	return &Identity{
		Email:   strings.ToLower(email),
		UID:     token.UID,
		Name:    name,
		Picture: picture,
	}, nil
}
