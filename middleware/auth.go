package middleware

import (
	"context"
	"net/http"
	"strings"

	"contesthub/metrics"
	"contesthub/models"
	"contesthub/services"
	"contesthub/utils/response"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	IdentityKey = "identity"
	RoleKey     = "role"
)

const (
	ErrUnauthorized = "Unauthorized access"
	ErrInvalidToken = "Invalid Token"
	ErrForbidden    = "Forbidden access"
)

// RoleLookup resolves the stored role of a user
type RoleLookup interface {
	GetRole(ctx context.Context, email string) (models.Role, error)
}

// AuthMiddleware verifies the bearer credential and stores the caller's identity in the context
func AuthMiddleware(verifier services.IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			metrics.AuthFailures.WithLabelValues("missing").Inc()
			response.Abort(c, http.StatusUnauthorized, ErrUnauthorized)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			metrics.AuthFailures.WithLabelValues("missing").Inc()
			response.Abort(c, http.StatusUnauthorized, ErrUnauthorized)
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			metrics.AuthFailures.WithLabelValues("invalid").Inc()
			log.WithError(err).Debug("Rejected bearer token")
			response.Abort(c, http.StatusUnauthorized, ErrInvalidToken)
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// GetIdentity returns the identity stored by AuthMiddleware
func GetIdentity(c *gin.Context) *services.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if identity, ok := v.(*services.Identity); ok {
			return identity
		}
	}
	return nil
}

// RoleMiddleware rejects callers whose stored role does not satisfy one of roles.
// It must run after AuthMiddleware.
func RoleMiddleware(lookup RoleLookup, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			metrics.AuthFailures.WithLabelValues("missing").Inc()
			response.Abort(c, http.StatusUnauthorized, ErrUnauthorized)
			return
		}

		role, err := lookup.GetRole(c.Request.Context(), identity.Email)
		if err != nil {
			log.WithError(err).WithField("email", identity.Email).Error("Failed to look up role")
			response.Abort(c, http.StatusInternalServerError, "Failed to verify role")
			return
		}
		if !role.Satisfies(roles...) {
			metrics.AuthFailures.WithLabelValues("forbidden").Inc()
			response.Abort(c, http.StatusForbidden, ErrForbidden)
			return
		}

		c.Set(RoleKey, role)
		c.Next()
	}
}

func AdminOnly(lookup RoleLookup) gin.HandlerFunc {
	return RoleMiddleware(lookup, models.RoleAdmin)
}

func CreatorOrAdmin(lookup RoleLookup) gin.HandlerFunc {
	return RoleMiddleware(lookup, models.CreatorOrAdmin...)
}

// CallerRole returns the caller's role, reusing the one resolved by RoleMiddleware when present
func CallerRole(c *gin.Context, lookup RoleLookup) (models.Role, error) {
	if v, ok := c.Get(RoleKey); ok {
		if role, ok := v.(models.Role); ok {
			return role, nil
		}
	}
	identity := GetIdentity(c)
	if identity == nil {
		return models.RoleUser, nil
	}
	return lookup.GetRole(c.Request.Context(), identity.Email)
}

// SelfOrAdmin only lets a caller through when the email in path param matches their identity,
// or when they are an admin
func SelfOrAdmin(lookup RoleLookup, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			response.Abort(c, http.StatusUnauthorized, ErrUnauthorized)
			return
		}
		if strings.EqualFold(identity.Email, c.Param(param)) {
			c.Next()
			return
		}
		RoleMiddleware(lookup, models.RoleAdmin)(c)
	}
}

// Actor returns the authenticated caller together with their role
func Actor(c *gin.Context, lookup RoleLookup) (services.Actor, error) {
	identity := GetIdentity(c)
	if identity == nil {
		return services.Actor{}, services.ErrInvalidCredential
	}
	role, err := CallerRole(c, lookup)
	if err != nil {
		return services.Actor{}, err
	}
	return services.Actor{Email: identity.Email, Role: role}, nil
}
