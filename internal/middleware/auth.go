package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/campushq/exam-portal-api/internal/utils"
)

// Role values the portal understands. The identity provider is external;
// this middleware only resolves and trusts its tokens.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

const identityKey = "identity"

// Identity is the resolved caller: an opaque token maps to an id and a role.
type Identity struct {
	ID   uint
	Role string
}

// JWTProtected returns a middleware that validates bearer tokens and binds
// the resolved Identity to the request.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
			return utils.SendError(c, fiber.StatusUnauthorized, "missing bearer token")
		}

		tokenString := strings.TrimSpace(header[len(prefix):])
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		identity, ok := identityFromClaims(claims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "token carries no subject")
		}

		c.Locals(identityKey, identity)

		return c.Next()
	}
}

// RequireRole gates a route group to callers holding one of the given roles.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromCtx(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if _, ok := allowed[identity.Role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// IdentityFromCtx returns the identity bound by JWTProtected, if any.
func IdentityFromCtx(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(identityKey).(Identity)
	return identity, ok
}

// WithIdentity binds an identity directly; used by tests to bypass token parsing.
func WithIdentity(identity Identity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

func identityFromClaims(claims jwt.MapClaims) (Identity, bool) {
	identity := Identity{}

	for _, key := range []string{"sub", "user_id", "id"} {
		if raw, ok := claims[key]; ok {
			if id, err := parseSubject(raw); err == nil {
				identity.ID = id
				break
			}
		}
	}
	if identity.ID == 0 {
		return Identity{}, false
	}

	if raw, ok := claims["role"]; ok {
		if role, ok := raw.(string); ok {
			identity.Role = strings.ToLower(strings.TrimSpace(role))
		}
	}

	return identity, true
}

func parseSubject(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 1 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	default:
		return 0, fmt.Errorf("unsupported subject type %T", value)
	}
}
