package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/model"
	"github.com/ton-education/backend/utils/auth"
	"github.com/ton-education/backend/utils/response"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	store      database.EntityStore
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, store database.EntityStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		store:      store,
	}
}

// Required is middleware that requires a valid JWT token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, user, errResp := m.authenticate(c)
		if errResp != nil {
			return errResp(c)
		}

		storeIdentity(c, claims, user)
		return c.Next()
	}
}

// Optional is middleware that allows requests with or without a token
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, user, errResp := m.authenticate(c)
		if errResp != nil {
			return c.Next()
		}

		storeIdentity(c, claims, user)
		return c.Next()
	}
}

// RequireAdmin is middleware that requires an admin user
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, user, errResp := m.authenticate(c)
		if errResp != nil {
			return errResp(c)
		}

		// The database is authoritative; the claim alone is not enough.
		if !claims.IsAdmin || !user.IsAdmin {
			return response.Forbidden(c, "Admin access required")
		}

		storeIdentity(c, claims, user)
		return c.Next()
	}
}

// authenticate validates the bearer token and loads the user. On failure it
// returns the response to send instead of proceeding.
func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*auth.Claims, *model.User, func(*fiber.Ctx) error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, nil, func(c *fiber.Ctx) error {
			return response.Unauthorized(c, "Missing authorization token")
		}
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, nil, func(c *fiber.Ctx) error {
			return response.Unauthorized(c, "Invalid authorization format")
		}
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		msg := "Invalid token"
		if errors.Is(err, auth.ErrExpiredToken) {
			msg = "Token has expired"
		}
		return nil, nil, func(c *fiber.Ctx) error {
			return response.Unauthorized(c, msg)
		}
	}

	if claims.TokenType != "access" {
		return nil, nil, func(c *fiber.Ctx) error {
			return response.Unauthorized(c, "Invalid token type")
		}
	}

	user, err := m.store.GetUser(claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, func(c *fiber.Ctx) error {
				return response.Unauthorized(c, "User not found")
			}
		}
		return nil, nil, func(c *fiber.Ctx) error {
			return response.InternalServerError(c, "Failed to load user")
		}
	}

	return claims, user, nil
}

func storeIdentity(c *fiber.Ctx, claims *auth.Claims, user *model.User) {
	c.Locals("user_id", claims.UserID)
	c.Locals("username", claims.Username)
	c.Locals("claims", claims)
	c.Locals("user", user)
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUser extracts full user object from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}

// GetClaims extracts full claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims := c.Locals("claims")
	if claims == nil {
		return nil, false
	}
	claimsData, ok := claims.(*auth.Claims)
	return claimsData, ok
}
