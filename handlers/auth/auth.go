package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/model"
	"github.com/ton-education/backend/utils/auth"
	"github.com/ton-education/backend/utils/middleware"
	"github.com/ton-education/backend/utils/response"
	"github.com/ton-education/backend/utils/validation"
)

// AuthHandler handles Telegram Mini-App authentication
type AuthHandler struct {
	store      database.EntityStore
	jwtManager *auth.JWTManager
	bruteForce *middleware.BruteForceProtection
	validator  *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(store database.EntityStore, jwtManager *auth.JWTManager, bruteForce *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		store:      store,
		jwtManager: jwtManager,
		bruteForce: bruteForce,
		validator:  validation.NewValidator(),
	}
}

// TelegramAuthRequest represents the request body for Telegram authentication
type TelegramAuthRequest struct {
	TelegramID  string `json:"telegram_id" validate:"required,min=1,max=32"`
	Username    string `json:"username" validate:"required,min=3,max=32"`
	DisplayName string `json:"display_name" validate:"omitempty,max=128"`
}

// RefreshRequest represents the request body for token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is the token pair returned on successful authentication
type AuthResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

// Telegram handles POST /api/v1/auth/telegram. Users are created on first
// sight of a Telegram id and updated on subsequent logins.
func (h *AuthHandler) Telegram(c *fiber.Ctx) error {
	var req TelegramAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Username = validation.SanitizeString(req.Username)
	req.DisplayName = validation.SanitizeString(req.DisplayName)
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	if ok, msg := validation.ValidateUsername(req.Username); !ok {
		h.bruteForce.RecordFailedAttempt(c, c.IP())
		return response.BadRequest(c, msg)
	}

	user, err := h.store.GetUserByTelegramID(req.TelegramID)
	switch {
	case err == nil:
		// Existing user: refresh profile fields
		if user.Username != req.Username || user.DisplayName != req.DisplayName {
			user.Username = req.Username
			user.DisplayName = req.DisplayName
			if err := h.store.UpdateUser(user); err != nil {
				return response.InternalServerError(c, "Failed to update user")
			}
		}
	case errors.Is(err, database.ErrNotFound):
		user = &model.User{
			Username:     req.Username,
			TelegramID:   req.TelegramID,
			DisplayName:  req.DisplayName,
			ReferralCode: generateReferralCode(),
		}
		if err := h.store.CreateUser(user); err != nil {
			return response.Conflict(c, "Username already taken")
		}
	default:
		return response.InternalServerError(c, "Failed to load user")
	}

	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Username, user.TelegramID, user.IsAdmin)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}
	refreshToken, _, err := h.jwtManager.GenerateRefreshToken(user.ID, user.Username, user.TelegramID, user.IsAdmin)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}

	h.bruteForce.RecordSuccessfulAttempt(c, c.IP())

	return response.Success(c, AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	accessToken, _, err := h.jwtManager.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		h.bruteForce.RecordFailedAttempt(c, c.IP())
		return response.Unauthorized(c, "Invalid refresh token")
	}

	return response.Success(c, fiber.Map{
		"access_token": accessToken,
	})
}

// generateReferralCode builds a short shareable code, e.g. REF1A2B3C4D.
func generateReferralCode() string {
	id := uuid.New().String()
	return fmt.Sprintf("REF%s", strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8]))
}
