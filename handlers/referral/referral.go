package referral

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/model"
	"github.com/ton-education/backend/services"
	"github.com/ton-education/backend/utils/middleware"
	"github.com/ton-education/backend/utils/response"
	"github.com/ton-education/backend/utils/validation"
)

// ReferralHandler handles referral program requests
type ReferralHandler struct {
	referrals *services.ReferralService
	store     database.EntityStore
	validator *validation.Validator
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(referrals *services.ReferralService, store database.EntityStore) *ReferralHandler {
	return &ReferralHandler{
		referrals: referrals,
		store:     store,
		validator: validation.NewValidator(),
	}
}

// SubmitReferralRequest represents the request body for submitting a referral code
type SubmitReferralRequest struct {
	ReferralCode string `json:"referral_code" validate:"required,min=4,max=32"`
}

// UpdateTierRequest represents the request body for tuning a referral tier
type UpdateTierRequest struct {
	Name              string   `json:"name" validate:"omitempty,min=2,max=50"`
	RequiredReferrals *int     `json:"required_referrals" validate:"omitempty,gte=0"`
	RewardMultiplier  *float64 `json:"reward_multiplier" validate:"omitempty,gt=0"`
}

// SubmitReferral handles POST /api/v1/referrals
func (h *ReferralHandler) SubmitReferral(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req SubmitReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	code := validation.SanitizeString(req.ReferralCode)

	result, err := h.referrals.SubmitReferral(c.Context(), userID, code)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return response.NotFound(c, "Referral code not found")
		case errors.Is(err, services.ErrSelfReferral):
			return response.BadRequest(c, "You cannot use your own referral code")
		case errors.Is(err, services.ErrAlreadyReferred):
			return response.Conflict(c, "You have already used a referral code")
		default:
			return response.InternalServerError(c, "Failed to submit referral")
		}
	}

	return response.SuccessWithMessage(c, "Referral recorded", result)
}

// TierStatus handles GET /api/v1/referrals/status
func (h *ReferralHandler) TierStatus(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	status, err := h.referrals.ReferralTierStatus(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch referral status")
	}

	return response.Success(c, status)
}

// ListTiers handles GET /api/v1/referrals/tiers
func (h *ReferralHandler) ListTiers(c *fiber.Ctx) error {
	tiers, err := h.referrals.ListReferralTiers()
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch referral tiers")
	}

	return response.Success(c, tiers)
}

// UpdateTier handles PUT /api/v1/referrals/tiers/:tier (admin)
func (h *ReferralHandler) UpdateTier(c *fiber.Ctx) error {
	tierNum, err := strconv.Atoi(c.Params("tier"))
	if err != nil || tierNum < 0 {
		return response.BadRequest(c, "Invalid tier")
	}

	tier, err := h.store.GetReferralTier(tierNum)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Referral tier not found")
		}
		return response.InternalServerError(c, "Failed to fetch referral tier")
	}

	var req UpdateTierRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Name != "" {
		tier.Name = validation.SanitizeString(req.Name)
	}
	if req.RequiredReferrals != nil {
		tier.RequiredReferrals = *req.RequiredReferrals
	}
	if req.RewardMultiplier != nil {
		tier.RewardMultiplier = *req.RewardMultiplier
	}

	if err := h.store.UpdateReferralTier(tier); err != nil {
		return response.InternalServerError(c, "Failed to update referral tier")
	}

	return response.Success(c, tier)
}

// CreateTierRequest represents the request body for adding a referral tier
type CreateTierRequest struct {
	Tier              int     `json:"tier" validate:"gte=0"`
	Name              string  `json:"name" validate:"required,min=2,max=50"`
	RequiredReferrals int     `json:"required_referrals" validate:"gte=0"`
	RewardMultiplier  float64 `json:"reward_multiplier" validate:"required,gt=0"`
}

// CreateTier handles POST /api/v1/referrals/tiers (admin)
func (h *ReferralHandler) CreateTier(c *fiber.Ctx) error {
	var req CreateTierRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if _, err := h.store.GetReferralTier(req.Tier); err == nil {
		return response.Conflict(c, "Referral tier already exists")
	}

	tier := model.ReferralTier{
		Tier:              req.Tier,
		Name:              validation.SanitizeString(req.Name),
		RequiredReferrals: req.RequiredReferrals,
		RewardMultiplier:  req.RewardMultiplier,
	}

	if err := h.store.CreateReferralTier(&tier); err != nil {
		return response.InternalServerError(c, "Failed to create referral tier")
	}

	return response.Created(c, tier)
}
