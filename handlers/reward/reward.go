package reward

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/services"
	"github.com/ton-education/backend/utils/middleware"
	"github.com/ton-education/backend/utils/response"
)

// RewardHandler handles TON reward requests
type RewardHandler struct {
	rewards *services.RewardService
}

// NewRewardHandler creates a new reward handler
func NewRewardHandler(rewards *services.RewardService) *RewardHandler {
	return &RewardHandler{rewards: rewards}
}

// ClaimReward handles POST /api/v1/courses/:id/claim-reward
func (h *RewardHandler) ClaimReward(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courseID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	result, err := h.rewards.ClaimCourseReward(c.Context(), userID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return response.NotFound(c, "Course not found")
		case errors.Is(err, services.ErrCourseNotCompleted):
			return response.Forbidden(c, "Course is not completed yet")
		case errors.Is(err, services.ErrRewardAlreadyClaimed):
			return response.Conflict(c, "Reward already claimed for this course")
		case errors.Is(err, services.ErrNoWalletAddress):
			return response.BadRequest(c, "Connect a TON wallet before claiming rewards")
		case errors.Is(err, services.ErrLedgerFailure):
			return response.PaymentRequired(c, "TON transfer failed, try again later")
		default:
			return response.InternalServerError(c, "Failed to claim reward")
		}
	}

	return response.SuccessWithMessage(c, "Reward sent to your wallet", result)
}

// ListRewards handles GET /api/v1/users/me/rewards
func (h *RewardHandler) ListRewards(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	rewards, err := h.rewards.ListUserRewards(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch rewards")
	}

	return response.Success(c, rewards)
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
