package leaderboard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ton-education/backend/services"
	"github.com/ton-education/backend/utils/response"
)

// LeaderboardHandler handles leaderboard requests
type LeaderboardHandler struct {
	leaderboard *services.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboard *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// GetLeaderboard handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	period := c.Query("period", "all")
	limit := c.QueryInt("limit", 100)
	if limit < 1 || limit > 500 {
		limit = 100
	}

	entries, err := h.leaderboard.GetLeaderboard(c.Context(), period, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch leaderboard")
	}

	return response.Success(c, fiber.Map{
		"period":  period,
		"entries": entries,
	})
}
