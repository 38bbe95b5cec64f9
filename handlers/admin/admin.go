package admin

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/utils/response"
)

// AdminHandler handles the admin console's read endpoints
type AdminHandler struct {
	store database.EntityStore
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store database.EntityStore) *AdminHandler {
	return &AdminHandler{store: store}
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.store.ListUsers()
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	return response.Success(c, users)
}

// GetUser handles GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return response.BadRequest(c, "Invalid user id")
	}

	user, err := h.store.GetUser(uint(id))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, user)
}

// ListRewards handles GET /api/v1/admin/rewards
func (h *AdminHandler) ListRewards(c *fiber.Ctx) error {
	rewards, err := h.store.ListAllRewards()
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch rewards")
	}

	return response.Success(c, rewards)
}

// ListCertificates handles GET /api/v1/admin/certificates
func (h *AdminHandler) ListCertificates(c *fiber.Ctx) error {
	certs, err := h.store.ListAllCertificates()
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch certificates")
	}

	return response.Success(c, certs)
}
