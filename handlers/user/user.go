package user

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/services/ton"
	"github.com/ton-education/backend/utils/middleware"
	"github.com/ton-education/backend/utils/response"
	"github.com/ton-education/backend/utils/validation"
)

// UserHandler handles user profile requests
type UserHandler struct {
	store     database.EntityStore
	ledger    ton.Ledger
	validator *validation.Validator
}

// NewUserHandler creates a new user handler
func NewUserHandler(store database.EntityStore, ledger ton.Ledger) *UserHandler {
	return &UserHandler{
		store:     store,
		ledger:    ledger,
		validator: validation.NewValidator(),
	}
}

// UpdateWalletRequest represents the request body for connecting a wallet
type UpdateWalletRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,min=48,max=128"`
}

// Me handles GET /api/v1/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	return response.Success(c, user)
}

// UpdateWallet handles PATCH /api/v1/users/me/wallet
func (h *UserHandler) UpdateWallet(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req UpdateWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	address := validation.SanitizeString(req.WalletAddress)
	if !h.ledger.IsValidAddress(address) {
		return response.BadRequest(c, "Invalid TON wallet address")
	}

	user.WalletAddress = &address
	if err := h.store.UpdateUser(user); err != nil {
		return response.InternalServerError(c, "Failed to update wallet")
	}

	return response.SuccessWithMessage(c, "Wallet connected", user)
}

// Balance handles GET /api/v1/users/me/balance. Returns the accumulated
// reward balance plus the on-chain wallet balance when a wallet is set.
func (h *UserHandler) Balance(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	result := fiber.Map{
		"balance": user.Balance,
	}

	if user.HasWallet() {
		if onChain, err := h.ledger.Balance(c.Context(), *user.WalletAddress); err == nil {
			result["wallet_balance"] = onChain
		}
	}

	return response.Success(c, result)
}
