package certificate

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/services"
	"github.com/ton-education/backend/utils/middleware"
	"github.com/ton-education/backend/utils/response"
)

// CertificateHandler handles SBT certificate requests
type CertificateHandler struct {
	certificates *services.CertificateService
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(certificates *services.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificates: certificates}
}

// IssueCertificate handles POST /api/v1/courses/:id/certificate
func (h *CertificateHandler) IssueCertificate(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courseID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	cert, err := h.certificates.IssueCertificate(c.Context(), userID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return response.NotFound(c, "Course not found")
		case errors.Is(err, services.ErrCourseNotCompleted):
			return response.Forbidden(c, "Course is not completed yet")
		case errors.Is(err, services.ErrCertificateAlreadyIssued):
			return response.Conflict(c, "Certificate already issued for this course")
		case errors.Is(err, services.ErrNoWalletAddress):
			return response.BadRequest(c, "Connect a TON wallet before minting certificates")
		case errors.Is(err, services.ErrLedgerFailure):
			return response.PaymentRequired(c, "SBT mint failed, try again later")
		default:
			return response.InternalServerError(c, "Failed to issue certificate")
		}
	}

	return response.Created(c, cert)
}

// ListCertificates handles GET /api/v1/users/me/certificates
func (h *CertificateHandler) ListCertificates(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	certs, err := h.certificates.ListUserCertificates(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch certificates")
	}

	return response.Success(c, certs)
}

// GetCertificate handles GET /api/v1/certificates/:id. Certificates are
// public records; anyone with the id can verify one.
func (h *CertificateHandler) GetCertificate(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid certificate id")
	}

	cert, err := h.certificates.GetCertificate(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Certificate not found")
		}
		return response.InternalServerError(c, "Failed to fetch certificate")
	}

	return response.Success(c, cert)
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
