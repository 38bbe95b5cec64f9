package progress

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/services"
	"github.com/ton-education/backend/utils/middleware"
	"github.com/ton-education/backend/utils/response"
)

// ProgressHandler handles course enrollment and lesson completion requests
type ProgressHandler struct {
	progress *services.ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progress *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// StartCourse handles POST /api/v1/courses/:id/start
func (h *ProgressHandler) StartCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courseID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	uc, err := h.progress.StartCourse(userID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return response.NotFound(c, "Course not found")
		case errors.Is(err, services.ErrCourseInactive):
			return response.Forbidden(c, "Course is not active")
		default:
			return response.InternalServerError(c, "Failed to start course")
		}
	}

	return response.Success(c, uc)
}

// CompleteLesson handles POST /api/v1/lessons/:id/complete
func (h *ProgressHandler) CompleteLesson(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	lessonID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid lesson id")
	}

	result, err := h.progress.CompleteLesson(userID, lessonID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Lesson not found")
		}
		return response.InternalServerError(c, "Failed to complete lesson")
	}

	return response.Success(c, result)
}

// GetProgress handles GET /api/v1/users/me/progress
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	progress, err := h.progress.GetUserProgress(userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch progress")
	}

	return response.Success(c, progress)
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
