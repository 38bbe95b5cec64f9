package course

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/model"
	"github.com/ton-education/backend/utils/response"
	"github.com/ton-education/backend/utils/validation"
)

// CreateLessonRequest represents the request body for creating a lesson
type CreateLessonRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Content     string `json:"content" validate:"omitempty"`
	Duration    string `json:"duration" validate:"omitempty,max=50"`
	OrderNumber int    `json:"order_number" validate:"required,min=1"`
}

// UpdateLessonRequest represents the request body for updating a lesson
type UpdateLessonRequest struct {
	Title       string `json:"title" validate:"omitempty,min=3,max=255"`
	Content     string `json:"content" validate:"omitempty"`
	Duration    string `json:"duration" validate:"omitempty,max=50"`
	OrderNumber *int   `json:"order_number" validate:"omitempty,min=1"`
}

// ListLessons handles GET /api/v1/courses/:id/lessons
func (h *CourseHandler) ListLessons(c *fiber.Ctx) error {
	courseID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	if _, err := h.store.GetCourse(courseID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	lessons, err := h.store.ListLessonsByCourse(courseID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch lessons")
	}

	return response.Success(c, lessons)
}

// CreateLesson handles POST /api/v1/courses/:id/lessons (admin)
func (h *CourseHandler) CreateLesson(c *fiber.Ctx) error {
	courseID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	if _, err := h.store.GetCourse(courseID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	var req CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	lesson := model.Lesson{
		CourseID:    courseID,
		Title:       validation.SanitizeString(req.Title),
		Content:     req.Content,
		Duration:    validation.SanitizeString(req.Duration),
		OrderNumber: req.OrderNumber,
	}

	if err := h.store.CreateLesson(&lesson); err != nil {
		return response.InternalServerError(c, "Failed to create lesson")
	}

	return response.Created(c, lesson)
}

// UpdateLesson handles PUT /api/v1/lessons/:id (admin)
func (h *CourseHandler) UpdateLesson(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid lesson id")
	}

	lesson, err := h.store.GetLesson(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Lesson not found")
		}
		return response.InternalServerError(c, "Failed to fetch lesson")
	}

	var req UpdateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Title != "" {
		lesson.Title = validation.SanitizeString(req.Title)
	}
	if req.Content != "" {
		lesson.Content = req.Content
	}
	if req.Duration != "" {
		lesson.Duration = validation.SanitizeString(req.Duration)
	}
	if req.OrderNumber != nil {
		lesson.OrderNumber = *req.OrderNumber
	}

	if err := h.store.UpdateLesson(lesson); err != nil {
		return response.InternalServerError(c, "Failed to update lesson")
	}

	return response.Success(c, lesson)
}

// DeleteLesson handles DELETE /api/v1/lessons/:id (admin)
func (h *CourseHandler) DeleteLesson(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid lesson id")
	}

	if err := h.store.DeleteLesson(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Lesson not found")
		}
		return response.InternalServerError(c, "Failed to delete lesson")
	}

	return response.NoContent(c)
}
