package course

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/model"
	"github.com/ton-education/backend/utils/response"
	"github.com/ton-education/backend/utils/validation"
)

// CourseHandler handles course catalog requests
type CourseHandler struct {
	store     database.EntityStore
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(store database.EntityStore) *CourseHandler {
	return &CourseHandler{
		store:     store,
		validator: validation.NewValidator(),
	}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	Title     string  `json:"title" validate:"required,min=3,max=255"`
	Level     string  `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	Duration  string  `json:"duration" validate:"omitempty,max=50"`
	Thumbnail string  `json:"thumbnail" validate:"omitempty,max=512"`
	MinReward float64 `json:"min_reward" validate:"gte=0"`
	MaxReward float64 `json:"max_reward" validate:"gte=0"`
	Active    *bool   `json:"active"`
}

// UpdateCourseRequest represents the request body for updating a course
type UpdateCourseRequest struct {
	Title     string   `json:"title" validate:"omitempty,min=3,max=255"`
	Level     string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Duration  string   `json:"duration" validate:"omitempty,max=50"`
	Thumbnail string   `json:"thumbnail" validate:"omitempty,max=512"`
	MinReward *float64 `json:"min_reward" validate:"omitempty,gte=0"`
	MaxReward *float64 `json:"max_reward" validate:"omitempty,gte=0"`
	Active    *bool    `json:"active"`
}

// ListCourses handles GET /api/v1/courses. Inactive courses are only listed
// when include_inactive is set (admin console).
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", false)

	courses, err := h.store.ListCourses(!includeInactive)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	return response.Success(c, courses)
}

// GetCourse handles GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	course, err := h.store.GetCourse(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	lessons, err := h.store.ListLessonsByCourse(id)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch lessons")
	}
	course.Lessons = lessons

	return response.Success(c, course)
}

// CreateCourse handles POST /api/v1/courses (admin)
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.MaxReward < req.MinReward {
		return response.BadRequest(c, "max_reward must not be below min_reward")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	course := model.Course{
		Title:     validation.SanitizeString(req.Title),
		Level:     req.Level,
		Duration:  validation.SanitizeString(req.Duration),
		Thumbnail: validation.SanitizeString(req.Thumbnail),
		MinReward: req.MinReward,
		MaxReward: req.MaxReward,
		Active:    active,
	}

	if err := h.store.CreateCourse(&course); err != nil {
		return response.InternalServerError(c, "Failed to create course")
	}

	return response.Created(c, course)
}

// UpdateCourse handles PUT /api/v1/courses/:id (admin)
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	course, err := h.store.GetCourse(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to fetch course")
	}

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Title != "" {
		course.Title = validation.SanitizeString(req.Title)
	}
	if req.Level != "" {
		course.Level = req.Level
	}
	if req.Duration != "" {
		course.Duration = validation.SanitizeString(req.Duration)
	}
	if req.Thumbnail != "" {
		course.Thumbnail = validation.SanitizeString(req.Thumbnail)
	}
	if req.MinReward != nil {
		course.MinReward = *req.MinReward
	}
	if req.MaxReward != nil {
		course.MaxReward = *req.MaxReward
	}
	if req.Active != nil {
		course.Active = *req.Active
	}

	if course.MaxReward < course.MinReward {
		return response.BadRequest(c, "max_reward must not be below min_reward")
	}

	if err := h.store.UpdateCourse(course); err != nil {
		return response.InternalServerError(c, "Failed to update course")
	}

	return response.Success(c, course)
}

// DeleteCourse handles DELETE /api/v1/courses/:id (admin)
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	if err := h.store.DeleteCourse(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to delete course")
	}

	return response.NoContent(c)
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
