package course

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/edu-directory/handlers"
	"github.com/sahilchouksey/edu-directory/query"
	"github.com/sahilchouksey/edu-directory/services"
	"github.com/sahilchouksey/edu-directory/utils/response"
	"github.com/sahilchouksey/edu-directory/utils/validation"
)

// CourseHandler handles course-related requests
type CourseHandler struct {
	search  *services.SearchService
	detail  *services.DetailService
	timeout time.Duration
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(search *services.SearchService, detail *services.DetailService, timeout time.Duration) *CourseHandler {
	return &CourseHandler{
		search:  search,
		detail:  detail,
		timeout: timeout,
	}
}

// ListCourses handles GET /api/v1/courses
//
// Query parameters: search, level, format, institutionId, minRating, maxTuition, page, limit.
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	result, err := h.search.SearchCourses(ctx, query.Params(c.Queries()))
	if err != nil {
		return handlers.RespondError(c, err, "")
	}

	return response.Paginated(c, result.Data, result.Pagination)
}

// GetCourse handles GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id := validation.SanitizeString(c.Params("id"))
	if id == "" {
		return response.BadRequest(c, "Course id is required")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	detail, err := h.detail.GetCourse(ctx, id)
	if err != nil {
		return handlers.RespondError(c, err, "Course not found")
	}

	return response.Success(c, detail)
}
