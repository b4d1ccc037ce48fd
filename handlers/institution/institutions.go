package institution

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

// InstitutionHandler handles institution-related requests
type InstitutionHandler struct {
	search  *services.SearchService
	detail  *services.DetailService
	timeout time.Duration
}

// NewInstitutionHandler creates a new institution handler
func NewInstitutionHandler(search *services.SearchService, detail *services.DetailService, timeout time.Duration) *InstitutionHandler {
	return &InstitutionHandler{
		search:  search,
		detail:  detail,
		timeout: timeout,
	}
}

// ListInstitutions handles GET /api/v1/institutions
//
// Query parameters: search, type, city, state, country, minRating, page, limit.
func (h *InstitutionHandler) ListInstitutions(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	result, err := h.search.SearchInstitutions(ctx, query.Params(c.Queries()))
	if err != nil {
		return handlers.RespondError(c, err, "")
	}

	return response.Paginated(c, result.Data, result.Pagination)
}

// GetInstitution handles GET /api/v1/institutions/:id
func (h *InstitutionHandler) GetInstitution(c *fiber.Ctx) error {
	id := validation.SanitizeString(c.Params("id"))
	if id == "" {
		return response.BadRequest(c, "Institution id is required")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	detail, err := h.detail.GetInstitution(ctx, id)
	if err != nil {
		return handlers.RespondError(c, err, "Institution not found")
	}

	return response.Success(c, detail)
}
