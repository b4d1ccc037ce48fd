package response

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePagination(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		total       int64
		want        PaginationMeta
	}{
		{"exact multiple", 1, 12, 24, PaginationMeta{Page: 1, Limit: 12, Total: 24, Pages: 2}},
		{"remainder rounds up", 3, 12, 25, PaginationMeta{Page: 3, Limit: 12, Total: 25, Pages: 3}},
		{"zero total has zero pages", 1, 12, 0, PaginationMeta{Page: 1, Limit: 12, Total: 0, Pages: 0}},
		{"out of range page is kept", 9, 12, 25, PaginationMeta{Page: 9, Limit: 12, Total: 25, Pages: 3}},
		{"large limit is not clamped", 1, 500, 1001, PaginationMeta{Page: 1, Limit: 500, Total: 1001, Pages: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculatePagination(tt.page, tt.limit, tt.total))
		})
	}
}

func TestPaginated_Envelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Paginated(c, []string{}, CalculatePagination(1, 12, 0))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, []any{}, got["data"])
	assert.Equal(t, map[string]any{"page": 1.0, "limit": 12.0, "total": 0.0, "pages": 0.0}, got["pagination"])
}

func TestServiceUnavailable_Envelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return ServiceUnavailable(c, "") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var got Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.False(t, got.Success)
	require.NotNil(t, got.Error)
	assert.Equal(t, "SERVICE_UNAVAILABLE", got.Error.Code)
}
