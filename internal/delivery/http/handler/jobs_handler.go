package handler

import (
	"net/url"
	"strings"

	"jobtrack/internal/delivery/http/dto"
	"jobtrack/internal/delivery/http/middleware"
	"jobtrack/internal/infrastructure/fetcher"
	"jobtrack/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	fetcher fetcher.PageFetcher
}

func NewJobsHandler(f fetcher.PageFetcher) *JobsHandler {
	return &JobsHandler{fetcher: f}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/fetch", h.Fetch)
}

type fetchJobRequest struct {
	URL string `json:"url"`
}

// Fetch previews a posting URL. The result is advisory; a dead page still
// returns 200 with fetch_error set so the form can be filled in manually.
func (h *JobsHandler) Fetch(c fiber.Ctx) error {
	var req fetchJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	raw := strings.TrimSpace(req.URL)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid URL", nil, err)
	}

	result := h.fetcher.Fetch(c.Context(), raw)
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobFetchResponse(result))
}
