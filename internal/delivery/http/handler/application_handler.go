package handler

import (
	"errors"
	"time"

	"jobtrack/internal/delivery/http/dto"
	"jobtrack/internal/delivery/http/middleware"
	"jobtrack/internal/domain/application"
	"jobtrack/internal/domain/job"
	"jobtrack/internal/pkg/response"
	"jobtrack/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type ApplicationHandler struct {
	lifecycle usecase.ApplicationLifecycleUsecase
	listing   usecase.ApplicationListingUsecase
}

func NewApplicationHandler(lifecycle usecase.ApplicationLifecycleUsecase, listing usecase.ApplicationListingUsecase) *ApplicationHandler {
	return &ApplicationHandler{lifecycle: lifecycle, listing: listing}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("", h.List)
	r.Post("", h.Create)
	r.Get("/:id", h.Get)
	r.Patch("/:id", h.Update)
	r.Delete("/:id", h.Delete)

	r.Post("/:id/sessions", h.CreateSession)
	r.Patch("/:id/sessions/:sessionId", h.UpdateSession)
	r.Delete("/:id/sessions/:sessionId", h.DeleteSession)
}

type createApplicationRequest struct {
	SourceURL    string  `json:"source_url"`
	AppliedAt    string  `json:"applied_at"`
	Status       string  `json:"status"`
	Title        *string `json:"title"`
	Company      *string `json:"company"`
	Description  *string `json:"description"`
	SourceDomain *string `json:"source_domain"`
}

func (h *ApplicationHandler) Create(c fiber.Ctx) error {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req createApplicationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	in := usecase.CreateApplicationInput{
		SourceURL: req.SourceURL,
		JobFields: job.Fields{
			Title:        req.Title,
			Company:      req.Company,
			Description:  req.Description,
			SourceDomain: req.SourceDomain,
		},
	}

	if req.AppliedAt != "" {
		t, err := time.Parse(dateLayout, req.AppliedAt)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid applied_at date", nil, err)
		}
		in.AppliedAt = &t
	}
	if req.Status != "" {
		status, ok := application.ParseStatus(req.Status)
		if !ok {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid status", nil, nil)
		}
		in.Status = &status
	}

	detail, err := h.lifecycle.Create(c.Context(), usr.ID, in)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewApplicationResponse(detail))
}

func (h *ApplicationHandler) List(c fiber.Ctx) error {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	rows, err := h.listing.List(c.Context(), usr.ID, usecase.ListApplicationsParams{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	})
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationListResponse(rows))
}

func (h *ApplicationHandler) Get(c fiber.Ctx) error {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
	}

	detail, err := h.lifecycle.Get(c.Context(), usr.ID, id)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(detail))
}

type updateApplicationRequest struct {
	AppliedAt *string `json:"applied_at"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`

	Title        *string `json:"title"`
	Company      *string `json:"company"`
	Description  *string `json:"description"`
	Location     *string `json:"location"`
	SourceDomain *string `json:"source_domain"`
}

func (h *ApplicationHandler) Update(c fiber.Ctx) error {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
	}

	var req updateApplicationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	in := usecase.UpdateApplicationInput{
		Notes: req.Notes,
		JobFields: job.Fields{
			Title:        req.Title,
			Company:      req.Company,
			Description:  req.Description,
			Location:     req.Location,
			SourceDomain: req.SourceDomain,
		},
	}
	if req.AppliedAt != nil {
		t, err := time.Parse(dateLayout, *req.AppliedAt)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid applied_at date", nil, err)
		}
		in.AppliedAt = &t
	}
	if req.Status != nil {
		status, ok := application.ParseStatus(*req.Status)
		if !ok {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid status", nil, nil)
		}
		in.Status = &status
	}

	detail, err := h.lifecycle.Update(c.Context(), usr.ID, id, in)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(detail))
}

func (h *ApplicationHandler) Delete(c fiber.Ctx) error {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
	}

	if err := h.lifecycle.Delete(c.Context(), usr.ID, id); err != nil {
		return mapApplicationError(err)
	}
	return response.NoContent(c)
}

type createSessionRequest struct {
	Name        string     `json:"name"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	SortOrder   *int       `json:"sort_order"`
	Notes       string     `json:"notes"`
}

func (h *ApplicationHandler) CreateSession(c fiber.Ctx) error {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
	}

	var req createSessionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	in := usecase.CreateSessionInput{
		Name:        req.Name,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	}
	if req.SortOrder != nil {
		in.SortOrder = *req.SortOrder
	}

	s, err := h.lifecycle.AddSession(c.Context(), usr.ID, appID, in)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewInterviewSessionResponse(s))
}

type updateSessionRequest struct {
	Name        *string    `json:"name"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	SortOrder   *int       `json:"sort_order"`
	Notes       *string    `json:"notes"`
}

func (h *ApplicationHandler) UpdateSession(c fiber.Ctx) error {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Session not found", nil, err)
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Session not found", nil, err)
	}

	var req updateSessionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	s, err := h.lifecycle.UpdateSession(c.Context(), usr.ID, appID, sessionID, usecase.UpdateSessionInput{
		Name:        req.Name,
		ScheduledAt: req.ScheduledAt,
		SortOrder:   req.SortOrder,
		Notes:       req.Notes,
	})
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewInterviewSessionResponse(s))
}

func (h *ApplicationHandler) DeleteSession(c fiber.Ctx) error {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Session not found", nil, err)
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Session not found", nil, err)
	}

	if err := h.lifecycle.DeleteSession(c.Context(), usr.ID, appID, sessionID); err != nil {
		return mapApplicationError(err)
	}
	return response.NoContent(c)
}

func mapApplicationError(err error) error {
	if err == nil {
		return nil
	}

	var activeErr *usecase.ActiveApplicationError
	switch {
	case errors.As(err, &activeErr):
		var data interface{}
		if activeErr.ExistingID != uuid.Nil {
			data = map[string]any{"existing_application_id": activeErr.ExistingID}
		}
		return middleware.NewAppError(
			fiber.StatusConflict,
			"You already have an active application for this job (Applied or In progress). Update the existing one or set its status to Done/Rejected first.",
			data, err,
		)
	case errors.Is(err, usecase.ErrApplicationClosed):
		return middleware.NewAppError(fiber.StatusBadRequest, "Interview sessions can only be added when status is Applied or In progress", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
