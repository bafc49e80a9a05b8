package usecase

import (
	"context"
	"strings"

	"jobtrack/internal/domain/application"
	"jobtrack/internal/repository"

	"github.com/google/uuid"
)

type ListApplicationsParams struct {
	Status string
	Search string
	Sort   string
}

type ApplicationListingUsecase interface {
	List(ctx context.Context, userID uuid.UUID, params ListApplicationsParams) ([]repository.ApplicationListRow, error)
}

type ApplicationListing struct {
	apps repository.ApplicationRepository
}

func NewApplicationListingUsecase(apps repository.ApplicationRepository) *ApplicationListing {
	return &ApplicationListing{apps: apps}
}

// List rejects unknown status values instead of silently returning an
// unfiltered result. Sort accepts "applied_at" ascending via "asc"; anything
// else falls back to newest first.
func (u *ApplicationListing) List(ctx context.Context, userID uuid.UUID, params ListApplicationsParams) ([]repository.ApplicationListRow, error) {
	var filter repository.ApplicationListFilter

	if s := strings.TrimSpace(params.Status); s != "" {
		status, ok := application.ParseStatus(s)
		if !ok {
			return nil, ErrInvalidInput
		}
		filter.Status = status
	}
	filter.Search = strings.TrimSpace(params.Search)
	filter.SortAsc = strings.EqualFold(strings.TrimSpace(params.Sort), "asc")

	return u.apps.List(ctx, userID, filter)
}

var _ ApplicationListingUsecase = (*ApplicationListing)(nil)
