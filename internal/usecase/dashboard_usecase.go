package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"jobtrack/internal/domain/user"
	"jobtrack/internal/repository"

	"github.com/google/uuid"
)

type DashboardUsecase interface {
	Stats(ctx context.Context, userID uuid.UUID) (user.Stats, error)
	UpcomingInterviews(ctx context.Context, userID uuid.UUID, limit int) ([]repository.UpcomingSessionRow, error)
}

// Dashboard serves the stats ledger and the upcoming interview feed. Stats
// are read through the cache; a cache outage degrades to a database read.
type Dashboard struct {
	users  repository.UserRepository
	apps   repository.ApplicationRepository
	cache  Cache
	ttl    time.Duration
	now    func() time.Time
	logger *log.Logger
}

func NewDashboardUsecase(users repository.UserRepository, apps repository.ApplicationRepository, cache Cache, ttl time.Duration, logger *log.Logger) *Dashboard {
	return &Dashboard{users: users, apps: apps, cache: cache, ttl: ttl, now: time.Now, logger: logger}
}

func (u *Dashboard) Stats(ctx context.Context, userID uuid.UUID) (user.Stats, error) {
	key := UserStatsCacheKey(userID)

	if u.cache != nil {
		var cached user.Stats
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			u.logger.Printf("cache=get key=%s status=error err=%v", key, err)
		} else if hit {
			return cached, nil
		}
	}

	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return user.Stats{}, ErrNotFound
		}
		return user.Stats{}, err
	}
	stats := usr.Stats()

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, stats, u.ttl); err != nil {
			u.logger.Printf("cache=set key=%s status=error err=%v", key, err)
		}
	}
	return stats, nil
}

func (u *Dashboard) UpcomingInterviews(ctx context.Context, userID uuid.UUID, limit int) ([]repository.UpcomingSessionRow, error) {
	if limit < 0 || limit > 50 {
		return nil, ErrInvalidInput
	}
	return u.apps.UpcomingSessions(ctx, userID, u.now().UTC(), limit)
}

var _ DashboardUsecase = (*Dashboard)(nil)
