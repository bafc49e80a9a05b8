package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cache is the read-through cache used for dashboard stats and site
// settings. Implementations degrade to no-ops when the backend is down.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const SiteSettingsCacheKey = "settings:site"

func UserStatsCacheKey(userID uuid.UUID) string {
	return "stats:user:" + userID.String()
}
