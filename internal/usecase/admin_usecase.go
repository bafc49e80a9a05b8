package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"jobtrack/internal/domain/user"
	"jobtrack/internal/repository"

	"github.com/google/uuid"
)

const (
	settingSiteName        = "site_name"
	settingMaintenanceMode = "maintenance_mode"

	defaultSiteName = "Job Application Tracker"
)

type SiteSettings struct {
	SiteName        string
	MaintenanceMode bool
}

// SiteSettingsPatch updates only the provided fields.
type SiteSettingsPatch struct {
	SiteName        *string
	MaintenanceMode *bool
}

type UserFlagsPatch struct {
	IsAdmin  *bool
	IsActive *bool
}

type AdminUsecase interface {
	Settings(ctx context.Context) (SiteSettings, error)
	UpdateSettings(ctx context.Context, patch SiteSettingsPatch) (SiteSettings, error)
	ListUsers(ctx context.Context, skip, limit int) ([]user.User, error)
	SetUserFlags(ctx context.Context, id uuid.UUID, patch UserFlagsPatch) (user.User, error)
}

type Admin struct {
	settings repository.SettingsRepository
	users    repository.UserRepository
	cache    Cache
	ttl      time.Duration
	logger   *log.Logger
}

func NewAdminUsecase(settings repository.SettingsRepository, users repository.UserRepository, cache Cache, ttl time.Duration, logger *log.Logger) *Admin {
	return &Admin{settings: settings, users: users, cache: cache, ttl: ttl, logger: logger}
}

func (u *Admin) Settings(ctx context.Context) (SiteSettings, error) {
	if u.cache != nil {
		var cached SiteSettings
		hit, err := u.cache.GetJSON(ctx, SiteSettingsCacheKey, &cached)
		if err != nil {
			u.logger.Printf("cache=get key=%s status=error err=%v", SiteSettingsCacheKey, err)
		} else if hit {
			return cached, nil
		}
	}

	out, err := u.loadSettings(ctx)
	if err != nil {
		return SiteSettings{}, err
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, SiteSettingsCacheKey, out, u.ttl); err != nil {
			u.logger.Printf("cache=set key=%s status=error err=%v", SiteSettingsCacheKey, err)
		}
	}
	return out, nil
}

func (u *Admin) UpdateSettings(ctx context.Context, patch SiteSettingsPatch) (SiteSettings, error) {
	if patch.SiteName != nil {
		name := strings.TrimSpace(*patch.SiteName)
		if name == "" {
			return SiteSettings{}, ErrInvalidInput
		}
		if err := u.settings.Set(ctx, settingSiteName, name); err != nil {
			return SiteSettings{}, err
		}
	}
	if patch.MaintenanceMode != nil {
		v := "false"
		if *patch.MaintenanceMode {
			v = "true"
		}
		if err := u.settings.Set(ctx, settingMaintenanceMode, v); err != nil {
			return SiteSettings{}, err
		}
		u.logger.Printf("admin=maintenance_mode value=%s", v)
	}

	if u.cache != nil {
		if err := u.cache.Delete(ctx, SiteSettingsCacheKey); err != nil {
			u.logger.Printf("cache=delete key=%s status=error err=%v", SiteSettingsCacheKey, err)
		}
	}
	return u.loadSettings(ctx)
}

func (u *Admin) ListUsers(ctx context.Context, skip, limit int) ([]user.User, error) {
	if skip < 0 || limit < 0 {
		return nil, ErrInvalidInput
	}
	return u.users.List(ctx, skip, limit)
}

func (u *Admin) SetUserFlags(ctx context.Context, id uuid.UUID, patch UserFlagsPatch) (user.User, error) {
	if patch.IsAdmin == nil && patch.IsActive == nil {
		return user.User{}, ErrInvalidInput
	}
	usr, err := u.users.SetFlags(ctx, id, repository.UserFlagsUpdate{IsAdmin: patch.IsAdmin, IsActive: patch.IsActive})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, err
	}
	return usr, nil
}

func (u *Admin) loadSettings(ctx context.Context) (SiteSettings, error) {
	out := SiteSettings{SiteName: defaultSiteName}

	if v, ok, err := u.settings.Get(ctx, settingSiteName); err != nil {
		return SiteSettings{}, err
	} else if ok && strings.TrimSpace(v) != "" {
		out.SiteName = v
	}

	if v, ok, err := u.settings.Get(ctx, settingMaintenanceMode); err != nil {
		return SiteSettings{}, err
	} else if ok {
		out.MaintenanceMode = v == "true"
	}
	return out, nil
}

var _ AdminUsecase = (*Admin)(nil)
