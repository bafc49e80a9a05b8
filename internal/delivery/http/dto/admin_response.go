package dto

import "jobtrack/internal/usecase"

type SiteSettingsResponse struct {
	SiteName        string `json:"site_name"`
	MaintenanceMode bool   `json:"maintenance_mode"`
}

func NewSiteSettingsResponse(s usecase.SiteSettings) SiteSettingsResponse {
	return SiteSettingsResponse{SiteName: s.SiteName, MaintenanceMode: s.MaintenanceMode}
}
