package dto

import "jobtrack/internal/infrastructure/fetcher"

type JobFetchResponse struct {
	Title        *string `json:"title"`
	Company      *string `json:"company"`
	Description  *string `json:"description"`
	SourceDomain *string `json:"source_domain"`
	FetchError   *string `json:"fetch_error"`
}

func NewJobFetchResponse(r fetcher.Result) JobFetchResponse {
	return JobFetchResponse{
		Title:        optional(r.Title),
		Company:      optional(r.Company),
		Description:  optional(r.Description),
		SourceDomain: optional(r.SourceDomain),
		FetchError:   optional(r.FetchError),
	}
}
