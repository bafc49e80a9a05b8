package dto

// optional maps the domain's empty-string convention back to JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

const dateLayout = "2006-01-02"
