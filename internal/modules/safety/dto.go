package safety

type CreateReportRequest struct {
	Location    string   `json:"location" validate:"required"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Severity    string   `json:"severity" validate:"required,oneof=low moderate high critical"`
}

type UpdateReportRequest struct {
	Location    *string  `json:"location,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Category    *string  `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Severity    *string  `json:"severity,omitempty" validate:"omitempty,oneof=low moderate high critical"`
}
