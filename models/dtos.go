package models

// Navigation carries the optional drill-down ids a staff user clicked through
// plus an orthogonal department filter. All fields are optional.
type Navigation struct {
	ProvinceID   *int64
	DistrictID   *int64
	TehsilID     *int64
	DepartmentID *int64
}

// EffectiveScope is the non-bypassable data-visibility filter produced by the
// scope resolver. It is always at least as restrictive as the caller's
// jurisdiction binding.
type EffectiveScope struct {
	ProvinceID   *int64
	DistrictID   *int64
	TehsilID     *int64
	DepartmentID *int64
}

// ViewLevel is which layer of the hierarchy a dashboard response renders.
type ViewLevel string

const (
	ViewProvinces ViewLevel = "provinces"
	ViewDistricts ViewLevel = "districts"
	ViewTehsils   ViewLevel = "tehsils"
	ViewTickets   ViewLevel = "tickets"
)

// Totals are the headline counters, always computed over the full
// scope-filtered set regardless of the active view level.
type Totals struct {
	Total          int     `json:"total"`
	Resolved       int     `json:"resolved"`
	Pending        int     `json:"pending"`
	Important      int     `json:"important"`
	ResolutionRate float64 `json:"resolution_rate"`
}

// RegionStat is one row of a region-level rollup.
type RegionStat struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Total          int     `json:"total"`
	Resolved       int     `json:"resolved"`
	Pending        int     `json:"pending"`
	Important      int     `json:"important"`
	ResolutionRate float64 `json:"resolution_rate"`
}

// TicketRecord is one leaf row of the Tickets view, with region and category
// names resolved for display.
type TicketRecord struct {
	Complaint
	ProvinceName string `json:"province_name"`
	DistrictName string `json:"district_name"`
	TehsilName   string `json:"tehsil_name"`
	CategoryName string `json:"category_name"`
}

// DashboardResult is the dashboard response: headline totals plus either a
// region breakdown or a flat ticket list, never both.
type DashboardResult struct {
	Title     string         `json:"title"`
	Role      Role           `json:"role"`
	ViewLevel ViewLevel      `json:"view_level"`
	Totals    Totals         `json:"totals"`
	Regions   []RegionStat   `json:"regions,omitempty"`
	Tickets   []TicketRecord `json:"tickets,omitempty"`
}

// DepartmentStat is a per-department (parent category) rollup.
type DepartmentStat struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Total             int     `json:"total"`
	Resolved          int     `json:"resolved"`
	ResolutionRate    float64 `json:"resolution_rate"`
	PercentageOfTotal float64 `json:"percentage_of_total"`
}

// CategoryStat is a per-sub-category rollup.
type CategoryStat struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	DepartmentName    string  `json:"department_name"`
	Total             int     `json:"total"`
	Resolved          int     `json:"resolved"`
	ResolutionRate    float64 `json:"resolution_rate"`
	PercentageOfTotal float64 `json:"percentage_of_total"`
}

// TimeSeriesPoint is one month of the trailing-12-month series. Months with
// no complaints in range are omitted, not zero-filled.
type TimeSeriesPoint struct {
	Period         string  `json:"period"`
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	Total          int     `json:"total"`
	Resolved       int     `json:"resolved"`
	Pending        int     `json:"pending"`
	ResolutionRate float64 `json:"resolution_rate"`
}

// PeakPeriod is one hour-of-day or day-of-week bucket. Percentage is of the
// whole filtered set, not the listed subset.
type PeakPeriod struct {
	Period     string  `json:"period"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AnalyticsReport is the full multi-dimensional report for the caller's own
// jurisdiction level.
type AnalyticsReport struct {
	Title                 string            `json:"title"`
	Role                  Role              `json:"role"`
	Totals                Totals            `json:"totals"`
	AverageResolutionDays float64           `json:"average_resolution_days"`
	StatusDistribution    map[string]int    `json:"status_distribution"`
	PriorityDistribution  map[string]int    `json:"priority_distribution"`
	TopProvinces          []RegionStat      `json:"top_provinces,omitempty"`
	TopDistricts          []RegionStat      `json:"top_districts,omitempty"`
	TopTehsils            []RegionStat      `json:"top_tehsils,omitempty"`
	TopDepartments        []DepartmentStat  `json:"top_departments"`
	TopCategories         []CategoryStat    `json:"top_categories"`
	ComplaintsByMonth     []TimeSeriesPoint `json:"complaints_by_month"`
	PeakHours             []PeakPeriod      `json:"peak_hours"`
	PeakDays              []PeakPeriod      `json:"peak_days"`
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// SubmitRecordRequest is the citizen submission payload for a complaint or
// suggestion.
type SubmitRecordRequest struct {
	Subject        string  `json:"subject"`
	Description    string  `json:"description"`
	SubCategoryID  int64   `json:"sub_category_id"`
	ProvinceID     int64   `json:"province_id"`
	DistrictID     int64   `json:"district_id"`
	TehsilID       int64   `json:"tehsil_id"`
	AttachmentPath *string `json:"attachment_path,omitempty"`
}

// ChangeStatusRequest is the staff status-transition payload.
type ChangeStatusRequest struct {
	NewStatus      string  `json:"new_status"`
	Note           *string `json:"note,omitempty"`
	AttachmentPath *string `json:"attachment_path,omitempty"`
}

// ToggleImportanceRequest sets the importance flag to a desired value
// (idempotent).
type ToggleImportanceRequest struct {
	Important bool `json:"important"`
}

// AddCommentRequest appends a message to the record's log thread. Internal
// notes are staff-only.
type AddCommentRequest struct {
	Message  string `json:"message"`
	Internal bool   `json:"internal"`
}
