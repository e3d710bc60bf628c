package dto

// ListFilter contains query parameters for the lead listing endpoint.
type ListFilter struct {
	Industry string
	Location string
	MinScore *int
}

// CreateLeadRequest is the payload for creating a single lead.
type CreateLeadRequest struct {
	CompanyName  string `json:"company_name"`
	Industry     string `json:"industry"`
	Location     string `json:"location"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Revenue      string `json:"revenue"`
	Employees    string `json:"employees"`
	Website      string `json:"website"`
	Notes        string `json:"notes"`
}

// UploadResponse reports the outcome of a CSV import.
type UploadResponse struct {
	Message    string `json:"message"`
	LeadsAdded int    `json:"leads_added"`
}

// FilterOptions lists the distinct values available for lead filtering.
type FilterOptions struct {
	Industries []string `json:"industries"`
	Locations  []string `json:"locations"`
}

// ScoreResponse is the result of running the scoring pipeline for a lead.
type ScoreResponse struct {
	LeadID          int64  `json:"lead_id"`
	Score           int    `json:"score"`
	Justification   string `json:"justification"`
	NextAction      string `json:"next_action"`
	WebsiteAnalyzed bool   `json:"website_analyzed"`
}
