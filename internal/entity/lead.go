package entity

// Lead represents a prospective client record with contact and firmographic
// data plus optional AI-derived scoring fields.
type Lead struct {
	ID              int64   `json:"id"`
	CompanyName     string  `json:"company_name"`
	Industry        string  `json:"industry"`
	Location        string  `json:"location"`
	ContactName     string  `json:"contact_name"`
	ContactEmail    string  `json:"contact_email"`
	ContactPhone    string  `json:"contact_phone"`
	Revenue         string  `json:"revenue"`
	Employees       string  `json:"employees"`
	Website         string  `json:"website"`
	Notes           string  `json:"notes"`
	AIScore         *int    `json:"ai_score"`
	AIJustification *string `json:"ai_justification"`
	AINextAction    *string `json:"ai_next_action"`
}
