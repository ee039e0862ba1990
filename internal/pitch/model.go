// Package pitch accepts startup pitch submissions with an optional
// proposal document.
package pitch

import "time"

// Pitch is a stored submission.
type Pitch struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	CompanyName        string    `json:"company_name"`
	Sector             string    `json:"sector"`
	InvestmentRequired string    `json:"investment_required"`
	Email              string    `json:"email"`
	ContactNumber      string    `json:"contact_number"`
	PitchSummary       string    `json:"pitch_summary"`
	ProposalFileURL    string    `json:"proposal_file_url"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Submission holds the form fields of a pitch.
type Submission struct {
	Name               string `form:"name" validate:"required,min=2,max=100"`
	CompanyName        string `form:"company_name" validate:"required,min=2,max=150"`
	Sector             string `form:"sector" validate:"required,min=2,max=100"`
	InvestmentRequired string `form:"investment_required" validate:"required,min=2,max=50"`
	Email              string `form:"email" validate:"required,email"`
	ContactNumber      string `form:"contact_number" validate:"required,min=8,max=15"`
	PitchSummary       string `form:"pitch_summary" validate:"required,min=10,max=2000"`
}

// File is an uploaded proposal document.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// SizeLabel renders the file size the way operator emails show it.
func (f *File) SizeLabel() string {
	return formatKB(len(f.Data))
}
