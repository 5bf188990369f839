package model

import (
	"database/sql"
	"time"

	apimodel "gitlab.com/dirk.krummacker/contact-requests-service/pkg/model"
)

// Columns lists the columns of the contact_requests table in the order of the ContactRequest
// fields.
const Columns = "id, first_name, last_name, email, company, company_size, country, " +
	"additional_info, source, status, admin_notes, created_at, updated_at"

// ContactRequest is a row of the contact_requests table.
// Additional info and admin notes are the only nullable columns.
type ContactRequest struct {
	Id             string         `db:"id"`
	FirstName      string         `db:"first_name"`
	LastName       string         `db:"last_name"`
	Email          string         `db:"email"`
	Company        string         `db:"company"`
	CompanySize    string         `db:"company_size"`
	Country        string         `db:"country"`
	AdditionalInfo sql.NullString `db:"additional_info"`
	Source         string         `db:"source"`
	Status         string         `db:"status"`
	AdminNotes     sql.NullString `db:"admin_notes"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// NewContactRequest builds the row for a fresh submission with status 'new'.
func NewContactRequest(id string, s apimodel.Submission, now time.Time) ContactRequest {
	return ContactRequest{
		Id:             id,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Email:          s.Email,
		Company:        s.Company,
		CompanySize:    string(s.CompanySize),
		Country:        string(s.Country),
		AdditionalInfo: nullString(s.AdditionalInfo),
		Source:         s.Source,
		Status:         string(apimodel.StatusNew),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// API converts the row into the representation returned by the REST API.
func (c ContactRequest) API() apimodel.ContactRequest {
	return apimodel.ContactRequest{
		Id: c.Id,
		Submission: apimodel.Submission{
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			Email:          c.Email,
			Company:        c.Company,
			CompanySize:    apimodel.CompanySize(c.CompanySize),
			Country:        apimodel.Country(c.Country),
			AdditionalInfo: c.AdditionalInfo.String,
			Source:         c.Source,
		},
		Status:     apimodel.Status(c.Status),
		AdminNotes: c.AdminNotes.String,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// GroupCount is one row of a GROUP BY ... COUNT(*) query.
type GroupCount struct {
	Name  string `db:"name"`
	Total int    `db:"total"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
