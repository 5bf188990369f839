package model

import (
	"fmt"
	"time"
)

// Submission is the request body of a contact request as it is sent by the demo form. The binding
// rules are evaluated by gin when the service parses the body.
type Submission struct {
	FirstName      string      `json:"firstName"      binding:"required,max=100"`
	LastName       string      `json:"lastName"       binding:"required,max=100"`
	Email          string      `json:"email"          binding:"required,email,max=254"`
	Company        string      `json:"company"        binding:"required,max=200"`
	CompanySize    CompanySize `json:"companySize"    binding:"required"`
	Country        Country     `json:"country"        binding:"required"`
	AdditionalInfo string      `json:"additionalInfo" binding:"max=5000"`
	Source         string      `json:"source"         binding:"max=50"`
}

// ContactRequest is a stored submission together with its id, processing status and timestamps.
type ContactRequest struct {
	Id string `json:"id"`
	Submission
	Status     Status    `json:"status"`
	AdminNotes string    `json:"adminNotes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FullName joins first and last name.
func (c ContactRequest) FullName() string {
	return c.FirstName + " " + c.LastName
}

// String returns the one line summary used in lists: name, company and day of submission.
func (c ContactRequest) String() string {
	return fmt.Sprintf("%s - %s (%s)", c.FullName(), c.Company, c.CreatedAt.Format(time.DateOnly))
}

// Response is the envelope for answers that carry a single value.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// ListResponse is the envelope for a page of contact requests.
type ListResponse struct {
	Success bool             `json:"success"`
	Data    []ContactRequest `json:"data"`
	Count   int              `json:"count"`
}

// ErrorResponse is the body of every 4xx and 5xx answer.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Stats aggregates the stored contact requests. Every known status is present in ByStatus, even
// with a count of zero.
type Stats struct {
	Total         int                 `json:"total"`
	ByStatus      map[Status]int      `json:"byStatus"`
	ByCompanySize map[CompanySize]int `json:"byCompanySize"`
	ByCountry     map[Country]int     `json:"byCountry"`
}

// StatusUpdate is the body of a PATCH request. Only the non-nil fields are changed.
type StatusUpdate struct {
	Status     *Status `json:"status,omitempty"`
	AdminNotes *string `json:"adminNotes,omitempty" binding:"omitempty,max=5000"`
}

// BulkStatusUpdate moves several contact requests to the same status.
type BulkStatusUpdate struct {
	Ids    []string `json:"ids"    binding:"required,min=1,max=500"`
	Status Status   `json:"status" binding:"required"`
}

// BulkStatusResult reports how many rows a bulk status change touched.
type BulkStatusResult struct {
	Updated int64 `json:"updated"`
}
