package models

import "time"

// CompanyStatus is the pipeline stage of a company
type CompanyStatus string

const (
	StatusNotToContact   CompanyStatus = "NOT_TO_CONTACT"
	StatusToContact      CompanyStatus = "TO_CONTACT"
	StatusContacted      CompanyStatus = "CONTACTED"
	StatusFirstFollowup  CompanyStatus = "FIRST_FOLLOWUP"
	StatusSecondFollowup CompanyStatus = "SECOND_FOLLOWUP"
	StatusThirdFollowup  CompanyStatus = "THIRD_FOLLOWUP"
	StatusInDiscussion   CompanyStatus = "IN_DISCUSSION"
	StatusComing         CompanyStatus = "COMING"
	StatusNotComing      CompanyStatus = "NOT_COMING"
	StatusNextYear       CompanyStatus = "NEXT_YEAR"
)

// Company represents a prospect/exhibitor record
// Field order matches schema: id, name, contact_name, contact_email, phone, status, ...
type Company struct {
	ID            string        `json:"id" db:"id"`
	Name          string        `json:"name" db:"name"`
	ContactName   string        `json:"contact_name,omitempty" db:"contact_name"`
	ContactEmail  string        `json:"contact_email,omitempty" db:"contact_email"`
	Phone         string        `json:"phone,omitempty" db:"phone"`
	Status        CompanyStatus `json:"status" db:"status"`
	BoothNumber   string        `json:"booth_number,omitempty" db:"booth_number"`
	BoothLocation string        `json:"booth_location,omitempty" db:"booth_location"`
	BoothSize     string        `json:"booth_size,omitempty" db:"booth_size"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time    `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CreateCompanyRequest is the request body for creating a company
type CreateCompanyRequest struct {
	Name          string        `json:"name" validate:"required"`
	ContactName   string        `json:"contact_name,omitempty"`
	ContactEmail  string        `json:"contact_email,omitempty" validate:"omitempty,email"`
	Phone         string        `json:"phone,omitempty"`
	Status        CompanyStatus `json:"status,omitempty"`
	BoothNumber   string        `json:"booth_number,omitempty"`
	BoothLocation string        `json:"booth_location,omitempty"`
	BoothSize     string        `json:"booth_size,omitempty"`
}

// UpdateCompanyRequest is the request body for updating a company
type UpdateCompanyRequest struct {
	Name          *string        `json:"name,omitempty"`
	ContactName   *string        `json:"contact_name,omitempty"`
	ContactEmail  *string        `json:"contact_email,omitempty" validate:"omitempty,email"`
	Phone         *string        `json:"phone,omitempty"`
	Status        *CompanyStatus `json:"status,omitempty"`
	BoothNumber   *string        `json:"booth_number,omitempty"`
	BoothLocation *string        `json:"booth_location,omitempty"`
	BoothSize     *string        `json:"booth_size,omitempty"`
}

// CompanyListResponse is the response for listing companies
type CompanyListResponse struct {
	Items      []Company `json:"items"`
	TotalCount int       `json:"total_count"`
}
