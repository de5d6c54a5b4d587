// Package client provides the client registry: the businesses a firm
// issues documents to or receives goods from.
package client

import (
	"context"
	"regexp"

	"bherp/internal/core/apperror"
	"bherp/internal/core/entity"
	"bherp/internal/core/id"
	"bherp/internal/domain/documents"
)

// Pre-compiled regex patterns for validation
var (
	jibRE   = regexp.MustCompile(`^\d{13}$`)
	pdvRE   = regexp.MustCompile(`^\d{12}$`)
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Client represents a business partner: customer or supplier.
type Client struct {
	entity.BaseCatalog

	// Code is the short registry identifier, unique within tenant.
	Code string `db:"code" json:"code,omitempty"`

	Name      string `db:"name" json:"name"`
	ShortName string `db:"short_name" json:"shortName,omitempty"`

	Address      string `db:"address" json:"address"`
	City         string `db:"city" json:"city"`
	Zip          string `db:"zip" json:"zip,omitempty"`
	Municipality string `db:"municipality" json:"municipality,omitempty"`
	Canton       string `db:"canton" json:"canton,omitempty"`
	Country      string `db:"country" json:"country,omitempty"`

	// JIB is the 13-digit unique business identification number.
	JIB string `db:"jib" json:"jib"`

	// PDVNumber is the 12-digit VAT registration number, empty for
	// businesses outside the VAT system.
	PDVNumber string `db:"pdv_number" json:"pdvNumber,omitempty"`

	Email         string `db:"email" json:"email,omitempty"`
	Phone         string `db:"phone" json:"phone,omitempty"`
	Web           string `db:"web" json:"web,omitempty"`
	BankAccount   string `db:"bank_account" json:"bankAccount,omitempty"`
	ContactPerson string `db:"contact_person" json:"contactPerson,omitempty"`
}

// New creates a new Client with required fields.
func New(tenantID id.ID, name, address, city, jib string) *Client {
	return &Client{
		BaseCatalog: entity.NewBaseCatalog(tenantID),
		Name:        name,
		Address:     address,
		City:        city,
		JIB:         jib,
		Country:     "Bosna i Hercegovina",
	}
}

// Validate implements entity.Validatable.
func (c *Client) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if c.JIB != "" && !jibRE.MatchString(c.JIB) {
		return apperror.NewValidation("JIB must be 13 digits").
			WithDetail("field", "jib")
	}

	if c.PDVNumber != "" && !pdvRE.MatchString(c.PDVNumber) {
		return apperror.NewValidation("PDV number must be 12 digits").
			WithDetail("field", "pdvNumber")
	}

	if c.Email != "" && !emailRE.MatchString(c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}

// IsVATRegistered reports whether the client is in the VAT system.
func (c *Client) IsVATRegistered() bool {
	return c.PDVNumber != ""
}

// Snapshot freezes the client into a document-embedded copy.
// Later registry edits never change documents issued with it.
func (c *Client) Snapshot() documents.ClientSnapshot {
	return documents.ClientSnapshot{
		ID:           c.ID,
		Name:         c.Name,
		Address:      c.Address,
		City:         c.City,
		Zip:          c.Zip,
		Municipality: c.Municipality,
		Canton:       c.Canton,
		JIB:          c.JIB,
		PDVNumber:    c.PDVNumber,
		Email:        c.Email,
		Phone:        c.Phone,
	}
}
