// Package dealer provides the Dealer catalog: suppliers that stock is
// purchased from.
package dealer

import (
	"context"
	"regexp"

	"garmentpos/internal/core/apperror"
	"garmentpos/internal/core/entity"
)

// Dealer represents a stock supplier.
type Dealer struct {
	entity.Catalog

	// ContactPerson is the primary contact at the dealer
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Phone is the dealer's contact number
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email
	Email *string `db:"email" json:"email,omitempty"`

	// Address is the dealer's postal address
	Address *string `db:"address" json:"address,omitempty"`

	// GSTNumber is the dealer's GST registration (GSTIN)
	GSTNumber *string `db:"gst_number" json:"gstNumber,omitempty"`
}

// NewDealer creates a new Dealer with required fields.
func NewDealer(code, name string) *Dealer {
	return &Dealer{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (d *Dealer) Validate(ctx context.Context) error {
	if err := d.Catalog.Validate(ctx); err != nil {
		return err
	}

	if d.Email != nil && *d.Email != "" && !isValidEmail(*d.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email").
			WithDetail("value", *d.Email)
	}

	return nil
}

func isValidEmail(email string) bool {
	return regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`).MatchString(email)
}
