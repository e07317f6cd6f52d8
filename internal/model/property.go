package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Property represents a real-estate listing. OwnerID references an Owner but
// is not checked by the store.
type Property struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"idOwner"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	Year         int             `json:"year"`
	CodeInternal int             `json:"codeInternal"`
}

// PropertyView is a property enriched with its owner's display name.
type PropertyView struct {
	Property
	OwnerName string `json:"ownerName"`
}

// OwnerNotFoundName is shown in place of an owner name when the referenced
// owner no longer exists.
const OwnerNotFoundName = "owner not found"

// PropertyCreate holds the fields accepted when creating a property.
// The internal code is assigned by the server.
type PropertyCreate struct {
	Name    string          `json:"name"`
	Address string          `json:"address"`
	Price   decimal.Decimal `json:"price"`
	OwnerID string          `json:"idOwner"`
	Image   string          `json:"image"`
	Year    int             `json:"year"`
}

// PropertyUpdate holds a partial property update. Empty strings and nil
// values leave the stored value unchanged. Owner and internal code cannot
// be changed.
type PropertyUpdate struct {
	Name    string           `json:"name,omitempty"`
	Address string           `json:"address,omitempty"`
	Price   *decimal.Decimal `json:"price,omitempty"`
	Image   string           `json:"image,omitempty"`
	Year    *int             `json:"year,omitempty"`
}

// Year bounds.
const (
	MinYear = 1900
	MaxYear = 2100
)

// PriceScale is the number of fractional digits a price may carry.
const PriceScale = 4

// MaxPrice is the largest accepted price. Stored prices are int64 counts of
// 10^-PriceScale units.
var MaxPrice = decimal.New(9, 14)

// ErrDuplicateCode is returned by stores when an internal code is already taken.
var ErrDuplicateCode = errors.New("internal code already in use")

// Validate checks the create payload. A zero year is accepted here and
// replaced with the current year by the service.
func (c PropertyCreate) Validate() error {
	if err := validateText("name", c.Name, MaxNameLength, true); err != nil {
		return err
	}
	if err := validateText("address", c.Address, MaxAddressLength, true); err != nil {
		return err
	}
	if err := ValidatePrice(c.Price); err != nil {
		return err
	}
	if strings.TrimSpace(c.OwnerID) == "" {
		return fmt.Errorf("idOwner required")
	}
	if err := ValidateImage(c.Image); err != nil {
		return err
	}
	if c.Year != 0 {
		return ValidateYear(c.Year)
	}
	return nil
}

// Validate checks the fields present in the update payload.
func (u PropertyUpdate) Validate() error {
	if err := validateText("name", u.Name, MaxNameLength, false); err != nil {
		return err
	}
	if err := validateText("address", u.Address, MaxAddressLength, false); err != nil {
		return err
	}
	if u.Price != nil {
		if err := ValidatePrice(*u.Price); err != nil {
			return err
		}
	}
	if err := ValidateImage(u.Image); err != nil {
		return err
	}
	if u.Year != nil {
		return ValidateYear(*u.Year)
	}
	return nil
}

// Apply merges the update into p.
func (u PropertyUpdate) Apply(p *Property) {
	if u.Name != "" {
		p.Name = u.Name
	}
	if u.Address != "" {
		p.Address = u.Address
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Image != "" {
		p.Image = u.Image
	}
	if u.Year != nil {
		p.Year = *u.Year
	}
}

// ValidatePrice checks that a price is non-negative and representable at PriceScale.
func ValidatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if p.GreaterThan(MaxPrice) {
		return fmt.Errorf("price cannot exceed %s", MaxPrice)
	}
	if !p.Equal(p.Truncate(PriceScale)) {
		return fmt.Errorf("price supports at most %d decimal places", PriceScale)
	}
	return nil
}

// ValidateYear checks the construction year range.
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("year must be between %d and %d", MinYear, MaxYear)
	}
	return nil
}

// ValidateImage accepts an empty string, an absolute http(s) URL or a
// server-relative path.
func ValidateImage(image string) error {
	if image == "" {
		return nil
	}
	u, err := url.Parse(image)
	if err != nil {
		return fmt.Errorf("image must be a valid URL")
	}
	if strings.HasPrefix(image, "/") && u.Host == "" {
		return nil
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("image must be an http or https URL")
	}
	return nil
}

func validateText(field, value string, max int, required bool) error {
	if strings.TrimSpace(value) == "" {
		if required {
			return fmt.Errorf("%s required", field)
		}
		// Optional fields may be omitted, but not set to whitespace.
		if value != "" {
			return fmt.Errorf("%s cannot be blank", field)
		}
	}
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s must be at most %d characters", field, max)
	}
	return nil
}
