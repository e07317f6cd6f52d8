package model

import (
	"errors"
	"fmt"
	"time"
)

// Owner represents a person who owns one or more properties.
type Owner struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Birthday Date   `json:"birthday"`
}

// OwnerCreate holds the fields accepted when creating an owner.
type OwnerCreate struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Birthday Date   `json:"birthday"`
}

// OwnerUpdate holds a partial owner update. Empty strings and a nil birthday
// leave the stored value unchanged.
type OwnerUpdate struct {
	Name     string `json:"name,omitempty"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Birthday *Date  `json:"birthday,omitempty"`
}

// Field limits.
const (
	MaxNameLength    = 100
	MaxAddressLength = 200
)

// ErrOwnerReferenced is returned when deleting an owner that properties still point to.
var ErrOwnerReferenced = errors.New("owner is referenced by existing properties")

// Validate checks the create payload.
func (c OwnerCreate) Validate() error {
	if err := validateText("name", c.Name, MaxNameLength, true); err != nil {
		return err
	}
	if err := validateText("address", c.Address, MaxAddressLength, true); err != nil {
		return err
	}
	if err := ValidatePhone(c.Phone); err != nil {
		return err
	}
	if c.Birthday.IsZero() {
		return fmt.Errorf("birthday required")
	}
	return validateBirthday(c.Birthday)
}

// Validate checks the fields present in the update payload.
func (u OwnerUpdate) Validate() error {
	if err := validateText("name", u.Name, MaxNameLength, false); err != nil {
		return err
	}
	if err := validateText("address", u.Address, MaxAddressLength, false); err != nil {
		return err
	}
	if err := ValidatePhone(u.Phone); err != nil {
		return err
	}
	if u.Birthday != nil && !u.Birthday.IsZero() {
		return validateBirthday(*u.Birthday)
	}
	return nil
}

// Apply merges the update into o.
func (u OwnerUpdate) Apply(o *Owner) {
	if u.Name != "" {
		o.Name = u.Name
	}
	if u.Address != "" {
		o.Address = u.Address
	}
	if u.Phone != "" {
		o.Phone = u.Phone
	}
	if u.Birthday != nil && !u.Birthday.IsZero() {
		o.Birthday = *u.Birthday
	}
}

// ValidatePhone accepts an empty string or digits with common separators.
func ValidatePhone(phone string) error {
	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '+' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return fmt.Errorf("phone contains invalid character %q", r)
		}
	}
	if phone != "" && digits < 5 {
		return fmt.Errorf("phone must contain at least 5 digits")
	}
	return nil
}

func validateBirthday(d Date) error {
	if d.After(time.Now()) {
		return fmt.Errorf("birthday cannot be in the future")
	}
	return nil
}
