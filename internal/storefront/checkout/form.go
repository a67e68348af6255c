// Package checkout validates the delivery form and submits the cart as an
// order.
package checkout

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

const (
	FieldName    = "customer_name"
	FieldAddress = "customer_address"
	FieldPhone   = "customer_phone"
	FieldItems   = "items"
)

var phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)

// MaxLen is the longest accepted value per field, in characters.
var MaxLen = map[string]int{
	FieldName:    domain.MaxCustomerNameLen,
	FieldAddress: domain.MaxCustomerAddressLen,
	FieldPhone:   domain.MaxCustomerPhoneLen,
}

type Form struct {
	Name    string
	Address string
	Phone   string
}

// Validate returns nil when every field passes, otherwise a ValidationError
// carrying one detail per failing field.
func (f Form) Validate() *apperrors.ValidationError {
	var details []apperrors.ValidationDetail
	add := func(field, message string) {
		details = append(details, apperrors.ValidationDetail{Field: field, Message: message})
	}

	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		add(FieldName, "Name is required")
	case tooLong(FieldName, name):
		add(FieldName, lengthMessage("Name", FieldName))
	}

	address := strings.TrimSpace(f.Address)
	switch {
	case address == "":
		add(FieldAddress, "Address is required")
	case tooLong(FieldAddress, address):
		add(FieldAddress, lengthMessage("Address", FieldAddress))
	}

	phone := strings.TrimSpace(f.Phone)
	switch {
	case phone == "":
		add(FieldPhone, "Phone number is required")
	case !phonePattern.MatchString(phone):
		add(FieldPhone, "Invalid phone number format")
	case tooLong(FieldPhone, phone):
		add(FieldPhone, lengthMessage("Phone number", FieldPhone))
	}

	if len(details) == 0 {
		return nil
	}
	return apperrors.NewValidationError("invalid checkout form", details...)
}

func tooLong(field, value string) bool {
	return utf8.RuneCountInString(value) > MaxLen[field]
}

func lengthMessage(label, field string) string {
	return label + " must be at most " + strconv.Itoa(MaxLen[field]) + " characters"
}

// Value returns the form value for a field name.
func (f Form) Value(field string) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldAddress:
		return f.Address
	case FieldPhone:
		return f.Phone
	default:
		return ""
	}
}

func (f *Form) set(field, value string) bool {
	switch field {
	case FieldName:
		f.Name = value
	case FieldAddress:
		f.Address = value
	case FieldPhone:
		f.Phone = value
	default:
		return false
	}
	return true
}
