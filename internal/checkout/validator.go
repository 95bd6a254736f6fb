package checkout

// Package checkout validates and reprices customer checkout submissions.

import (
	"fmt"
	"regexp"
	"strings"
)

// Reason distinguishes a field that was absent from one that failed its
// format rule. Both reject with the same status class.
type Reason string

const (
	ReasonMissing   Reason = "missing"
	ReasonMalformed Reason = "malformed"
)

// ValidationError identifies exactly which field failed and why.
type ValidationError struct {
	Field   string
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missing(field, label string) *ValidationError {
	return &ValidationError{Field: field, Reason: ReasonMissing, Message: fmt.Sprintf("%s is required", label)}
}

func malformed(field, message string) *ValidationError {
	return &ValidationError{Field: field, Reason: ReasonMalformed, Message: message}
}

// Submission is the raw checkout payload as submitted by the client. The
// prices and totals it carries are never trusted for persistence; they are
// only compared against server-side values.
type Submission struct {
	CustomerDetails CustomerDetails `json:"customerDetails"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Items           []SubmittedItem `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	ShippingCost    float64         `json:"shippingCost"`
	DiscountAmount  float64         `json:"discountAmount"`
	TotalAmount     float64         `json:"totalAmount"`
	CustomerNotes   string          `json:"customerNotes"`
}

type CustomerDetails struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type ShippingAddress struct {
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type SubmittedItem struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

var (
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	sgPhoneRegex    = regexp.MustCompile(`^(\+65\s?)?[89]\d{7}$`)
	nameRegex       = regexp.MustCompile(`^[a-zA-Z'\-\s]+$`)
	addressRegex    = regexp.MustCompile(`^[a-zA-Z0-9\s#\-.,/]+$`)
	postalCodeRegex = regexp.MustCompile(`^\d{6}$`)

	// Characters associated with XSS and SQL injection payloads.
	dangerousChars = regexp.MustCompile(`[<>()';&]`)
)

const (
	maxNameLength    = 100
	maxEmailLength   = 254
	maxAddressLength = 200
	maxCityLength    = 100
	maxNotesLength   = 1000
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// SanitizeString trims the input and strips characters commonly used in
// injection attacks.
func SanitizeString(input string) string {
	return dangerousChars.ReplaceAllString(strings.TrimSpace(input), "")
}

// Sanitize cleans every free-text field of the submission in place.
// It must run before Validate so the rules see the submitted values as
// they will be persisted.
func (v *Validator) Sanitize(sub *Submission) {
	sub.CustomerDetails.FullName = SanitizeString(sub.CustomerDetails.FullName)
	sub.CustomerDetails.Email = SanitizeString(sub.CustomerDetails.Email)
	sub.CustomerDetails.Phone = SanitizeString(sub.CustomerDetails.Phone)
	sub.ShippingAddress.Address1 = SanitizeString(sub.ShippingAddress.Address1)
	sub.ShippingAddress.Address2 = SanitizeString(sub.ShippingAddress.Address2)
	sub.ShippingAddress.City = SanitizeString(sub.ShippingAddress.City)
	sub.ShippingAddress.PostalCode = SanitizeString(sub.ShippingAddress.PostalCode)
	sub.ShippingAddress.Country = SanitizeString(sub.ShippingAddress.Country)
	sub.CustomerNotes = SanitizeString(sub.CustomerNotes)
	if sub.ShippingAddress.Country == "" {
		sub.ShippingAddress.Country = "Singapore"
	}
}

// Validate checks every field against its format and length rule, then the
// cart shape. The first failing field is reported; callers surface the
// message verbatim.
func (v *Validator) Validate(sub *Submission) error {
	if err := v.validateCustomer(&sub.CustomerDetails); err != nil {
		return err
	}
	if err := v.validateAddress(&sub.ShippingAddress); err != nil {
		return err
	}
	if err := v.validateItems(sub.Items); err != nil {
		return err
	}

	if len(sub.CustomerNotes) > maxNotesLength {
		return malformed("customerNotes", fmt.Sprintf("notes must be at most %d characters", maxNotesLength))
	}
	if sub.TotalAmount <= 0 {
		return malformed("totalAmount", "order total must be greater than zero")
	}
	if sub.DiscountAmount < 0 {
		return malformed("discountAmount", "discount amount cannot be negative")
	}
	if sub.ShippingCost < 0 {
		return malformed("shippingCost", "shipping cost cannot be negative")
	}
	return nil
}

func (v *Validator) validateCustomer(details *CustomerDetails) error {
	if details.FullName == "" {
		return missing("fullName", "full name")
	}
	if len(details.FullName) > maxNameLength || !nameRegex.MatchString(details.FullName) {
		return malformed("fullName", "full name may only contain letters, spaces, apostrophes and hyphens")
	}

	if details.Email == "" {
		return missing("email", "email")
	}
	if len(details.Email) > maxEmailLength || !emailRegex.MatchString(details.Email) {
		return malformed("email", "email address is not valid")
	}

	if details.Phone == "" {
		return missing("phone", "phone number")
	}
	if !sgPhoneRegex.MatchString(details.Phone) {
		return malformed("phone", "phone must be a valid Singapore number")
	}
	return nil
}

func (v *Validator) validateAddress(addr *ShippingAddress) error {
	if addr.Address1 == "" {
		return missing("address1", "shipping address")
	}
	if len(addr.Address1) > maxAddressLength || !addressRegex.MatchString(addr.Address1) {
		return malformed("address1", "address contains unsupported characters")
	}

	if addr.Address2 != "" {
		if len(addr.Address2) > maxAddressLength || !addressRegex.MatchString(addr.Address2) {
			return malformed("address2", "address contains unsupported characters")
		}
	}

	if addr.City == "" {
		return missing("city", "city")
	}
	if len(addr.City) > maxCityLength || !nameRegex.MatchString(addr.City) {
		return malformed("city", "city contains unsupported characters")
	}

	if addr.PostalCode == "" {
		return missing("postalCode", "postal code")
	}
	if !postalCodeRegex.MatchString(addr.PostalCode) {
		return malformed("postalCode", "postal code must be exactly 6 digits")
	}

	if addr.Country == "" {
		return missing("country", "country")
	}
	return nil
}

func (v *Validator) validateItems(items []SubmittedItem) error {
	if len(items) == 0 {
		return missing("items", "at least one item")
	}
	for i, item := range items {
		if item.ProductID <= 0 {
			return malformed("items", fmt.Sprintf("item %d has an invalid product id", i))
		}
		if item.Quantity <= 0 {
			return malformed("items", fmt.Sprintf("item %d has an invalid quantity", i))
		}
	}
	return nil
}
