package checkout

import (
	"errors"
	"strings"
	"testing"
)

func validSubmission() Submission {
	return Submission{
		CustomerDetails: CustomerDetails{
			FullName: "Tan Mei Ling",
			Email:    "mei.ling@example.com",
			Phone:    "+65 91234567",
		},
		ShippingAddress: ShippingAddress{
			Address1:   "12 Bukit Timah Road #05-01",
			City:       "Singapore",
			PostalCode: "238858",
			Country:    "Singapore",
		},
		Items: []SubmittedItem{
			{ProductID: 1, Name: "Folding Wheelchair", Price: 200, Quantity: 1},
		},
		Subtotal:     200,
		ShippingCost: 5,
		TotalAmount:  205,
	}
}

func TestSanitizeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"strips angle brackets", "<script>alert</script>", "scriptalert/script"},
		{"strips quotes and semicolons", "a'; DROP TABLE--", "a DROP TABLE--"},
		{"strips parens and ampersand", "x(y)&z", "xyz"},
		{"keeps safe punctuation", "Blk 12, #05-01", "Blk 12, #05-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeString(tt.input); got != tt.want {
				t.Errorf("SanitizeString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateAcceptsWellFormedSubmission(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	sub := validSubmission()
	v.Sanitize(&sub)
	if err := v.Validate(&sub); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateFieldRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(*Submission)
		wantField  string
		wantReason Reason
	}{
		{
			name:       "missing full name",
			mutate:     func(s *Submission) { s.CustomerDetails.FullName = "" },
			wantField:  "fullName",
			wantReason: ReasonMissing,
		},
		{
			name:       "name with digits",
			mutate:     func(s *Submission) { s.CustomerDetails.FullName = "Tan 123" },
			wantField:  "fullName",
			wantReason: ReasonMalformed,
		},
		{
			name:       "missing email",
			mutate:     func(s *Submission) { s.CustomerDetails.Email = "" },
			wantField:  "email",
			wantReason: ReasonMissing,
		},
		{
			name:       "malformed email",
			mutate:     func(s *Submission) { s.CustomerDetails.Email = "not-an-email" },
			wantField:  "email",
			wantReason: ReasonMalformed,
		},
		{
			name:       "phone with wrong prefix",
			mutate:     func(s *Submission) { s.CustomerDetails.Phone = "61234567" },
			wantField:  "phone",
			wantReason: ReasonMalformed,
		},
		{
			name:       "phone too short",
			mutate:     func(s *Submission) { s.CustomerDetails.Phone = "9123456" },
			wantField:  "phone",
			wantReason: ReasonMalformed,
		},
		{
			name:       "missing address",
			mutate:     func(s *Submission) { s.ShippingAddress.Address1 = "" },
			wantField:  "address1",
			wantReason: ReasonMissing,
		},
		{
			name:       "overlong address",
			mutate:     func(s *Submission) { s.ShippingAddress.Address1 = strings.Repeat("a", maxAddressLength+1) },
			wantField:  "address1",
			wantReason: ReasonMalformed,
		},
		{
			name:       "postal code not six digits",
			mutate:     func(s *Submission) { s.ShippingAddress.PostalCode = "1234" },
			wantField:  "postalCode",
			wantReason: ReasonMalformed,
		},
		{
			name:       "postal code with letters",
			mutate:     func(s *Submission) { s.ShippingAddress.PostalCode = "23885a" },
			wantField:  "postalCode",
			wantReason: ReasonMalformed,
		},
		{
			name:       "empty cart",
			mutate:     func(s *Submission) { s.Items = nil },
			wantField:  "items",
			wantReason: ReasonMissing,
		},
		{
			name:       "zero quantity",
			mutate:     func(s *Submission) { s.Items[0].Quantity = 0 },
			wantField:  "items",
			wantReason: ReasonMalformed,
		},
		{
			name:       "negative product id",
			mutate:     func(s *Submission) { s.Items[0].ProductID = -3 },
			wantField:  "items",
			wantReason: ReasonMalformed,
		},
		{
			name:       "zero total",
			mutate:     func(s *Submission) { s.TotalAmount = 0 },
			wantField:  "totalAmount",
			wantReason: ReasonMalformed,
		},
		{
			name:       "negative discount",
			mutate:     func(s *Submission) { s.DiscountAmount = -1 },
			wantField:  "discountAmount",
			wantReason: ReasonMalformed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := NewValidator()
			sub := validSubmission()
			tt.mutate(&sub)

			err := v.Validate(&sub)
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %T, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
			if verr.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", verr.Reason, tt.wantReason)
			}
		})
	}
}

func TestSanitizeDefaultsCountry(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	sub := validSubmission()
	sub.ShippingAddress.Country = "  "
	v.Sanitize(&sub)
	if sub.ShippingAddress.Country != "Singapore" {
		t.Errorf("Country = %q, want Singapore", sub.ShippingAddress.Country)
	}
}
