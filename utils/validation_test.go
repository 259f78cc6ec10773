package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@example.co.uk",
		"user+tag@example.io",
		"u_1%x@sub.example.org",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{
		"",
		"user example@example.com",
		"user..name@example.com",
		".user@example.com",
		"user@example.com.",
		"user@@example.com",
		"userexample.com",
		"user@localhost",
		"user@example",
	}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", email)
		}
	}
}

func TestValidateEmailTagsField(t *testing.T) {
	err := ValidateEmail("not an email")
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != FieldEmail {
		t.Errorf("Field = %q, want %q", ve.Field, FieldEmail)
	}
}

func TestFormatPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"5551234567", "(555) 123-4567"},
		{"(555) 123-4567", "(555) 123-4567"},
		{"555-123-4567", "555-123-4567"},
		{"555.123.4567", "555.123.4567"},
		{"12345", "12345"},
		{"555123456789", "555123456789"},
		{"", ""},
	}
	for _, tc := range cases {
		got := FormatPhone(tc.in)
		if got != tc.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatPhoneIsIdempotent(t *testing.T) {
	inputs := []string{"5551234567", "(555) 123-4567", "not a phone", "12345"}
	for _, in := range inputs {
		once := FormatPhone(in)
		twice := FormatPhone(once)
		if once != twice {
			t.Errorf("FormatPhone not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestValidateRentAmount(t *testing.T) {
	if err := ValidateRentAmount(decimal.NewFromInt(1200)); err != nil {
		t.Errorf("rent 1200 rejected: %v", err)
	}
	// upper bound is inclusive
	if err := ValidateRentAmount(MaxMonthlyRent); err != nil {
		t.Errorf("rent at max bound rejected: %v", err)
	}
	if err := ValidateRentAmount(decimal.Zero); err == nil {
		t.Error("rent 0 accepted, want error")
	}
	if err := ValidateRentAmount(decimal.NewFromInt(-50)); err == nil {
		t.Error("negative rent accepted, want error")
	}
	if err := ValidateRentAmount(MaxMonthlyRent.Add(decimal.NewFromInt(1))); err == nil {
		t.Error("rent above max bound accepted, want error")
	}
}

func TestValidateDepositAmount(t *testing.T) {
	rent := decimal.NewFromInt(1000)

	if err := ValidateDepositAmount(decimal.Zero, rent); err != nil {
		t.Errorf("zero deposit rejected: %v", err)
	}
	// three months of rent is the inclusive bound
	if err := ValidateDepositAmount(decimal.NewFromInt(3000), rent); err != nil {
		t.Errorf("deposit at 3x rent rejected: %v", err)
	}
	if err := ValidateDepositAmount(decimal.NewFromInt(3001), rent); err == nil {
		t.Error("deposit above 3x rent accepted, want error")
	}
	if err := ValidateDepositAmount(decimal.NewFromInt(-1), rent); err == nil {
		t.Error("negative deposit accepted, want error")
	}
}

func TestValidatePaymentAmount(t *testing.T) {
	expected := decimal.NewFromInt(1000)

	if err := ValidatePaymentAmount(decimal.NewFromInt(1000), &expected); err != nil {
		t.Errorf("payment at expected rent rejected: %v", err)
	}
	// 1.5x expected is the inclusive bound
	if err := ValidatePaymentAmount(decimal.NewFromInt(1500), &expected); err != nil {
		t.Errorf("payment at 1.5x expected rejected: %v", err)
	}
	if err := ValidatePaymentAmount(decimal.NewFromInt(1501), &expected); err == nil {
		t.Error("payment above 1.5x expected accepted, want error")
	}
	if err := ValidatePaymentAmount(decimal.Zero, &expected); err == nil {
		t.Error("zero payment accepted, want error")
	}
	// without an expected rent only the positive check applies
	if err := ValidatePaymentAmount(decimal.NewFromInt(99999), nil); err != nil {
		t.Errorf("large payment without expected rent rejected: %v", err)
	}
}

func TestValidatePaymentAmountMessageNamesBothValues(t *testing.T) {
	expected := decimal.NewFromInt(1000)
	err := ValidatePaymentAmount(decimal.NewFromInt(2000), &expected)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "2000") || !strings.Contains(msg, "1000") {
		t.Errorf("error message %q should name both the amount and the expected rent", msg)
	}
}

func TestValidateDates(t *testing.T) {
	now := time.Now()

	if err := ValidateDates(now, nil); err != nil {
		t.Errorf("move-in today rejected: %v", err)
	}

	oneYearOut := now.AddDate(1, 0, 0)
	if err := ValidateDates(oneYearOut, nil); err != nil {
		t.Errorf("move-in one year out rejected: %v", err)
	}

	threeYearsOut := now.AddDate(3, 0, 0)
	if err := ValidateDates(threeYearsOut, nil); err == nil {
		t.Error("move-in three years out accepted, want error")
	}

	moveIn := now
	end := moveIn.AddDate(1, 0, 0)
	if err := ValidateDates(moveIn, &end); err != nil {
		t.Errorf("lease end after move-in rejected: %v", err)
	}

	// same instant is rejected: a lease must be at least a day long
	sameDay := moveIn
	if err := ValidateDates(moveIn, &sameDay); err == nil {
		t.Error("lease end equal to move-in accepted, want error")
	}

	before := moveIn.AddDate(0, -1, 0)
	if err := ValidateDates(moveIn, &before); err == nil {
		t.Error("lease end before move-in accepted, want error")
	}
}
