package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field-level validators for tenant/payment form input. Each validator checks
// one rule and fails with a tagged ValidationError; cross-entity rules (unit
// occupancy) live in the models package next to the data they need.

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// MaxMonthlyRent is the inclusive sanity bound for a declared monthly rent.
var MaxMonthlyRent = decimal.NewFromInt(50000)

// ValidateEmail rejects empty addresses, embedded spaces, consecutive or
// leading/trailing dots, anything without exactly one "@" and anything
// without a dotted top-level domain (so "user@localhost" fails).
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError(FieldEmail, ViolationRequired, "email is required")
	}
	if strings.Contains(email, " ") {
		return NewValidationError(FieldEmail, ViolationFormat, "email must not contain spaces")
	}
	if strings.Contains(email, "..") {
		return NewValidationError(FieldEmail, ViolationFormat, "email must not contain consecutive dots")
	}
	if strings.HasPrefix(email, ".") || strings.HasSuffix(email, ".") {
		return NewValidationError(FieldEmail, ViolationFormat, "email must not start or end with a dot")
	}
	if strings.Count(email, "@") != 1 {
		return NewValidationError(FieldEmail, ViolationFormat, "email must contain exactly one @")
	}
	if !emailPattern.MatchString(email) {
		return NewValidationError(FieldEmail, ViolationFormat, "email address is not valid")
	}
	return nil
}

// FormatPhone normalizes a bare 10-digit US number to "(XXX) XXX-XXXX".
// Inputs that already carry separators, or that are not exactly 10 digits,
// pass through verbatim. Idempotent: formatted output contains separators and
// is returned unchanged on a second pass.
func FormatPhone(phone string) string {
	if strings.ContainsAny(phone, "()-. ") {
		return phone
	}
	digits := nonDigit.ReplaceAllString(phone, "")
	if len(digits) != 10 {
		return phone
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

// ValidateRentAmount accepts rents in (0, MaxMonthlyRent]; the upper bound is
// inclusive.
func ValidateRentAmount(rent decimal.Decimal) error {
	if rent.LessThanOrEqual(decimal.Zero) {
		return NewValidationError(FieldRent, ViolationRange, "rent must be greater than zero")
	}
	if rent.GreaterThan(MaxMonthlyRent) {
		return NewValidationError(FieldRent, ViolationRange, "rent amount seems unusually high")
	}
	return nil
}

// ValidateDepositAmount accepts deposits in [0, 3*rent]; both bounds inclusive.
func ValidateDepositAmount(deposit decimal.Decimal, rent decimal.Decimal) error {
	if deposit.IsNegative() {
		return NewValidationError(FieldDeposit, ViolationRange, "deposit must not be negative")
	}
	if deposit.GreaterThan(rent.Mul(decimal.NewFromInt(3))) {
		return NewValidationError(FieldDeposit, ViolationRange, "deposit seems unusually high compared to rent")
	}
	return nil
}

// ValidatePaymentAmount accepts positive amounts; when an expected rent is
// supplied, amounts above 1.5x the expected rent are rejected (exactly 1.5x
// passes).
func ValidatePaymentAmount(amount decimal.Decimal, expectedRent *decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError(FieldAmount, ViolationRange, "payment amount must be greater than zero")
	}
	if expectedRent != nil {
		limit := expectedRent.Mul(decimal.NewFromFloat(1.5))
		if amount.GreaterThan(limit) {
			return NewValidationError(FieldAmount, ViolationRange,
				fmt.Sprintf("payment amount %s is unusually high for expected rent %s", amount.String(), expectedRent.String()))
		}
	}
	return nil
}

// ValidateDates rejects move-in dates more than two years in the future and
// lease-end dates that are not strictly after move-in (a lease cannot start
// and end the same day).
func ValidateDates(moveIn time.Time, leaseEnd *time.Time) error {
	horizon := time.Now().AddDate(2, 0, 0)
	if moveIn.After(horizon) {
		return NewValidationError(FieldMoveIn, ViolationDateOrder, "move-in date is too far in the future")
	}
	if leaseEnd != nil && !leaseEnd.After(moveIn) {
		return NewValidationError(FieldLeaseEnd, ViolationDateOrder, "lease end date must be after move-in date")
	}
	return nil
}
