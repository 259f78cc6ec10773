package models

import "errors"

type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "Active"
	TenantStatusInactive TenantStatus = "Inactive"
	TenantStatusLate     TenantStatus = "Late"
	TenantStatusNotice   TenantStatus = "Notice"
)

// convert input to enum type
func (t *TenantStatus) Parse(str string) error {
	switch str {
	case "Active":
		*t = TenantStatusActive
	case "Inactive":
		*t = TenantStatusInactive
	case "Late":
		*t = TenantStatusLate
	case "Notice":
		*t = TenantStatusNotice
	default:
		return errors.New("invalid tenant status")
	}
	return nil
}

type PaymentType string

const (
	PaymentTypeRent    PaymentType = "Rent"
	PaymentTypeDeposit PaymentType = "Deposit"
	PaymentTypeFee     PaymentType = "Fee"
	PaymentTypeOther   PaymentType = "Other"
)

func (t *PaymentType) Parse(str string) error {
	switch str {
	case "Rent":
		*t = PaymentTypeRent
	case "Deposit":
		*t = PaymentTypeDeposit
	case "Fee":
		*t = PaymentTypeFee
	case "Other":
		*t = PaymentTypeOther
	default:
		return errors.New("invalid payment type")
	}
	return nil
}

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodBankTransfer PaymentMethod = "BankTransfer"
	PaymentMethodCard         PaymentMethod = "Card"
	PaymentMethodCheck        PaymentMethod = "Check"
	PaymentMethodOther        PaymentMethod = "Other"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
	PaymentStatusRefunded  PaymentStatus = "Refunded"
)

// InconsistencyKind classifies what a consistency scan found.
type InconsistencyKind string

const (
	InconsistencyRentMismatch   InconsistencyKind = "rent_mismatch"
	InconsistencyUnitAssignment InconsistencyKind = "unit_assignment"
	InconsistencyMissingData    InconsistencyKind = "missing_data"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)
