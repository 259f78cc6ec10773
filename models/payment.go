package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/rentals_backend/config"
	"github.com/mmdatafocus/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

type Payment struct {
	ID         int             `gorm:"primary_key" json:"id"`
	LandlordId string          `gorm:"index;not null" json:"landlord_id" binding:"required"`
	TenantId   int             `gorm:"index;not null" json:"tenant_id" binding:"required"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Date       time.Time       `json:"date"`
	Type       PaymentType     `gorm:"type:enum('Rent','Deposit','Fee','Other');not null;default:'Rent'" json:"type"`
	Method     PaymentMethod   `gorm:"type:enum('Cash','BankTransfer','Card','Check','Other');not null;default:'Cash'" json:"method"`
	Status     PaymentStatus   `gorm:"type:enum('Pending','Completed','Failed','Refunded');not null;default:'Completed'" json:"status"`
	Notes      string          `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPayment struct {
	TenantId int             `json:"tenant_id" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
	Type     PaymentType     `json:"type"`
	Method   PaymentMethod   `json:"method"`
	Status   PaymentStatus   `json:"status"`
	Notes    string          `json:"notes"`
}

// expectedRentFor resolves the rent a payment should track: the tenant's
// declared rent, falling back to the assigned unit's rent when the tenant
// has none declared. Returns nil when neither side declares one, in which
// case only the positive-amount check applies.
func expectedRentFor(ctx context.Context, landlordId string, tenant *Tenant) *decimal.Decimal {
	if tenant.Rent.IsPositive() {
		rent := tenant.Rent
		return &rent
	}
	if !tenant.hasUnit() {
		return nil
	}
	db := config.GetDB()
	var unit Unit
	err := db.WithContext(ctx).
		Where("landlord_id = ? AND unit_number = ?", landlordId, tenant.UnitNumber).
		First(&unit).Error
	if err != nil || !unit.Rent.IsPositive() {
		return nil
	}
	rent := unit.Rent
	return &rent
}

func (input *NewPayment) validate(ctx context.Context, landlordId string) (*Tenant, error) {
	if input.TenantId == 0 {
		return nil, utils.NewValidationError(utils.FieldTenant, utils.ViolationRequired, "tenant is required")
	}
	tenant, err := utils.FetchModel[Tenant](ctx, landlordId, input.TenantId)
	if err != nil {
		return nil, errors.New("tenant not found")
	}

	// only rent payments track the declared rent; deposits may legitimately
	// reach three times it and fees carry no reference at all
	var expected *decimal.Decimal
	if input.Type == PaymentTypeRent {
		expected = expectedRentFor(ctx, landlordId, tenant)
	}
	if err := utils.ValidatePaymentAmount(input.Amount, expected); err != nil {
		return nil, err
	}
	return tenant, nil
}

// CreatePayment records a payment. A completed rent payment also upserts the
// matching month in the reconciliation ledger, so the monthly grid and the
// payment history stay in step.
func CreatePayment(ctx context.Context, input *NewPayment) (*Payment, error) {
	db := config.GetDB()

	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	input.Notes = utils.Sanitize(input.Notes)
	if input.Type == "" {
		input.Type = PaymentTypeRent
	}
	if input.Method == "" {
		input.Method = PaymentMethodCash
	}
	if input.Status == "" {
		input.Status = PaymentStatusCompleted
	}
	if input.Date.IsZero() {
		input.Date = time.Now().UTC()
	}

	if _, err := input.validate(ctx, landlordId); err != nil {
		return nil, err
	}

	payment := Payment{
		LandlordId: landlordId,
		TenantId:   input.TenantId,
		Amount:     input.Amount,
		Date:       input.Date,
		Type:       input.Type,
		Method:     input.Method,
		Status:     input.Status,
		Notes:      input.Notes,
	}

	if err := db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, utils.WrapStoreError("create payment", err)
	}

	if payment.Type == PaymentTypeRent && payment.Status == PaymentStatusCompleted {
		ledger := NewLedger(GetLedgerStore(), landlordId, payment.Date.Year())
		if err := ledger.MarkPaid(ctx, payment.TenantId, int(payment.Date.Month()), payment.Amount); err != nil {
			return nil, err
		}
	}

	return &payment, nil
}

func GetPayment(ctx context.Context, id int) (*Payment, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	return utils.FetchModel[Payment](ctx, landlordId, id)
}

func GetPayments(ctx context.Context, tenantId *int) ([]*Payment, error) {
	db := config.GetDB()

	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	var results []*Payment
	dbCtx := db.WithContext(ctx).Where("landlord_id = ?", landlordId)
	if tenantId != nil && *tenantId > 0 {
		dbCtx = dbCtx.Where("tenant_id = ?", *tenantId)
	}
	if err := dbCtx.Order("date DESC").Find(&results).Error; err != nil {
		return nil, utils.WrapStoreError("fetch payments", err)
	}

	return results, nil
}
