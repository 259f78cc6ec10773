package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmdatafocus/rentals_backend/config"
	"github.com/mmdatafocus/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

// UnitNone is the "no unit assigned" sentinel some UI dropdowns submit
// instead of a blank string.
const UnitNone = "no unit assigned"

type Tenant struct {
	ID           int             `gorm:"primary_key" json:"id"`
	LandlordId   string          `gorm:"index;not null" json:"landlord_id" binding:"required"`
	Name         string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Email        string          `gorm:"size:100;not null" json:"email" binding:"required"`
	Phone        string          `gorm:"size:20" json:"phone"`
	UnitNumber   string          `gorm:"size:20;index" json:"unit_number"`
	MoveInDate   time.Time       `json:"move_in_date"`
	LeaseEndDate *time.Time      `json:"lease_end_date"`
	Rent         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"rent"`
	Deposit      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"deposit"`
	Status       TenantStatus    `gorm:"type:enum('Active','Inactive','Late','Notice');not null;default:'Active'" json:"status"`
	Notes        string          `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTenant struct {
	Name         string          `json:"name" binding:"required"`
	Email        string          `json:"email" binding:"required"`
	Phone        string          `json:"phone"`
	UnitNumber   string          `json:"unit_number"`
	MoveInDate   time.Time       `json:"move_in_date"`
	LeaseEndDate *time.Time      `json:"lease_end_date"`
	Rent         decimal.Decimal `json:"rent"`
	Deposit      decimal.Decimal `json:"deposit"`
	Status       TenantStatus    `json:"status"`
	Notes        string          `json:"notes"`
}

// hasUnit reports whether the tenant claims a concrete unit number.
func (t *Tenant) hasUnit() bool {
	u := strings.TrimSpace(t.UnitNumber)
	return u != "" && !strings.EqualFold(u, UnitNone)
}

// validateUnitAvailable enforces unit-occupancy exclusivity: at most one
// active tenant may hold a unit number at a time. The tenant being edited is
// exempt from matching itself (currentTenantId > 0). Blank and sentinel unit
// numbers are exempt since unit assignment is optional.
func validateUnitAvailable(unitNumber string, tenants []*Tenant, currentTenantId int) error {
	u := strings.TrimSpace(unitNumber)
	if u == "" || strings.EqualFold(u, UnitNone) {
		return nil
	}
	for _, other := range tenants {
		if other.ID == currentTenantId {
			continue
		}
		if other.Status != TenantStatusActive {
			continue
		}
		if other.UnitNumber == u {
			return utils.NewValidationError(utils.FieldUnitNumber, utils.ViolationConflict,
				fmt.Sprintf("Unit %s is already occupied by %s", u, other.Name))
		}
	}
	return nil
}

func (input *NewTenant) sanitize() {
	input.Name = utils.Sanitize(input.Name)
	input.Notes = utils.Sanitize(input.Notes)
	input.UnitNumber = utils.Sanitize(input.UnitNumber)
	input.Phone = utils.FormatPhone(input.Phone)
}

// validate runs the field checks in a fixed order and raises on the first
// violation. Errors are tagged with the offending field, so the form layer
// routes them structurally instead of matching message keywords.
func (input *NewTenant) validate(ctx context.Context, landlordId string, id int, allTenants []*Tenant) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Tenant](ctx, landlordId, id); err != nil {
			return err
		}
	}
	if input.Name == "" {
		return utils.NewValidationError(utils.FieldName, utils.ViolationRequired, "tenant name is required")
	}
	if err := utils.ValidateEmail(input.Email); err != nil {
		return err
	}
	if err := utils.ValidateRentAmount(input.Rent); err != nil {
		return err
	}
	if err := utils.ValidateDepositAmount(input.Deposit, input.Rent); err != nil {
		return err
	}
	if err := validateUnitAvailable(input.UnitNumber, allTenants, id); err != nil {
		return err
	}
	if err := utils.ValidateDates(input.MoveInDate, input.LeaseEndDate); err != nil {
		return err
	}
	return nil
}

func CreateTenant(ctx context.Context, input *NewTenant) (*Tenant, error) {
	db := config.GetDB()

	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	input.sanitize()
	if input.Status == "" {
		input.Status = TenantStatusActive
	}

	allTenants, err := utils.FetchAllModels[Tenant](ctx, landlordId)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, landlordId, 0, allTenants); err != nil {
		return nil, err
	}

	tenant := Tenant{
		LandlordId:   landlordId,
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		UnitNumber:   input.UnitNumber,
		MoveInDate:   input.MoveInDate,
		LeaseEndDate: input.LeaseEndDate,
		Rent:         input.Rent,
		Deposit:      input.Deposit,
		Status:       input.Status,
		Notes:        input.Notes,
	}

	if err := db.WithContext(ctx).Create(&tenant).Error; err != nil {
		return nil, utils.WrapStoreError("create tenant", err)
	}

	if err := utils.RemoveRedisList[Tenant](landlordId); err != nil {
		return nil, err
	}

	return &tenant, nil
}

func UpdateTenant(ctx context.Context, id int, input *NewTenant) (*Tenant, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	input.sanitize()

	allTenants, err := utils.FetchAllModels[Tenant](ctx, landlordId)
	if err != nil {
		return nil, err
	}
	// self-exclusion by id is active: the tenant may re-occupy its own unit
	if err := input.validate(ctx, landlordId, id, allTenants); err != nil {
		return nil, err
	}

	tenant, err := utils.FetchModel[Tenant](ctx, landlordId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&tenant).Updates(map[string]interface{}{
		"Name":         input.Name,
		"Email":        input.Email,
		"Phone":        input.Phone,
		"UnitNumber":   input.UnitNumber,
		"MoveInDate":   input.MoveInDate,
		"LeaseEndDate": input.LeaseEndDate,
		"Rent":         input.Rent,
		"Deposit":      input.Deposit,
		"Status":       input.Status,
		"Notes":        input.Notes,
	}).Error
	if err != nil {
		return nil, utils.WrapStoreError("update tenant", err)
	}

	if err := utils.RemoveRedisList[Tenant](landlordId); err != nil {
		return nil, err
	}

	return tenant, nil
}

func DeleteTenant(ctx context.Context, id int) (*Tenant, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	result, err := utils.FetchModel[Tenant](ctx, landlordId, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Payment](ctx, landlordId, "tenant_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("payments associated with tenant exist")
	}

	db := config.GetDB()
	tx := db.Begin()
	// release the tenant's unit in the same transaction
	if err := tx.WithContext(ctx).Model(&Unit{}).
		Where("landlord_id = ? AND tenant_id = ?", landlordId, id).
		Updates(map[string]interface{}{"occupied": false, "tenant_id": 0}).Error; err != nil {
		tx.Rollback()
		return nil, utils.WrapStoreError("release unit", err)
	}
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, utils.WrapStoreError("delete tenant", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, utils.WrapStoreError("delete commit", err)
	}

	if err := utils.RemoveRedisList[Tenant](landlordId); err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisList[Unit](landlordId); err != nil {
		return nil, err
	}

	return result, nil
}

func GetTenant(ctx context.Context, id int) (*Tenant, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	return utils.FetchModel[Tenant](ctx, landlordId, id)
}

func GetTenants(ctx context.Context) ([]*Tenant, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	// first try redis cache
	results, err := utils.RetrieveRedisList[Tenant](landlordId)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[Tenant](ctx, landlordId)
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[Tenant](results, landlordId); err != nil {
			return nil, err
		}
	}

	return results, nil
}
