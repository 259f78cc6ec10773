package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmdatafocus/rentals_backend/config"
	"github.com/mmdatafocus/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

type Unit struct {
	ID         int             `gorm:"primary_key" json:"id"`
	LandlordId string          `gorm:"index;not null" json:"landlord_id" binding:"required"`
	PropertyId int             `gorm:"index;not null" json:"property_id" binding:"required"`
	UnitNumber string          `gorm:"size:20;not null" json:"unit_number" binding:"required"`
	Rent       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"rent"`
	Occupied   *bool           `gorm:"not null;default:false" json:"occupied"`
	TenantId   int             `gorm:"index;default:0" json:"tenant_id"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUnit struct {
	PropertyId int             `json:"property_id" binding:"required"`
	UnitNumber string          `json:"unit_number" binding:"required"`
	Rent       decimal.Decimal `json:"rent"`
}

// Invariant: Occupied == (TenantId != 0). Only AssignTenantToUnit and
// UnassignTenantFromUnit mutate the pair, inside one transaction, so a unit
// is never left marked occupied without a tenant reference (or vice versa).

func (input *NewUnit) validate(ctx context.Context, landlordId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Unit](ctx, landlordId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Property](ctx, landlordId, input.PropertyId); err != nil {
		return errors.New("property not found")
	}
	input.UnitNumber = utils.Sanitize(input.UnitNumber)
	if input.UnitNumber == "" {
		return utils.NewValidationError(utils.FieldUnitNumber, utils.ViolationRequired, "unit number is required")
	}
	// unit numbers are unique within a property
	var count int64
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Unit{}).
		Where("landlord_id = ? AND property_id = ? AND unit_number = ?", landlordId, input.PropertyId, input.UnitNumber)
	if id > 0 {
		dbCtx = dbCtx.Where("NOT id = ?", id)
	}
	if err := dbCtx.Count(&count).Error; err != nil {
		return utils.WrapStoreError("count units", err)
	}
	if count > 0 {
		return utils.NewValidationError(utils.FieldUnitNumber, utils.ViolationConflict, "duplicate unit number in property")
	}
	if err := utils.ValidateRentAmount(input.Rent); err != nil {
		return err
	}
	return nil
}

func CreateUnit(ctx context.Context, input *NewUnit) (*Unit, error) {
	db := config.GetDB()

	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	if err := input.validate(ctx, landlordId, 0); err != nil {
		return nil, err
	}

	unit := Unit{
		LandlordId: landlordId,
		PropertyId: input.PropertyId,
		UnitNumber: input.UnitNumber,
		Rent:       input.Rent,
		Occupied:   utils.NewFalse(),
	}

	if err := db.WithContext(ctx).Create(&unit).Error; err != nil {
		return nil, utils.WrapStoreError("create unit", err)
	}

	if err := utils.RemoveRedisList[Unit](landlordId); err != nil {
		return nil, err
	}

	return &unit, nil
}

func UpdateUnit(ctx context.Context, id int, input *NewUnit) (*Unit, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	if err := input.validate(ctx, landlordId, id); err != nil {
		return nil, err
	}

	unit, err := utils.FetchModel[Unit](ctx, landlordId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&unit).Updates(map[string]interface{}{
		"PropertyId": input.PropertyId,
		"UnitNumber": input.UnitNumber,
		"Rent":       input.Rent,
	}).Error
	if err != nil {
		return nil, utils.WrapStoreError("update unit", err)
	}

	if err := utils.RemoveRedisList[Unit](landlordId); err != nil {
		return nil, err
	}

	return unit, nil
}

func DeleteUnit(ctx context.Context, id int) (*Unit, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	result, err := utils.FetchModel[Unit](ctx, landlordId, id)
	if err != nil {
		return nil, err
	}
	if result.TenantId != 0 {
		return nil, errors.New("tenant assigned to unit exists")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, utils.WrapStoreError("delete unit", err)
	}

	if err := utils.RemoveRedisList[Unit](landlordId); err != nil {
		return nil, err
	}

	return result, nil
}

func GetUnit(ctx context.Context, id int) (*Unit, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	return utils.FetchModel[Unit](ctx, landlordId, id)
}

func GetUnits(ctx context.Context) ([]*Unit, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	// first try redis cache
	results, err := utils.RetrieveRedisList[Unit](landlordId)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[Unit](ctx, landlordId)
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[Unit](results, landlordId); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// AssignTenantToUnit flips the unit's occupancy flag and the tenant's unit
// reference together in one transaction.
func AssignTenantToUnit(ctx context.Context, unitId int, tenantId int) (*Unit, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	release, err := utils.LandlordLock(ctx, landlordId, "UnitAssign", "Unit", "AssignTenantToUnit")
	if err != nil {
		return nil, err
	}
	defer release()

	unit, err := utils.FetchModel[Unit](ctx, landlordId, unitId)
	if err != nil {
		return nil, err
	}
	tenant, err := utils.FetchModel[Tenant](ctx, landlordId, tenantId)
	if err != nil {
		return nil, err
	}

	if unit.TenantId != 0 && unit.TenantId != tenantId {
		occupant, err := utils.FetchModel[Tenant](ctx, landlordId, unit.TenantId)
		if err != nil {
			return nil, err
		}
		return nil, utils.NewValidationError(utils.FieldUnitNumber, utils.ViolationConflict,
			fmt.Sprintf("Unit %s is already occupied by %s", unit.UnitNumber, occupant.Name))
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&unit).Updates(map[string]interface{}{
		"Occupied": true,
		"TenantId": tenantId,
	}).Error; err != nil {
		tx.Rollback()
		return nil, utils.WrapStoreError("assign unit", err)
	}
	if err := tx.WithContext(ctx).Model(&tenant).
		UpdateColumn("UnitNumber", unit.UnitNumber).Error; err != nil {
		tx.Rollback()
		return nil, utils.WrapStoreError("assign tenant", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, utils.WrapStoreError("assign commit", err)
	}

	if err := utils.RemoveRedisList[Unit](landlordId); err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisList[Tenant](landlordId); err != nil {
		return nil, err
	}

	return unit, nil
}

// UnassignTenantFromUnit clears both sides of the assignment in one transaction.
func UnassignTenantFromUnit(ctx context.Context, unitId int) (*Unit, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	release, err := utils.LandlordLock(ctx, landlordId, "UnitAssign", "Unit", "UnassignTenantFromUnit")
	if err != nil {
		return nil, err
	}
	defer release()

	unit, err := utils.FetchModel[Unit](ctx, landlordId, unitId)
	if err != nil {
		return nil, err
	}
	if unit.TenantId == 0 {
		return unit, nil
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Model(&Tenant{}).
		Where("landlord_id = ? AND id = ?", landlordId, unit.TenantId).
		UpdateColumn("unit_number", "").Error; err != nil {
		tx.Rollback()
		return nil, utils.WrapStoreError("unassign tenant", err)
	}
	if err := tx.WithContext(ctx).Model(&unit).Updates(map[string]interface{}{
		"Occupied": false,
		"TenantId": 0,
	}).Error; err != nil {
		tx.Rollback()
		return nil, utils.WrapStoreError("unassign unit", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, utils.WrapStoreError("unassign commit", err)
	}

	if err := utils.RemoveRedisList[Unit](landlordId); err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisList[Tenant](landlordId); err != nil {
		return nil, err
	}

	return unit, nil
}
