package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/rentals_backend/config"
	"github.com/mmdatafocus/rentals_backend/utils"
)

type Property struct {
	ID          int       `gorm:"primary_key" json:"id"`
	LandlordId  string    `gorm:"index;not null" json:"landlord_id" binding:"required"`
	Name        string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Address     string    `gorm:"size:200" json:"address"`
	City        string    `gorm:"size:100" json:"city"`
	Description string    `gorm:"type:text" json:"description"`
	Units       []*Unit   `gorm:"foreignKey:PropertyId" json:"units"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProperty struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Description string `json:"description"`
}

// CreateProperty(newProperty) (Property,error)
// UpdateProperty(id, newProperty) (Property,error)
// DeleteProperty(id) (Property,error)
// GetProperty(id) (Property,error)
// GetProperties() ([]Property,error)

func (input *NewProperty) sanitize() {
	input.Name = utils.Sanitize(input.Name)
	input.Address = utils.Sanitize(input.Address)
	input.City = utils.Sanitize(input.City)
	input.Description = utils.Sanitize(input.Description)
}

func (input *NewProperty) validate(ctx context.Context, landlordId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Property](ctx, landlordId, id); err != nil {
			return err
		}
	}
	if input.Name == "" {
		return utils.NewValidationError(utils.FieldName, utils.ViolationRequired, "property name is required")
	}
	// validate unique name
	if err := utils.ValidateUnique[Property](ctx, landlordId, "name", input.Name, id); err != nil {
		return err
	}
	return nil
}

func CreateProperty(ctx context.Context, input *NewProperty) (*Property, error) {
	db := config.GetDB()

	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	input.sanitize()
	if err := input.validate(ctx, landlordId, 0); err != nil {
		return nil, err
	}

	property := Property{
		LandlordId:  landlordId,
		Name:        input.Name,
		Address:     input.Address,
		City:        input.City,
		Description: input.Description,
	}

	if err := db.WithContext(ctx).Create(&property).Error; err != nil {
		return nil, utils.WrapStoreError("create property", err)
	}

	if err := utils.RemoveRedisList[Property](landlordId); err != nil {
		return nil, err
	}

	return &property, nil
}

func UpdateProperty(ctx context.Context, id int, input *NewProperty) (*Property, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	input.sanitize()
	if err := input.validate(ctx, landlordId, id); err != nil {
		return nil, err
	}

	property, err := utils.FetchModel[Property](ctx, landlordId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&property).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Address":     input.Address,
		"City":        input.City,
		"Description": input.Description,
	}).Error
	if err != nil {
		return nil, utils.WrapStoreError("update property", err)
	}

	if err := utils.RemoveRedisList[Property](landlordId); err != nil {
		return nil, err
	}

	return property, nil
}

func DeleteProperty(ctx context.Context, id int) (*Property, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	result, err := utils.FetchModel[Property](ctx, landlordId, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Unit](ctx, landlordId, "property_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("units associated with property exist")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, utils.WrapStoreError("delete property", err)
	}

	if err := utils.RemoveRedisList[Property](landlordId); err != nil {
		return nil, err
	}

	return result, nil
}

func GetProperty(ctx context.Context, id int) (*Property, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	return utils.FetchModel[Property](ctx, landlordId, id, "Units")
}

func GetProperties(ctx context.Context) ([]*Property, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	// first try redis cache
	results, err := utils.RetrieveRedisList[Property](landlordId)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[Property](ctx, landlordId)
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[Property](results, landlordId); err != nil {
			return nil, err
		}
	}

	return results, nil
}
