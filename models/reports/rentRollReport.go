package reports

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/rentals_backend/config"
	"github.com/mmdatafocus/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

type RentRollResponse struct {
	PropertyName string          `json:"PropertyName"`
	UnitNumber   string          `json:"UnitNumber"`
	UnitRent     decimal.Decimal `json:"UnitRent"`
	TenantId     *int            `json:"TenantId,omitempty"`
	TenantName   *string         `json:"TenantName,omitempty"`
	TenantRent   decimal.Decimal `json:"TenantRent"`
	Status       *string         `json:"Status,omitempty"`
	MoveInDate   *time.Time      `json:"MoveInDate,omitempty"`
	LeaseEndDate *time.Time      `json:"LeaseEndDate,omitempty"`
}

// GetRentRollReport lists every unit with its occupant, if any. Vacant units
// appear with empty tenant columns so the roll shows the full portfolio.
func GetRentRollReport(ctx context.Context) ([]*RentRollResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "rent_roll", started, nil)

	sql := `
SELECT
    properties.name AS property_name,
    units.unit_number,
    units.rent AS unit_rent,
    tenants.id AS tenant_id,
    tenants.name AS tenant_name,
    tenants.rent AS tenant_rent,
    tenants.status,
    tenants.move_in_date,
    tenants.lease_end_date
FROM
    units
    LEFT JOIN properties ON properties.id = units.property_id
    LEFT JOIN tenants ON tenants.id = units.tenant_id
WHERE
    units.landlord_id = @landlordId
ORDER BY properties.name, units.unit_number;
`

	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	var records []*RentRollResponse
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"landlordId": landlordId,
	}).Scan(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r RentRollResponse) GetCellValues() []interface{} {
	return []interface{}{
		r.PropertyName,
		r.UnitNumber,
		r.UnitRent,
		utils.DereferencePtr(r.TenantName, ""),
		r.TenantRent,
		utils.DereferencePtr(r.Status, ""),
	}
}
