package reports

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/rentals_backend/config"
	"github.com/mmdatafocus/rentals_backend/models"
	"github.com/mmdatafocus/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

type DashboardResponse struct {
	TotalProperties    int             `json:"TotalProperties"`
	TotalUnits         int             `json:"TotalUnits"`
	OccupiedUnits      int             `json:"OccupiedUnits"`
	VacantUnits        int             `json:"VacantUnits"`
	ActiveTenants      int             `json:"ActiveTenants"`
	ReceivedThisMonth  decimal.Decimal `json:"ReceivedThisMonth"`
	ReceivedLastMonth  decimal.Decimal `json:"ReceivedLastMonth"`
	PayingTenantsCount int             `json:"PayingTenantsCount"`
}

func sumCompletedPayments(ctx context.Context, landlordId string, from time.Time, to time.Time) (decimal.Decimal, error) {
	sql := `
SELECT COALESCE(SUM(amount), 0) AS total
FROM payments
WHERE landlord_id = @landlordId
    AND status = 'Completed'
    AND date BETWEEN @fromDate AND @toDate;
`
	var row struct {
		Total decimal.Decimal
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"landlordId": landlordId,
		"fromDate":   from,
		"toDate":     to,
	}).Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// GetDashboardReport aggregates the landing-page numbers: portfolio counts,
// collections for the current and previous month, and how many distinct
// tenants have paid this month.
func GetDashboardReport(ctx context.Context) (*DashboardResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "dashboard", started, nil)

	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	properties, err := models.GetProperties(ctx)
	if err != nil {
		return nil, err
	}
	units, err := models.GetUnits(ctx)
	if err != nil {
		return nil, err
	}
	tenants, err := models.GetTenants(ctx)
	if err != nil {
		return nil, err
	}

	occupied := 0
	for _, u := range units {
		if u.TenantId != 0 {
			occupied++
		}
	}
	active := 0
	for _, t := range tenants {
		if t.Status == models.TenantStatusActive {
			active++
		}
	}

	thisStart, thisEnd := utils.GetThisMonthRange()
	lastStart, lastEnd := utils.GetPreviousMonthRange()

	receivedThisMonth, err := sumCompletedPayments(ctx, landlordId, thisStart, thisEnd)
	if err != nil {
		return nil, err
	}
	receivedLastMonth, err := sumCompletedPayments(ctx, landlordId, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	records, err := models.GetLedgerStore().Get(ctx, landlordId, now.Year())
	if err != nil {
		return nil, err
	}
	var payingTenantIds []int
	for _, r := range records {
		if r.Month == int(now.Month()) && r.Paid {
			payingTenantIds = append(payingTenantIds, r.TenantId)
		}
	}
	payingTenantIds = utils.UniqueSlice(payingTenantIds)

	return &DashboardResponse{
		TotalProperties:    len(properties),
		TotalUnits:         len(units),
		OccupiedUnits:      occupied,
		VacantUnits:        len(units) - occupied,
		ActiveTenants:      active,
		ReceivedThisMonth:  receivedThisMonth,
		ReceivedLastMonth:  receivedLastMonth,
		PayingTenantsCount: len(payingTenantIds),
	}, nil
}
