package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmdatafocus/rentals_backend/models"
	"github.com/mmdatafocus/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

type CollectionSummaryResponse struct {
	Year             int             `json:"Year"`
	Month            int             `json:"Month"`
	ActualRevenue    decimal.Decimal `json:"ActualRevenue"`
	PotentialRevenue decimal.Decimal `json:"PotentialRevenue"`
	CollectionRate   decimal.Decimal `json:"CollectionRate"`
	PaidCount        int             `json:"PaidCount"`
	UnpaidCount      int             `json:"UnpaidCount"`
	ActiveTenants    int             `json:"ActiveTenants"`
	// PaymentsRecorded is the completed-payments total from the payment
	// history for the same month. When it drifts from ActualRevenue the
	// ledger and the history disagree and a scan is warranted.
	PaymentsRecorded decimal.Decimal `json:"PaymentsRecorded"`
}

// GetCollectionSummaryReport compares what was collected for a month against
// what the active tenant roster should have produced. CollectionRate is a
// percentage rounded to one decimal place.
func GetCollectionSummaryReport(ctx context.Context, year int, month int) (*CollectionSummaryResponse, error) {
	started := time.Now()
	defer logSlowReport(ctx, "collection_summary", started, map[string]any{"year": year, "month": month})

	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}
	if month < 1 || month > 12 {
		return nil, errors.New("month must be between 1 and 12")
	}

	cacheKey := fmt.Sprintf("CollectionSummaryReport:%s:%d-%d", landlordId, year, month)
	if reportCacheEnabled() {
		var cached CollectionSummaryResponse
		if exists, err := cacheGet(cacheKey, &cached); err == nil && exists {
			return &cached, nil
		}
	}

	tenants, err := models.GetTenants(ctx)
	if err != nil {
		return nil, err
	}
	var activeTenants []*models.Tenant
	for _, t := range tenants {
		if t.Status == models.TenantStatusActive {
			activeTenants = append(activeTenants, t)
		}
	}

	ledger := models.NewLedger(models.GetLedgerStore(), landlordId, year)
	actual, err := ledger.ActualRevenue(ctx, month)
	if err != nil {
		return nil, err
	}
	potential := models.PotentialRevenue(activeTenants)

	paidCount := 0
	for _, t := range activeTenants {
		paid, err := ledger.IsPaid(ctx, t.ID, month)
		if err != nil {
			return nil, err
		}
		if paid {
			paidCount++
		}
	}

	rate := decimal.Zero
	if potential.IsPositive() {
		rate = actual.Div(potential).Mul(decimal.NewFromInt(100)).Round(1)
	}

	from, to := utils.GetMonthRange(year, time.Month(month))
	recorded, err := sumCompletedPayments(ctx, landlordId, from, to)
	if err != nil {
		return nil, err
	}

	result := &CollectionSummaryResponse{
		Year:             year,
		Month:            month,
		ActualRevenue:    actual,
		PotentialRevenue: potential,
		CollectionRate:   rate,
		PaidCount:        paidCount,
		UnpaidCount:      len(activeTenants) - paidCount,
		ActiveTenants:    len(activeTenants),
		PaymentsRecorded: recorded,
	}

	if reportCacheEnabled() {
		if err := cacheSet(cacheKey, result, reportCacheTTL()); err != nil {
			return nil, err
		}
	}

	return result, nil
}
