package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmdatafocus/rentals_backend/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Inconsistency is one finding from a consistency scan. Tenant is always
// set; Unit is nil for findings that do not involve a unit record.
type Inconsistency struct {
	Kind       InconsistencyKind `json:"kind"`
	Severity   Severity          `json:"severity"`
	TenantId   int               `json:"tenant_id"`
	TenantName string            `json:"tenant_name"`
	UnitNumber string            `json:"unit_number,omitempty"`
	Detail     string            `json:"detail"`
	Suggestion string            `json:"suggestion,omitempty"`
}

// rentMismatchTolerance absorbs rounding noise between the tenant record
// and the unit record. Differences at or below one dollar are not findings.
var rentMismatchTolerance = decimal.NewFromInt(1)

// rentMismatchHighWater escalates a mismatch to high severity.
var rentMismatchHighWater = decimal.NewFromInt(100)

func findUnit(units []*Unit, unitNumber string) *Unit {
	for _, u := range units {
		if u.UnitNumber == unitNumber {
			return u
		}
	}
	return nil
}

// CheckConsistency cross-checks tenant records against unit records and
// reports every discrepancy it finds. It is a pure function of its inputs:
// the same tenants and units always produce the same findings in the same
// order, so repeated scans of unchanged data are idempotent.
//
// Tenants are examined in input order, and each tenant runs through the
// checks: rent mismatch against the assigned unit, assignment to a unit that
// does not exist, assignment to a unit held by a different tenant, an active
// tenant with no unit at all, and a missing rent amount. The missing-rent
// check applies to every tenant regardless of status; the no-unit check only
// to active tenants, since former tenants legitimately hold no unit.
func CheckConsistency(tenants []*Tenant, units []*Unit) []Inconsistency {
	findings := []Inconsistency{}

	for _, tenant := range tenants {
		unitNumber := strings.TrimSpace(tenant.UnitNumber)
		hasUnit := unitNumber != "" && !strings.EqualFold(unitNumber, UnitNone)

		if hasUnit {
			unit := findUnit(units, unitNumber)
			if unit == nil {
				findings = append(findings, Inconsistency{
					Kind:       InconsistencyUnitAssignment,
					Severity:   SeverityMedium,
					TenantId:   tenant.ID,
					TenantName: tenant.Name,
					UnitNumber: unitNumber,
					Detail:     fmt.Sprintf("%s is assigned to unit %s but no such unit exists", tenant.Name, unitNumber),
					Suggestion: "create the unit or clear the tenant's unit assignment",
				})
			} else {
				diff := tenant.Rent.Sub(unit.Rent).Abs()
				if diff.GreaterThan(rentMismatchTolerance) {
					severity := SeverityMedium
					if diff.GreaterThan(rentMismatchHighWater) {
						severity = SeverityHigh
					}
					// suggest aligning on the larger of the two amounts
					suggestion := "update the tenant's rent"
					if tenant.Rent.GreaterThan(unit.Rent) {
						suggestion = "update the unit's rent"
					}
					findings = append(findings, Inconsistency{
						Kind:       InconsistencyRentMismatch,
						Severity:   severity,
						TenantId:   tenant.ID,
						TenantName: tenant.Name,
						UnitNumber: unitNumber,
						Detail: fmt.Sprintf("%s pays %s but unit %s lists %s",
							tenant.Name, tenant.Rent.StringFixed(2), unitNumber, unit.Rent.StringFixed(2)),
						Suggestion: suggestion,
					})
				}
				if unit.TenantId != 0 && unit.TenantId != tenant.ID {
					findings = append(findings, Inconsistency{
						Kind:       InconsistencyUnitAssignment,
						Severity:   SeverityHigh,
						TenantId:   tenant.ID,
						TenantName: tenant.Name,
						UnitNumber: unitNumber,
						Detail:     fmt.Sprintf("%s claims unit %s but the unit records a different tenant", tenant.Name, unitNumber),
						Suggestion: "reassign the unit so both records agree",
					})
				}
			}
		} else if tenant.Status == TenantStatusActive {
			findings = append(findings, Inconsistency{
				Kind:       InconsistencyMissingData,
				Severity:   SeverityMedium,
				TenantId:   tenant.ID,
				TenantName: tenant.Name,
				Detail:     fmt.Sprintf("%s is active but has no unit assigned", tenant.Name),
				Suggestion: "assign the tenant to a unit",
			})
		}

		if !tenant.Rent.IsPositive() {
			findings = append(findings, Inconsistency{
				Kind:       InconsistencyMissingData,
				Severity:   SeverityMedium,
				TenantId:   tenant.ID,
				TenantName: tenant.Name,
				Detail:     fmt.Sprintf("%s has no rent amount set", tenant.Name),
				Suggestion: "set the tenant's rent",
			})
		}
	}

	return findings
}

// RunConsistencyScan loads the landlord's tenants and units and runs
// CheckConsistency over them.
func RunConsistencyScan(ctx context.Context) ([]Inconsistency, error) {
	landlordId, ok := utils.GetLandlordIdFromContext(ctx)
	if !ok || landlordId == "" {
		return nil, errors.New("landlord id is required")
	}

	var tenants []*Tenant
	var units []*Unit

	// tenants and units load independently
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tenants, err = utils.FetchAllModels[Tenant](gCtx, landlordId)
		return err
	})
	g.Go(func() error {
		var err error
		units, err = utils.FetchAllModels[Unit](gCtx, landlordId)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return CheckConsistency(tenants, units), nil
}
