package models

import (
	"reflect"
	"testing"

	"github.com/mmdatafocus/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCheckConsistencyRentMismatch(t *testing.T) {
	tenants := []*Tenant{
		{ID: 1, Name: "Alice", UnitNumber: "101", Rent: d(1000), Status: TenantStatusActive},
	}
	units := []*Unit{
		{ID: 10, UnitNumber: "101", Rent: d(1200), TenantId: 1},
	}

	findings := CheckConsistency(tenants, units)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Kind != InconsistencyRentMismatch {
		t.Errorf("Kind = %q, want %q", f.Kind, InconsistencyRentMismatch)
	}
	if f.Severity != SeverityHigh {
		t.Errorf("Severity = %q, want %q (difference of 200)", f.Severity, SeverityHigh)
	}
	if f.Suggestion != "update the tenant's rent" {
		t.Errorf("Suggestion = %q, want the larger (unit) value kept", f.Suggestion)
	}
}

func TestCheckConsistencyRentMismatchSeverityAndTolerance(t *testing.T) {
	cases := []struct {
		name       string
		tenantRent int64
		unitRent   int64
		findings   int
		severity   Severity
	}{
		{"equal rents", 1000, 1000, 0, ""},
		{"one dollar off is tolerated", 1000, 1001, 0, ""},
		{"small difference is medium", 1000, 1050, 1, SeverityMedium},
		{"exactly 100 is medium", 1000, 1100, 1, SeverityMedium},
		{"over 100 is high", 1000, 1101, 1, SeverityHigh},
	}
	for _, tc := range cases {
		tenants := []*Tenant{
			{ID: 1, Name: "Alice", UnitNumber: "101", Rent: d(tc.tenantRent), Status: TenantStatusActive},
		}
		units := []*Unit{
			{ID: 10, UnitNumber: "101", Rent: d(tc.unitRent), TenantId: 1},
		}
		findings := CheckConsistency(tenants, units)
		if len(findings) != tc.findings {
			t.Errorf("%s: got %d findings, want %d", tc.name, len(findings), tc.findings)
			continue
		}
		if tc.findings > 0 && findings[0].Severity != tc.severity {
			t.Errorf("%s: Severity = %q, want %q", tc.name, findings[0].Severity, tc.severity)
		}
	}
}

func TestCheckConsistencySuggestionPicksLargerValue(t *testing.T) {
	// tenant pays more than the unit lists: the tenant value wins
	tenants := []*Tenant{
		{ID: 1, Name: "Alice", UnitNumber: "101", Rent: d(1400), Status: TenantStatusActive},
	}
	units := []*Unit{
		{ID: 10, UnitNumber: "101", Rent: d(1200), TenantId: 1},
	}
	findings := CheckConsistency(tenants, units)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].Suggestion != "update the unit's rent" {
		t.Errorf("Suggestion = %q, want the unit raised to the tenant's rent", findings[0].Suggestion)
	}
}

func TestCheckConsistencyMissingUnit(t *testing.T) {
	tenants := []*Tenant{
		{ID: 1, Name: "Alice", UnitNumber: "404", Rent: d(1000), Status: TenantStatusActive},
	}

	findings := CheckConsistency(tenants, nil)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
	}
	if findings[0].Kind != InconsistencyUnitAssignment {
		t.Errorf("Kind = %q, want %q", findings[0].Kind, InconsistencyUnitAssignment)
	}
	if findings[0].Severity != SeverityMedium {
		t.Errorf("Severity = %q, want %q", findings[0].Severity, SeverityMedium)
	}
}

func TestCheckConsistencyConflictingAssignment(t *testing.T) {
	tenants := []*Tenant{
		{ID: 2, Name: "Bob", UnitNumber: "101", Rent: d(1200), Status: TenantStatusActive},
	}
	units := []*Unit{
		{ID: 10, UnitNumber: "101", Rent: d(1200), TenantId: 1},
	}

	findings := CheckConsistency(tenants, units)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
	}
	if findings[0].Kind != InconsistencyUnitAssignment {
		t.Errorf("Kind = %q, want %q", findings[0].Kind, InconsistencyUnitAssignment)
	}
	if findings[0].Severity != SeverityHigh {
		t.Errorf("Severity = %q, want %q", findings[0].Severity, SeverityHigh)
	}
}

func TestCheckConsistencyMissingData(t *testing.T) {
	tenants := []*Tenant{
		// active without a unit and without rent: two findings
		{ID: 1, Name: "Alice", Status: TenantStatusActive},
		// inactive tenants are still flagged for missing rent,
		// just not for holding no unit
		{ID: 2, Name: "Bob", Status: TenantStatusInactive},
		// the sentinel counts as no unit
		{ID: 3, Name: "Carol", UnitNumber: UnitNone, Rent: d(900), Status: TenantStatusActive},
	}

	findings := CheckConsistency(tenants, nil)
	if len(findings) != 4 {
		t.Fatalf("got %d findings, want 4: %+v", len(findings), findings)
	}
	for _, f := range findings {
		if f.Kind != InconsistencyMissingData {
			t.Errorf("Kind = %q, want %q", f.Kind, InconsistencyMissingData)
		}
		if f.Severity != SeverityMedium {
			t.Errorf("Severity = %q, want %q", f.Severity, SeverityMedium)
		}
	}

	perTenant := map[int]int{}
	for _, f := range findings {
		perTenant[f.TenantId]++
	}
	if perTenant[1] != 2 || perTenant[2] != 1 || perTenant[3] != 1 {
		t.Errorf("findings per tenant = %v, want map[1:2 2:1 3:1]", perTenant)
	}
}

func TestCheckConsistencyMissingRentIgnoresStatus(t *testing.T) {
	tenants := []*Tenant{
		{ID: 1, Name: "Bob", Status: TenantStatusInactive},
	}

	findings := CheckConsistency(tenants, nil)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
	}
	if findings[0].Kind != InconsistencyMissingData {
		t.Errorf("Kind = %q, want %q", findings[0].Kind, InconsistencyMissingData)
	}
}

func TestCheckConsistencyUnsetRentStillMismatches(t *testing.T) {
	// a tenant with no rent on a rent-bearing unit is both a mismatch
	// and missing data
	tenants := []*Tenant{
		{ID: 1, Name: "Alice", UnitNumber: "101", Status: TenantStatusInactive},
	}
	units := []*Unit{
		{ID: 10, UnitNumber: "101", Rent: d(1200), TenantId: 1},
	}

	findings := CheckConsistency(tenants, units)
	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2: %+v", len(findings), findings)
	}
	if findings[0].Kind != InconsistencyRentMismatch {
		t.Errorf("first Kind = %q, want %q", findings[0].Kind, InconsistencyRentMismatch)
	}
	if findings[0].Severity != SeverityHigh {
		t.Errorf("Severity = %q, want %q (difference of 1200)", findings[0].Severity, SeverityHigh)
	}
	if findings[0].Suggestion != "update the tenant's rent" {
		t.Errorf("Suggestion = %q, want the tenant raised to the unit's rent", findings[0].Suggestion)
	}
	if findings[1].Kind != InconsistencyMissingData {
		t.Errorf("second Kind = %q, want %q", findings[1].Kind, InconsistencyMissingData)
	}
}

func TestCheckConsistencyIsIdempotent(t *testing.T) {
	tenants := []*Tenant{
		{ID: 1, Name: "Alice", UnitNumber: "101", Rent: d(1000), Status: TenantStatusActive},
		{ID: 2, Name: "Bob", Status: TenantStatusActive},
		{ID: 3, Name: "Carol", UnitNumber: "303", Rent: d(800), Status: TenantStatusActive},
	}
	units := []*Unit{
		{ID: 10, UnitNumber: "101", Rent: d(1200), TenantId: 1},
	}

	first := CheckConsistency(tenants, units)
	second := CheckConsistency(tenants, units)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated scans differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestValidateUnitAvailable(t *testing.T) {
	tenants := []*Tenant{
		{ID: 1, Name: "Alice", UnitNumber: "101", Status: TenantStatusActive},
		{ID: 2, Name: "Bob", UnitNumber: "102", Status: TenantStatusInactive},
	}

	// a new tenant cannot take an occupied unit
	if err := validateUnitAvailable("101", tenants, 0); err == nil {
		t.Error("occupied unit accepted for a new tenant, want conflict")
	} else if !utils.IsConflict(err) {
		t.Errorf("expected a conflict error, got %v", err)
	}

	// the occupant may keep its own unit on update
	if err := validateUnitAvailable("101", tenants, 1); err != nil {
		t.Errorf("self re-assignment rejected: %v", err)
	}

	// a different tenant still cannot take it
	if err := validateUnitAvailable("101", tenants, 2); err == nil {
		t.Error("occupied unit accepted for another tenant, want conflict")
	}

	// inactive occupants do not block the unit
	if err := validateUnitAvailable("102", tenants, 0); err != nil {
		t.Errorf("unit held by inactive tenant rejected: %v", err)
	}

	// blank and sentinel unit numbers are always available
	if err := validateUnitAvailable("", tenants, 0); err != nil {
		t.Errorf("blank unit rejected: %v", err)
	}
	if err := validateUnitAvailable(UnitNone, tenants, 0); err != nil {
		t.Errorf("sentinel unit rejected: %v", err)
	}
}
