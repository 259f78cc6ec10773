package models

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLedgerMarkPaidUpsertsWithoutDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLedgerStore()
	ledger := NewLedger(store, "landlord-1", 2026)

	if err := ledger.MarkPaid(ctx, 1, 3, d(950)); err != nil {
		t.Fatalf("first MarkPaid: %v", err)
	}
	// same key again with a corrected amount
	if err := ledger.MarkPaid(ctx, 1, 3, d(1000)); err != nil {
		t.Fatalf("second MarkPaid: %v", err)
	}

	records, err := store.Get(ctx, "landlord-1", 2026)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (upsert must not duplicate)", len(records))
	}
	r := records[0]
	if !r.Paid {
		t.Error("record not marked paid")
	}
	if !r.Amount.Equal(d(1000)) {
		t.Errorf("Amount = %s, want 1000 (second write wins)", r.Amount)
	}

	paid, err := ledger.IsPaid(ctx, 1, 3)
	if err != nil {
		t.Fatalf("IsPaid: %v", err)
	}
	if !paid {
		t.Error("IsPaid = false, want true")
	}
}

func TestLedgerMarkUnpaidKeepsHistory(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLedgerStore()
	ledger := NewLedger(store, "landlord-1", 2026)

	if err := ledger.MarkPaid(ctx, 1, 3, d(1000)); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if err := ledger.MarkUnpaid(ctx, 1, 3); err != nil {
		t.Fatalf("MarkUnpaid: %v", err)
	}

	records, err := store.Get(ctx, "landlord-1", 2026)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (unpaid keeps the record)", len(records))
	}
	if records[0].Paid {
		t.Error("record still marked paid")
	}
	if !records[0].Amount.Equal(d(1000)) {
		t.Errorf("Amount = %s, want 1000 kept for audit", records[0].Amount)
	}

	// unmarking a month that was never recorded is a no-op
	if err := ledger.MarkUnpaid(ctx, 9, 12); err != nil {
		t.Fatalf("MarkUnpaid on absent record: %v", err)
	}
	records, _ = store.Get(ctx, "landlord-1", 2026)
	if len(records) != 1 {
		t.Errorf("got %d records after absent unpaid, want 1", len(records))
	}
}

func TestLedgerMonthsAndTenantsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLedgerStore()
	ledger := NewLedger(store, "landlord-1", 2026)

	if err := ledger.MarkPaid(ctx, 1, 3, d(1000)); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	if paid, _ := ledger.IsPaid(ctx, 1, 4); paid {
		t.Error("month 4 reported paid, only month 3 was marked")
	}
	if paid, _ := ledger.IsPaid(ctx, 2, 3); paid {
		t.Error("tenant 2 reported paid, only tenant 1 was marked")
	}

	// a different year uses a different key entirely
	other := NewLedger(store, "landlord-1", 2027)
	if paid, _ := other.IsPaid(ctx, 1, 3); paid {
		t.Error("2027 reported paid, only 2026 was marked")
	}
}

func TestLedgerRevenue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryLedgerStore()
	ledger := NewLedger(store, "landlord-1", 2026)

	tenants := []*Tenant{
		{ID: 1, Name: "Alice", Rent: d(1000), Status: TenantStatusActive},
		{ID: 2, Name: "Bob", Rent: d(1200), Status: TenantStatusActive},
		{ID: 3, Name: "Carol", Rent: d(900), Status: TenantStatusInactive},
	}

	if err := ledger.MarkPaid(ctx, 1, 3, d(1000)); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	// an unpaid record must not count toward actual revenue
	if err := ledger.MarkPaid(ctx, 2, 3, d(1200)); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if err := ledger.MarkUnpaid(ctx, 2, 3); err != nil {
		t.Fatalf("MarkUnpaid: %v", err)
	}

	actual, err := ledger.ActualRevenue(ctx, 3)
	if err != nil {
		t.Fatalf("ActualRevenue: %v", err)
	}
	if !actual.Equal(d(1000)) {
		t.Errorf("ActualRevenue = %s, want 1000", actual)
	}

	potential := PotentialRevenue(tenants)
	if !potential.Equal(d(2200)) {
		t.Errorf("PotentialRevenue = %s, want 2200 (inactive tenants excluded)", potential)
	}

	rate := actual.Div(potential).Mul(decimal.NewFromInt(100)).Round(1)
	if rate.String() != "45.5" {
		t.Errorf("collection rate = %s, want 45.5", rate)
	}
}
