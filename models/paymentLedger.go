package models

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmdatafocus/rentals_backend/config"
	"github.com/mmdatafocus/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

// PaymentRecord is one tenant's paid/unpaid entry for a calendar month.
// The JSON shape is persisted as-is and read directly by dashboards, so
// field names must stay stable.
type PaymentRecord struct {
	TenantId int             `json:"tenantId"`
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Paid     bool            `json:"paid"`
	Amount   decimal.Decimal `json:"amount"`
}

// LedgerStore persists one landlord-year's records under a single key.
// Implementations must be safe for last-write-wins upserts; the composite
// (landlord, year, month, tenant) key is enforced by the Ledger, not the store.
type LedgerStore interface {
	Get(ctx context.Context, landlordId string, year int) ([]PaymentRecord, error)
	Put(ctx context.Context, landlordId string, year int, records []PaymentRecord) error
}

func ledgerKey(landlordId string, year int) string {
	return fmt.Sprintf("payment_records_%s_%d", landlordId, year)
}

// RedisLedgerStore keeps each landlord-year as a JSON list in redis.
type RedisLedgerStore struct{}

func (s *RedisLedgerStore) Get(ctx context.Context, landlordId string, year int) ([]PaymentRecord, error) {
	var records []PaymentRecord
	exists, err := config.GetRedisObject(ledgerKey(landlordId, year), &records)
	if err != nil {
		return nil, utils.WrapStoreError("ledger get", err)
	}
	if !exists {
		return nil, nil
	}
	return records, nil
}

func (s *RedisLedgerStore) Put(ctx context.Context, landlordId string, year int, records []PaymentRecord) error {
	// ledger history never expires
	if err := config.SetRedisObject(ledgerKey(landlordId, year), &records, 0); err != nil {
		return utils.WrapStoreError("ledger put", err)
	}
	return nil
}

// MemoryLedgerStore is an in-process store for tests.
type MemoryLedgerStore struct {
	mu      sync.Mutex
	records map[string][]PaymentRecord
}

func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{records: make(map[string][]PaymentRecord)}
}

func (s *MemoryLedgerStore) Get(ctx context.Context, landlordId string, year int) ([]PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.records[ledgerKey(landlordId, year)]
	out := make([]PaymentRecord, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *MemoryLedgerStore) Put(ctx context.Context, landlordId string, year int, records []PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]PaymentRecord, len(records))
	copy(stored, records)
	s.records[ledgerKey(landlordId, year)] = stored
	return nil
}

var ledgerStore LedgerStore = &RedisLedgerStore{}

func GetLedgerStore() LedgerStore {
	return ledgerStore
}

// SetLedgerStore swaps the backing store (in-memory for tests).
func SetLedgerStore(store LedgerStore) {
	ledgerStore = store
}

// Ledger reads and writes one landlord's reconciliation records for a year.
type Ledger struct {
	store      LedgerStore
	landlordId string
	year       int
}

func NewLedger(store LedgerStore, landlordId string, year int) *Ledger {
	return &Ledger{store: store, landlordId: landlordId, year: year}
}

func (l *Ledger) IsPaid(ctx context.Context, tenantId int, month int) (bool, error) {
	records, err := l.store.Get(ctx, l.landlordId, l.year)
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.TenantId == tenantId && r.Year == l.year && r.Month == month {
			return r.Paid, nil
		}
	}
	return false, nil
}

// MarkPaid upserts the record for (landlord, year, month, tenant): an
// existing record gets its amount and paid flag overwritten, otherwise a new
// record is appended. Writing twice with the same key never duplicates.
func (l *Ledger) MarkPaid(ctx context.Context, tenantId int, month int, amount decimal.Decimal) error {
	release, err := l.lock(ctx, "MarkPaid")
	if err != nil {
		return err
	}
	defer release()

	records, err := l.store.Get(ctx, l.landlordId, l.year)
	if err != nil {
		return err
	}
	found := false
	for i := range records {
		if records[i].TenantId == tenantId && records[i].Year == l.year && records[i].Month == month {
			records[i].Paid = true
			records[i].Amount = amount
			found = true
			break
		}
	}
	if !found {
		records = append(records, PaymentRecord{
			TenantId: tenantId,
			Year:     l.year,
			Month:    month,
			Paid:     true,
			Amount:   amount,
		})
	}
	return l.store.Put(ctx, l.landlordId, l.year, records)
}

// MarkUnpaid flips the paid flag off without deleting the record, keeping
// the amount for audit. Absent records are left absent.
func (l *Ledger) MarkUnpaid(ctx context.Context, tenantId int, month int) error {
	release, err := l.lock(ctx, "MarkUnpaid")
	if err != nil {
		return err
	}
	defer release()

	records, err := l.store.Get(ctx, l.landlordId, l.year)
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].TenantId == tenantId && records[i].Year == l.year && records[i].Month == month {
			records[i].Paid = false
			return l.store.Put(ctx, l.landlordId, l.year, records)
		}
	}
	return nil
}

// ActualRevenue sums the amounts of paid records for the given month.
func (l *Ledger) ActualRevenue(ctx context.Context, month int) (decimal.Decimal, error) {
	records, err := l.store.Get(ctx, l.landlordId, l.year)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range records {
		if r.Year == l.year && r.Month == month && r.Paid {
			total = total.Add(r.Amount)
		}
	}
	return total, nil
}

// PotentialRevenue sums the declared rent of all active tenants.
func PotentialRevenue(tenants []*Tenant) decimal.Decimal {
	total := decimal.Zero
	for _, t := range tenants {
		if t.Status == TenantStatusActive {
			total = total.Add(t.Rent)
		}
	}
	return total
}

// lock serializes read-modify-write cycles per landlord when a shared store
// is in use. Without redis (tests, single-process tools) writes fall back to
// the store's own synchronization.
func (l *Ledger) lock(ctx context.Context, funcName string) (func(), error) {
	if config.GetRedisLock() == nil {
		return func() {}, nil
	}
	return utils.LandlordLock(ctx, l.landlordId, "PaymentLedger", "PaymentLedger", funcName)
}
