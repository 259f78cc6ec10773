package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mmdatafocus/rentals_backend/config"
	"github.com/mmdatafocus/rentals_backend/models"
	"github.com/mmdatafocus/rentals_backend/utils"
	"github.com/shopspring/decimal"
)

func TestTenantLifecycleUnitExclusivityAndLedger(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "rentals_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	landlordID := "landlord-it-1"
	ctx = utils.SetLandlordIdInContext(ctx, landlordID)
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Test")

	// Portfolio setup: one property, one unit.
	property, err := models.CreateProperty(ctx, &models.NewProperty{
		Name:    "Maple Court",
		Address: "12 Maple St",
		City:    "Springfield",
	})
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}

	unit, err := models.CreateUnit(ctx, &models.NewUnit{
		PropertyId: property.ID,
		UnitNumber: "101",
		Rent:       decimal.NewFromInt(1200),
	})
	if err != nil {
		t.Fatalf("CreateUnit: %v", err)
	}

	// First tenant takes the unit; input is sanitized and the phone
	// number normalized on the way in.
	alice, err := models.CreateTenant(ctx, &models.NewTenant{
		Name:       "<b>Alice</b> Smith",
		Email:      "alice@example.com",
		Phone:      "5551234567",
		UnitNumber: "101",
		MoveInDate: time.Now(),
		Rent:       decimal.NewFromInt(1200),
		Deposit:    decimal.NewFromInt(1200),
	})
	if err != nil {
		t.Fatalf("CreateTenant(alice): %v", err)
	}
	if alice.Name != "Alice Smith" {
		t.Errorf("Name = %q, want sanitized %q", alice.Name, "Alice Smith")
	}
	if alice.Phone != "(555) 123-4567" {
		t.Errorf("Phone = %q, want normalized %q", alice.Phone, "(555) 123-4567")
	}

	// A second active tenant cannot claim the same unit.
	_, err = models.CreateTenant(ctx, &models.NewTenant{
		Name:       "Bob Jones",
		Email:      "bob@example.com",
		UnitNumber: "101",
		MoveInDate: time.Now(),
		Rent:       decimal.NewFromInt(1100),
	})
	if err == nil {
		t.Fatal("second tenant on occupied unit accepted, want conflict")
	}
	if !utils.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}

	// The occupant may keep its unit on update.
	alice, err = models.UpdateTenant(ctx, alice.ID, &models.NewTenant{
		Name:       "Alice Smith",
		Email:      "alice@example.com",
		Phone:      alice.Phone,
		UnitNumber: "101",
		MoveInDate: alice.MoveInDate,
		Rent:       decimal.NewFromInt(1200),
		Deposit:    decimal.NewFromInt(1200),
		Status:     models.TenantStatusActive,
	})
	if err != nil {
		t.Fatalf("UpdateTenant(alice keeps unit): %v", err)
	}

	// Occupancy flag and tenant reference flip together.
	unit, err = models.AssignTenantToUnit(ctx, unit.ID, alice.ID)
	if err != nil {
		t.Fatalf("AssignTenantToUnit: %v", err)
	}
	if unit.TenantId != alice.ID {
		t.Errorf("unit.TenantId = %d, want %d", unit.TenantId, alice.ID)
	}

	// A completed rent payment marks the month paid in the ledger.
	paymentDate := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	payment, err := models.CreatePayment(ctx, &models.NewPayment{
		TenantId: alice.ID,
		Amount:   decimal.NewFromInt(1200),
		Date:     paymentDate,
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if payment.Type != models.PaymentTypeRent || payment.Status != models.PaymentStatusCompleted {
		t.Fatalf("payment defaults wrong: type=%q status=%q", payment.Type, payment.Status)
	}

	ledger := models.NewLedger(models.GetLedgerStore(), landlordID, 2026)
	paid, err := ledger.IsPaid(ctx, alice.ID, 3)
	if err != nil {
		t.Fatalf("IsPaid: %v", err)
	}
	if !paid {
		t.Error("ledger does not show March paid after completed rent payment")
	}

	// An overpayment beyond 1.5x the expected rent is rejected.
	_, err = models.CreatePayment(ctx, &models.NewPayment{
		TenantId: alice.ID,
		Amount:   decimal.NewFromInt(2000),
		Date:     paymentDate,
	})
	if err == nil {
		t.Error("payment of 2000 against expected rent 1200 accepted, want error")
	}

	// Deposit payments are not held to the rent reference; twice the rent
	// is a perfectly normal deposit.
	depositPayment, err := models.CreatePayment(ctx, &models.NewPayment{
		TenantId: alice.ID,
		Amount:   decimal.NewFromInt(2400),
		Date:     paymentDate,
		Type:     models.PaymentTypeDeposit,
	})
	if err != nil {
		t.Fatalf("CreatePayment(deposit of 2x rent): %v", err)
	}
	if depositPayment.Type != models.PaymentTypeDeposit {
		t.Errorf("deposit payment type = %q, want %q", depositPayment.Type, models.PaymentTypeDeposit)
	}

	// Consistent records produce no findings.
	findings, err := models.RunConsistencyScan(ctx)
	if err != nil {
		t.Fatalf("RunConsistencyScan: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("got %d findings on consistent data: %+v", len(findings), findings)
	}

	// Tenants with payment history cannot be deleted.
	if _, err := models.DeleteTenant(ctx, alice.ID); err == nil {
		t.Error("tenant with payments deleted, want refusal")
	}

	// Unassignment clears both sides in one step.
	unit, err = models.UnassignTenantFromUnit(ctx, unit.ID)
	if err != nil {
		t.Fatalf("UnassignTenantFromUnit: %v", err)
	}
	if unit.TenantId != 0 {
		t.Errorf("unit.TenantId = %d after unassign, want 0", unit.TenantId)
	}
	alice2, err := models.GetTenant(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetTenant: %v", err)
	}
	if alice2.UnitNumber != "" {
		t.Errorf("tenant.UnitNumber = %q after unassign, want empty", alice2.UnitNumber)
	}

	// Usernames are unique across landlords, so the duplicate check must
	// look past the caller's landlord scope.
	if _, err := models.CreateUser(ctx, &models.NewUser{
		LandlordId: landlordID,
		Username:   "manager",
		Name:       "Manager",
		Password:   "secret123",
	}); err != nil {
		t.Fatalf("CreateUser(manager): %v", err)
	}
	otherCtx := utils.SetLandlordIdInContext(context.Background(), "landlord-it-2")
	if _, err := models.CreateUser(otherCtx, &models.NewUser{
		LandlordId: "landlord-it-2",
		Username:   "manager",
		Name:       "Other Manager",
		Password:   "secret123",
	}); err == nil {
		t.Error("duplicate username across landlords accepted, want rejection")
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("rentals-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("rentals-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=rentals_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
