package migrations

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"

	"github.com/cloudboard/aggregator/pkg/config"
	"github.com/cloudboard/aggregator/pkg/pgutil"
)

// Test DAO for testing purposes
type testDao struct {
	bun.BaseModel `bun:"table:test_table"`
	ID            int64  `bun:",pk,autoincrement"`
	Name          string `bun:",notnull,type:varchar(100)"`
	Age           int    `bun:",nullzero"`
}

func requireDockerAccess(t *testing.T) {
	t.Helper()

	candidates := []string{
		"/var/run/docker.sock",
		filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock"),
	}

	for _, sock := range candidates {
		if sock == "" {
			continue
		}
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", sock)
		if err == nil {
			_ = conn.Close()
			return
		}
	}

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed migration helper tests")
}

func TestConnectDB_Success(t *testing.T) {
	requireDockerAccess(t)
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()

	// Verify connection works
	err := db.Ping()
	if err != nil {
		t.Errorf("Ping() failed: %v", err)
	}
}

func TestConnectDB_InvalidHost(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "invalid-host-that-does-not-exist",
		Port:     5432,
		User:     "test",
		Password: "test",
		Database: "test",
		SSLMode:  "disable",
	}

	db, err := pgutil.ConnectDB(cfg)
	if err == nil {
		db.Close()
		t.Error("ConnectDB() should fail with invalid host")
	}
}

func TestCreateSchema(t *testing.T) {
	requireDockerAccess(t)
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Create schema
	err := CreateSchema(ctx, db, &testDao{})
	if err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}

	// Verify table exists
	pgutil.AssertTableExists(t, db, "test_table")

	// Verify idempotency - calling again should not fail
	err = CreateSchema(ctx, db, &testDao{})
	if err != nil {
		t.Errorf("CreateSchema() second call failed: %v", err)
	}
}

func TestDropTables(t *testing.T) {
	requireDockerAccess(t)
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Create table first
	err := CreateSchema(ctx, db, &testDao{})
	if err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	pgutil.AssertTableExists(t, db, "test_table")

	// Drop table
	err = DropTables(ctx, db, &testDao{})
	if err != nil {
		t.Fatalf("DropTables() failed: %v", err)
	}

	// Verify table dropped
	pgutil.AssertTableNotExists(t, db, "test_table")

	// Verify idempotency - calling again should not fail
	err = DropTables(ctx, db, &testDao{})
	if err != nil {
		t.Errorf("DropTables() second call failed: %v", err)
	}
}

func TestCreateModelIndexes(t *testing.T) {
	requireDockerAccess(t)
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Create table
	err := CreateSchema(ctx, db, &testDao{})
	if err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}

	// Create indexes from model
	err = CreateModelIndexes(ctx, db, &testDao{}, "name", "age")
	if err != nil {
		t.Fatalf("CreateModelIndexes() failed: %v", err)
	}

	// Verify indexes exist
	pgutil.AssertIndexExists(t, db, "idx_test_table_name")
	pgutil.AssertIndexExists(t, db, "idx_test_table_age")

	// Verify idempotency
	err = CreateModelIndexes(ctx, db, &testDao{}, "name")
	if err != nil {
		t.Errorf("CreateModelIndexes() second call failed: %v", err)
	}
}

func TestCreateModelUniqueIndexes(t *testing.T) {
	requireDockerAccess(t)
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Create table
	err := CreateSchema(ctx, db, &testDao{})
	if err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}

	// Create unique indexes from model
	err = CreateModelUniqueIndexes(ctx, db, &testDao{}, "name")
	if err != nil {
		t.Fatalf("CreateModelUniqueIndexes() failed: %v", err)
	}

	// Verify index exists
	pgutil.AssertIndexExists(t, db, "idx_test_table_name")

	// Verify uniqueness by inserting duplicates
	if _, err := db.NewInsert().Model(&testDao{Name: "Unique", Age: 20}).Exec(ctx); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if _, err := db.NewInsert().Model(&testDao{Name: "Unique", Age: 25}).Exec(ctx); err == nil {
		t.Error("Expected duplicate insert to fail, but it succeeded")
	}
}
