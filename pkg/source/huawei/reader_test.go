package huawei

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/cloudboard/aggregator/pkg/pgutil"
	mghelper "github.com/cloudboard/aggregator/pkg/pgutil/migrations"
	"github.com/cloudboard/aggregator/pkg/unified"
)

func setupReader(t *testing.T) (context.Context, *bun.DB, *Reader) {
	t.Helper()
	requireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	err := mghelper.CreateSchema(ctx, db,
		&resourceRow{}, &domainRow{}, &cashBalanceRow{}, &storedCardRow{}, &billRow{})
	if err != nil {
		t.Fatalf("failed to create ingestion schema: %v", err)
	}

	return ctx, db, NewReader(db, zap.NewNop())
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

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed reader tests")
}

func TestReader_Resources_LatestBatchWithSkippedRows(t *testing.T) {
	ctx, db, reader := setupReader(t)
	expire := time.Now().UTC().AddDate(0, 0, 30)

	rows := []resourceRow{
		// Older batch, must never surface.
		{AccountName: "prod", ServiceType: "ECS", ResourceID: "ecs-old", ResourceName: "old", ExpireTime: &expire, BatchNumber: "SYNC_1000"},
		// Latest batch.
		{AccountName: "prod", ServiceType: "ECS", ResourceID: "ecs-1", ResourceName: "node-1", ExpireTime: &expire, BatchNumber: "SYNC_2000"},
		{AccountName: "prod", ServiceType: "RDS", ResourceID: "rds-1", ResourceName: "db-1", ExpireTime: &expire, BatchNumber: "SYNC_2000"},
		// Missing natural key: skipped, siblings still returned.
		{AccountName: "prod", ServiceType: "ECS", ResourceID: "", ResourceName: "broken", ExpireTime: &expire, BatchNumber: "SYNC_2000"},
	}
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		t.Fatalf("failed to seed resources: %v", err)
	}
	domains := []domainRow{
		{AccountName: "prod", ResourceID: "example.com", ResourceName: "example.com", ExpireTime: &expire},
	}
	if _, err := db.NewInsert().Model(&domains).Exec(ctx); err != nil {
		t.Fatalf("failed to seed domains: %v", err)
	}

	got, err := reader.Resources(ctx)
	if err != nil {
		t.Fatalf("Resources() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 resources (latest batch minus skipped, plus domain), got %d", len(got))
	}

	byID := make(map[string]unified.Resource, len(got))
	for _, res := range got {
		byID[res.ResourceID] = res
	}
	if _, ok := byID["ecs-old"]; ok {
		t.Fatal("resource from an older ingestion batch must not be returned")
	}
	if _, ok := byID["ecs-1"]; !ok {
		t.Fatal("missing resource ecs-1 from the latest batch")
	}
	if _, ok := byID["rds-1"]; !ok {
		t.Fatal("missing resource rds-1 from the latest batch")
	}
	dom, ok := byID["example.com"]
	if !ok {
		t.Fatal("domains must always be included")
	}
	if dom.ResourceType != "DOMAIN" || dom.Region != "global" {
		t.Fatalf("unexpected domain mapping: %+v", dom)
	}
}

func TestReader_Balances_LatestBatchAndValidCardsOnly(t *testing.T) {
	ctx, db, reader := setupReader(t)
	expire := time.Now().UTC().AddDate(1, 0, 0)

	cash := []cashBalanceRow{
		{AccountName: "prod", TotalAmount: decimal.RequireFromString("50.00"), Currency: "CNY", BatchNumber: "SYNC_1000"},
		{AccountName: "prod", TotalAmount: decimal.RequireFromString("120.00"), Currency: "CNY", BatchNumber: "SYNC_2000"},
	}
	if _, err := db.NewInsert().Model(&cash).Exec(ctx); err != nil {
		t.Fatalf("failed to seed cash balances: %v", err)
	}
	cards := []storedCardRow{
		{AccountName: "prod", CardID: "card-1", Balance: decimal.RequireFromString("500.00"), ExpireTime: &expire, Status: "VALID", BatchNumber: "SYNC_2000"},
		// Exhausted card, filtered by status.
		{AccountName: "prod", CardID: "card-2", Balance: decimal.Zero, ExpireTime: &expire, Status: "EXPIRED", BatchNumber: "SYNC_2000"},
		// Missing natural key: skipped.
		{AccountName: "prod", CardID: "", Balance: decimal.RequireFromString("10.00"), ExpireTime: &expire, Status: "VALID", BatchNumber: "SYNC_2000"},
		// Valid card of an older batch, excluded.
		{AccountName: "prod", CardID: "card-old", Balance: decimal.RequireFromString("300.00"), ExpireTime: &expire, Status: "VALID", BatchNumber: "SYNC_1000"},
	}
	if _, err := db.NewInsert().Model(&cards).Exec(ctx); err != nil {
		t.Fatalf("failed to seed stored cards: %v", err)
	}

	got, err := reader.Balances(ctx)
	if err != nil {
		t.Fatalf("Balances() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected one cash row and one card row, got %d", len(got))
	}

	var cashRow, cardRow *unified.AccountBalance
	for i := range got {
		switch got[i].BalanceType {
		case unified.BalanceTypeCash:
			cashRow = &got[i]
		case unified.BalanceTypeStoredCard:
			cardRow = &got[i]
		}
	}
	if cashRow == nil || !cashRow.Balance.Equal(decimal.RequireFromString("120.00")) {
		t.Fatalf("cash balance must come from the latest batch: %+v", cashRow)
	}
	if cardRow == nil || cardRow.CardID != "card-1" {
		t.Fatalf("expected only the valid latest-batch card: %+v", cardRow)
	}
}

func TestReader_Bills_SkipsUnmappableRows(t *testing.T) {
	ctx, db, reader := setupReader(t)
	created := time.Now().UTC().AddDate(0, 0, -1)

	bills := []billRow{
		{AccountName: "prod", ProjectName: "default", ServiceType: "ECS", Amount: decimal.RequireFromString("10.00"), CreatedAt: &created, BatchNumber: "SYNC_1000"},
		{AccountName: "prod", ProjectName: "default", ServiceType: "ECS", Amount: decimal.RequireFromString("12.00"), CreatedAt: &created, BatchNumber: "SYNC_2000"},
		{AccountName: "prod", ProjectName: "default", ServiceType: "RDS", Amount: decimal.RequireFromString("8.00"), CreatedAt: &created, BatchNumber: "SYNC_2000"},
		// Missing service type: skipped.
		{AccountName: "prod", ProjectName: "default", ServiceType: "", Amount: decimal.RequireFromString("99.00"), CreatedAt: &created, BatchNumber: "SYNC_2000"},
	}
	if _, err := db.NewInsert().Model(&bills).Exec(ctx); err != nil {
		t.Fatalf("failed to seed bills: %v", err)
	}

	got, err := reader.Bills(ctx)
	if err != nil {
		t.Fatalf("Bills() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bills from the latest batch, got %d", len(got))
	}
	for _, bill := range got {
		if bill.Amount.Equal(decimal.RequireFromString("10.00")) {
			t.Fatal("bill from an older ingestion batch must not be returned")
		}
		if bill.ServiceType == "" {
			t.Fatal("unmappable bill row must be skipped")
		}
	}
}
