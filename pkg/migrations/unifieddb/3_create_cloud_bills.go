package unifieddb

import (
	"context"
	"log"

	mghelper "github.com/cloudboard/aggregator/pkg/pgutil/migrations"
	"github.com/cloudboard/aggregator/pkg/unifiedstore"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating cloud_bills table...")
		if err := mghelper.CreateSchema(ctx, db, &unifiedstore.BillDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &unifiedstore.BillDao{}, "batch_id", "billing_date")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping cloud_bills table...")
		return mghelper.DropTables(ctx, db, &unifiedstore.BillDao{})
	})
}
