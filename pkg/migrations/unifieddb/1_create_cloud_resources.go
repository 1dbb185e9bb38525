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
		log.Println("creating cloud_resources table...")
		if err := mghelper.CreateSchema(ctx, db, &unifiedstore.ResourceDao{}); err != nil {
			return err
		}
		// Create indexes
		return mghelper.CreateModelIndexes(ctx, db, &unifiedstore.ResourceDao{}, "batch_id", "remaining_days", "cloud_provider")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping cloud_resources table...")
		return mghelper.DropTables(ctx, db, &unifiedstore.ResourceDao{})
	})
}
