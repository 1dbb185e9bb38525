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
		log.Println("creating sync_logs table...")
		if err := mghelper.CreateSchema(ctx, db, &unifiedstore.SyncLogDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &unifiedstore.SyncLogDao{}, "batch_id", "sync_type", "started_at")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping sync_logs table...")
		return mghelper.DropTables(ctx, db, &unifiedstore.SyncLogDao{})
	})
}
