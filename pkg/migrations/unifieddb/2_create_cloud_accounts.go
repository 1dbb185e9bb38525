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
		log.Println("creating cloud_accounts table...")
		if err := mghelper.CreateSchema(ctx, db, &unifiedstore.AccountDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &unifiedstore.AccountDao{}, "batch_id", "account_name")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping cloud_accounts table...")
		return mghelper.DropTables(ctx, db, &unifiedstore.AccountDao{})
	})
}
