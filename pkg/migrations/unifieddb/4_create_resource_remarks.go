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
		log.Println("creating resource_remarks table...")
		// Composite primary key (cloud_provider, resource_id) comes from the model.
		return mghelper.CreateSchema(ctx, db, &unifiedstore.RemarkDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping resource_remarks table...")
		return mghelper.DropTables(ctx, db, &unifiedstore.RemarkDao{})
	})
}
