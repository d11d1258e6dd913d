package api

import (
	"context"

	"github.com/AmonKats-dev/action-log-app/config"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/glebarez/sqlite"
	"github.com/m-mizutani/goerr/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixed id shared by every instance that runs migrations
const migrateLockID int64 = 20260222

func OpenDatabase(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseDSN,
			PreferSimpleProtocol: true,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// postgres errors stay as *pgconn.PgError for helper.ConstraintName
		TranslateError: cfg.DatabaseDriver == "sqlite",
	})
	if err != nil {
		return nil, goerr.Wrap(err, "database connection error", goerr.V("driver", cfg.DatabaseDriver))
	}
	return db, nil
}

// Migrate creates the schema and seeds roles. On Postgres it holds an
// advisory lock on a single connection so concurrent instances serialize.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return migrate(ctx, db)
	}

	return db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := conn.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
			return goerr.Wrap(err, "migration lock error")
		}
		defer conn.Exec("SELECT pg_advisory_unlock(?)", migrateLockID)

		return migrate(ctx, conn)
	})
}

func migrate(ctx context.Context, db *gorm.DB) error {
	if err := repository.AutoMigrate(ctx, db); err != nil {
		return err
	}
	return repository.SeedRoles(ctx, db)
}
