package database

import (
	"fmt"
	"log/slog"

	"github.com/PrjctQ/qcore/pkg/config"

	"gorm.io/gorm"
)

// Migrate creates or updates tables for the given models when auto-migration
// is enabled. Models must be listed in dependency order (FK targets first).
func Migrate(db *gorm.DB, cfg *config.Config, models ...any) error {
	if !cfg.Database.IsAutoMigrate {
		slog.Info("database auto-migration disabled",
			"auto_migrate", false, "env", cfg.App.Env,
		)
		return nil
	}

	// Safety check: prevent accidental schema changes in production
	if cfg.IsProduction() {
		return fmt.Errorf("DB_AUTO_MIGRATE=true is not allowed in production")
	}

	slog.Info("running database auto-migration",
		"auto_migrate", true, "env", cfg.App.Env, "models", len(models),
	)

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
		slog.Debug("table migrated", "model", fmt.Sprintf("%T", m))
	}

	return nil
}
