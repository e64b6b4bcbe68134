package models

import (
	"fmt"
	"strings"

	"github.com/mlazarev/tracknest/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.DSN))
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

// sqliteDSN enables foreign-key enforcement on every pooled connection.
// sqlite ships with it off, and a session-level PRAGMA would only cover
// one connection, so the switch has to ride on the DSN. Without it the
// ON DELETE CASCADE constraints are silently ignored.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func AutoMigrate() error {
	if err := DB.AutoMigrate(
		&User{},
		&Project{},
		&Issue{},
		&ActivityLog{},
	); err != nil {
		return err
	}
	return createSearchIndexes(DB)
}

// createSearchIndexes adds GIN indexes for full-text search. Postgres
// only; the other drivers fall back to LIKE queries at search time.
func createSearchIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	stmts := []string{
		`CREATE INDEX IF NOT EXISTS issue_fts_idx ON issues
			USING gin (to_tsvector('english', title || ' ' || description))`,
		`CREATE INDEX IF NOT EXISTS project_fts_idx ON projects
			USING gin (to_tsvector('english', name || ' ' || key))`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
