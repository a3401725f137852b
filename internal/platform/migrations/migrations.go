package migrations

import (
	"gorm.io/gorm"

	reportspg "github.com/bdotrack/bdo-api/internal/domains/reports/adapters/persistence/postgres"
	userspg "github.com/bdotrack/bdo-api/internal/domains/users/adapters/persistence/postgres"
)

// Run applies the relational schema for the bounded contexts.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&reportspg.ReportRecord{},
		&userspg.UserRecord{},
		&userspg.SessionRecord{},
	)
}
