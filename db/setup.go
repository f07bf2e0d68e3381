package db

import (
	"github.com/volunhub-dev/volunhub/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Application{},
		&models.ReviewerPermission{},
		&models.Task{},
		&models.OpenPosition{},
		&models.Notification{},
		&models.Thread{},
		&models.Comment{},
		&models.Reply{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	// At most one ACTIVE grant per (project, reviewer). Revoked grants are
	// kept as the audit trail, so the index has to be partial; gorm tags
	// cannot express that, hence raw SQL.
	err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_active_reviewer_grant
		ON reviewer_permissions (project_id, reviewer_id) WHERE status = 'ACTIVE'`).Error

	if err != nil {
		return err
	}

	return nil
}
