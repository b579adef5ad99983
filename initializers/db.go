package initializers

import (
	"github.com/bskqd/sd-solutions-test-task/config"
	"github.com/bskqd/sd-solutions-test-task/db"

	"gorm.io/gorm"
)

// InitDBConnection nil, если журнал обращений к ИИ отключен
func InitDBConnection(conf *config.Configuration) (*gorm.DB, error) {
	if !*conf.Database.Enabled {
		return nil, nil
	}
	return db.Connect(db.Options{
		Host:      conf.Database.Host,
		Port:      conf.Database.Port,
		Database:  conf.Database.Name,
		User:      conf.Database.User,
		Password:  conf.Database.Password,
		DebugMode: *conf.Database.DebugMode,
		Migrate:   *conf.Database.MigrateOnStart,
	})
}
