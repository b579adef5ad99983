package db

import (
	dbmodels "github.com/bskqd/sd-solutions-test-task/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func AutoMigrateDB(DB *gorm.DB) error {
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.AiLog{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры AiLog")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
