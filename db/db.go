package db

import (
	"context"
	"fmt"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	Host      string
	Port      string
	Database  string
	User      string
	Password  string
	DebugMode bool
	Migrate   bool
}

func (o Options) dsn() string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s", o.Host, o.Port, o.User, o.Database, o.Password)
}

// Connect подключается к БД журнала обращений к ИИ
func Connect(opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(opts.dsn()), &gorm.Config{
		Logger: gorm_logrus.New(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "Ошибка подключения к БД")
	}
	if opts.DebugMode {
		db.Logger = logger.Default.LogMode(logger.Info)
		db = db.Debug()
	}
	if opts.Migrate {
		if err = AutoMigrateDB(db); err != nil {
			return nil, err
		}
	}
	log.Info("Сервис успешно подключен к БД")
	return db, nil
}

func PingDB(ctx context.Context, DB *gorm.DB) error {
	db, err := DB.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}
