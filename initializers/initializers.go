package initializers

import (
	"context"

	"github.com/bskqd/sd-solutions-test-task/config"
	"github.com/bskqd/sd-solutions-test-task/db"
	"github.com/bskqd/sd-solutions-test-task/fiberlog"
	assessmenthandler "github.com/bskqd/sd-solutions-test-task/lib/assessment"
	pdfexport "github.com/bskqd/sd-solutions-test-task/lib/export/pdf"
	xlsexport "github.com/bskqd/sd-solutions-test-task/lib/export/xls"
	filestorage "github.com/bskqd/sd-solutions-test-task/lib/file-storage"
	sharedcontext "github.com/bskqd/sd-solutions-test-task/lib/shared-context"
	s3client "github.com/bskqd/sd-solutions-test-task/s3"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Services долгоживущие зависимости, создаются один раз при старте
type Services struct {
	LoggerConfig  *fiberlog.Config
	Redis         *redis.Client
	DB            *gorm.DB
	S3            s3client.Provider
	SharedContext sharedcontext.Provider
	FileStorage   filestorage.Provider
	Assessment    assessmenthandler.Provider
	XlsExport     xlsexport.Provider
	PdfExport     pdfexport.Provider
}

func InitAllServices(ctx context.Context, conf *config.Configuration) (*Services, error) {
	services := &Services{
		LoggerConfig: InitLogger(conf.App.LogLevel),
	}
	var err error
	services.Redis, err = InitRedis(ctx, conf)
	if err != nil {
		return nil, err
	}
	services.DB, err = InitDBConnection(conf)
	if err != nil {
		services.Close()
		return nil, err
	}
	services.S3, err = InitS3(ctx, conf)
	if err != nil {
		services.Close()
		return nil, errors.Wrap(err, "ошибка инициализации S3")
	}
	agents, err := InitAI(conf, services.DB)
	if err != nil {
		services.Close()
		return nil, err
	}

	services.SharedContext = sharedcontext.NewInstance(services.Redis, conf.Redis.KeyPrefix, conf.Redis.TTL)
	services.FileStorage = filestorage.NewHandler(services.S3, conf.S3.PersistentDataBucket, conf.S3.LogsBucket)
	services.Assessment = assessmenthandler.NewHandler(services.SharedContext, agents, services.FileStorage)
	services.XlsExport = xlsexport.NewHandler()
	services.PdfExport = pdfexport.NewHandler(conf.Export.FontDir)
	return services, nil
}

// Ping проверка доступности хранилищ
func (s *Services) Ping(ctx context.Context) map[string]error {
	result := map[string]error{
		"redis": s.SharedContext.Ping(ctx),
		"s3":    s.S3.Ping(ctx),
	}
	if s.DB != nil {
		result["db"] = db.PingDB(ctx, s.DB)
	}
	return result
}

func (s *Services) Close() {
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.WithError(err).Warn("ошибка закрытия соединения с redis")
		}
	}
	if s.DB != nil {
		sqlDB, err := s.DB.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			log.WithError(err).Warn("ошибка закрытия соединения с БД")
		}
	}
}
