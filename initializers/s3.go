package initializers

import (
	"context"
	"time"

	"github.com/bskqd/sd-solutions-test-task/config"
	s3client "github.com/bskqd/sd-solutions-test-task/s3"

	log "github.com/sirupsen/logrus"
)

func InitS3(ctx context.Context, conf *config.Configuration) (s3client.Provider, error) {
	client, err := s3client.NewClient(s3client.Options{
		Endpoint:        conf.S3.Endpoint,
		AccessKeyID:     conf.S3.AccessKeyID,
		SecretAccessKey: conf.S3.SecretAccessKey,
		UseSSL:          *conf.S3.UseSSL,
		Region:          conf.S3.Region,
		PublicHost:      conf.S3.PublicHost,
		URLExpiry:       conf.S3.URLExpiry,
		MaxRetries:      conf.S3.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	// Проверка соединения
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = client.Ping(pingCtx); err != nil {
		log.WithError(err).Error("S3 соединение не удалось, ListBuckets вернул ошибку")
	} else {
		log.Info("S3 клиент успешно инициализирован")
	}
	return client, nil
}
