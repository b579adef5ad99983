package initializers

import (
	"context"
	"time"

	"github.com/bskqd/sd-solutions-test-task/config"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func InitRedis(ctx context.Context, conf *config.Configuration) (*redis.Client, error) {
	opts, err := redis.ParseURL(conf.Redis.URL)
	if err != nil {
		return nil, errors.Wrap(err, "некорректный адрес redis")
	}
	if conf.Redis.DB != nil {
		opts.DB = *conf.Redis.DB
	}
	client := redis.NewClient(opts)

	// Проверка соединения, при ошибке сервис стартует и отвечает 503
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Error("redis недоступен")
	} else {
		log.WithField("db", opts.DB).Info("redis клиент успешно инициализирован")
	}
	return client, nil
}
