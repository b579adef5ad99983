package config

import (
	"strings"
	"time"

	"github.com/gotify/configor"
	"github.com/pkg/errors"
)

const (
	AiProviderOpenAI    = "openai"
	AiProviderYandexGPT = "yandexgpt"
)

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
		LogLevel   string `default:"info" env:"APP_LOG_LEVEL"`
		// ErrNotifyURL адрес для уведомлений об ошибках 5xx, пусто - уведомления отключены
		ErrNotifyURL string `default:"" env:"APP_ERR_NOTIFY_URL"`
		SwaggerPath  string `default:"./docs/swagger.json" env:"APP_SWAGGER_PATH"`
	}
	Redis struct {
		URL       string        `default:"redis://localhost:6379/0" env:"REDIS_HOST_URL"`
		DB        *int          `env:"REDIS_SHARED_CONTEXT_DB"`
		KeyPrefix string        `default:"" env:"REDIS_KEY_PREFIX"`
		TTL       time.Duration `default:"0s" env:"REDIS_SESSION_TTL"`
	}
	S3 struct {
		Endpoint             string        `default:"localhost:9000" env:"MINIO_URL"`
		UseSSL               *bool         `default:"false" env:"MINIO_SECURE"`
		AccessKeyID          string        `default:"" env:"MINIO_ACCESS_KEY"`
		SecretAccessKey      string        `default:"" env:"MINIO_SECRET_KEY"`
		PublicHost           string        `default:"" env:"MINIO_PUBLIC_HOST"`
		Region               string        `default:"us-east-1" env:"MINIO_REGION"`
		URLExpiry            time.Duration `default:"168h" env:"MINIO_URL_EXPIRY"`
		MaxRetries           int           `default:"3" env:"MINIO_MAX_RETRIES"`
		PersistentDataBucket string        `default:"candidates-info" env:"PERSISTENT_DATA_BUCKET_NAME"`
		LogsBucket           string        `default:"logs" env:"LOGS_BUCKET_NAME"`
	}
	AI struct {
		Provider       string        `default:"openai" env:"AI_PROVIDER"`
		QuestionsCount int           `default:"3" env:"AI_QUESTIONS_COUNT"`
		Timeout        time.Duration `default:"60s" env:"AI_TIMEOUT"`
		MaxRetries     int           `default:"2" env:"AI_MAX_RETRIES"`
		RetryBaseDelay time.Duration `default:"1s" env:"AI_RETRY_BASE_DELAY"`
	}
	OpenAI struct {
		APIKey  string `default:"" env:"OPENAI_API_KEY"`
		BaseURL string `default:"" env:"OPENAI_BASE_URL"`
		Model   string `default:"gpt-3.5-turbo" env:"OPENAI_MODEL"`
	}
	YandexGPT struct {
		IAMToken  string `default:"" env:"YANDEX_GPT_IAM_TOKEN"`
		CatalogID string `default:"" env:"YANDEX_GPT_CATALOG_ID"`
	}
	// Database журнал обращений к ИИ, без базы журнал не ведется
	Database struct {
		Enabled        *bool  `default:"false" env:"DB_ENABLED"`
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"assessment" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Export struct {
		// FontDir каталог с DejaVuSans.ttf для pdf отчетов, пусто - встроенный шрифт
		FontDir string `default:"" env:"EXPORT_FONT_DIR"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

// Load читает конфигурацию из файлов (отсутствующие файлы пропускаются) и переменных окружения
func Load(files ...string) (*Configuration, error) {
	if len(files) == 0 {
		files = configFiles()
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, files...)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения конфигурации")
	}
	if err = conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c Configuration) Validate() error {
	if c.App.Port <= 0 {
		return errors.Errorf("некорректный порт: %d", c.App.Port)
	}
	if strings.TrimSpace(c.Redis.URL) == "" {
		return errors.New("не указан адрес redis (REDIS_HOST_URL)")
	}
	if c.Redis.DB != nil && *c.Redis.DB < 0 {
		return errors.Errorf("некорректный номер базы redis: %d", *c.Redis.DB)
	}
	if c.Redis.TTL < 0 {
		return errors.New("время жизни сессии не может быть отрицательным")
	}
	if strings.TrimSpace(c.S3.Endpoint) == "" {
		return errors.New("не указан адрес хранилища (MINIO_URL)")
	}
	if c.S3.PersistentDataBucket == "" || c.S3.LogsBucket == "" {
		return errors.New("не указаны бакеты хранилища")
	}
	if c.S3.PersistentDataBucket == c.S3.LogsBucket {
		return errors.New("бакеты данных кандидатов и журнала сессий должны различаться")
	}
	if c.AI.QuestionsCount <= 0 {
		return errors.Errorf("некорректное количество вопросов: %d", c.AI.QuestionsCount)
	}
	if c.AI.MaxRetries < 0 || c.AI.Timeout < 0 || c.AI.RetryBaseDelay < 0 {
		return errors.New("параметры повторов запросов к ИИ не могут быть отрицательными")
	}
	switch c.AI.Provider {
	case AiProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return errors.New("не указан ключ OpenAI (OPENAI_API_KEY)")
		}
	case AiProviderYandexGPT:
		if c.YandexGPT.IAMToken == "" || c.YandexGPT.CatalogID == "" {
			return errors.New("не указаны параметры YandexGPT (YANDEX_GPT_IAM_TOKEN, YANDEX_GPT_CATALOG_ID)")
		}
	default:
		return errors.Errorf("неизвестный провайдер ИИ: %s", c.AI.Provider)
	}
	return nil
}
