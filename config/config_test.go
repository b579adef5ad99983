package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.Nil(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run(`defaults`, func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		conf, err := Load(writeConfig(t, "App:\n  Port: 8080\n"))
		require.Nil(t, err)
		require.Equal(t, "redis://localhost:6379/0", conf.Redis.URL)
		require.Nil(t, conf.Redis.DB)
		require.Equal(t, "candidates-info", conf.S3.PersistentDataBucket)
		require.Equal(t, "logs", conf.S3.LogsBucket)
		require.Equal(t, 3, conf.S3.MaxRetries)
		require.Equal(t, AiProviderOpenAI, conf.AI.Provider)
		require.Equal(t, 3, conf.AI.QuestionsCount)
		require.Equal(t, 60*time.Second, conf.AI.Timeout)
		require.False(t, *conf.Database.Enabled)
	})

	t.Run(`environment overrides`, func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("REDIS_HOST_URL", "redis://cache:6379/0")
		t.Setenv("REDIS_SHARED_CONTEXT_DB", "2")
		t.Setenv("MINIO_URL", "minio:9000")
		t.Setenv("MINIO_SECURE", "true")
		t.Setenv("MINIO_PUBLIC_HOST", "https://files.example.com")
		t.Setenv("PERSISTENT_DATA_BUCKET_NAME", "archive")
		t.Setenv("LOGS_BUCKET_NAME", "sessions")
		conf, err := Load(writeConfig(t, "App:\n  Port: 8080\n"))
		require.Nil(t, err)
		require.Equal(t, "redis://cache:6379/0", conf.Redis.URL)
		require.Equal(t, 2, *conf.Redis.DB)
		require.Equal(t, "minio:9000", conf.S3.Endpoint)
		require.True(t, *conf.S3.UseSSL)
		require.Equal(t, "https://files.example.com", conf.S3.PublicHost)
		require.Equal(t, "archive", conf.S3.PersistentDataBucket)
		require.Equal(t, "sessions", conf.S3.LogsBucket)
	})

	t.Run(`yandexgpt requires credentials`, func(t *testing.T) {
		t.Setenv("AI_PROVIDER", AiProviderYandexGPT)
		_, err := Load(writeConfig(t, "App:\n  Port: 8080\n"))
		require.NotNil(t, err)

		t.Setenv("YANDEX_GPT_IAM_TOKEN", "token")
		t.Setenv("YANDEX_GPT_CATALOG_ID", "catalog")
		conf, err := Load(writeConfig(t, "App:\n  Port: 8080\n"))
		require.Nil(t, err)
		require.Equal(t, "catalog", conf.YandexGPT.CatalogID)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Configuration {
		conf := Configuration{}
		conf.App.Port = 8080
		conf.Redis.URL = "redis://localhost:6379/0"
		conf.S3.Endpoint = "localhost:9000"
		conf.S3.PersistentDataBucket = "candidates-info"
		conf.S3.LogsBucket = "logs"
		conf.AI.Provider = AiProviderOpenAI
		conf.AI.QuestionsCount = 3
		conf.OpenAI.APIKey = "sk-test"
		return conf
	}

	t.Run(`valid`, func(t *testing.T) {
		require.Nil(t, valid().Validate())
	})

	t.Run(`invalid`, func(t *testing.T) {
		cases := map[string]func(conf *Configuration){
			"no openai key":       func(conf *Configuration) { conf.OpenAI.APIKey = "" },
			"unknown ai provider": func(conf *Configuration) { conf.AI.Provider = "llama" },
			"same buckets":        func(conf *Configuration) { conf.S3.LogsBucket = "candidates-info" },
			"empty bucket":        func(conf *Configuration) { conf.S3.LogsBucket = "" },
			"negative retries":    func(conf *Configuration) { conf.AI.MaxRetries = -1 },
			"negative ttl":        func(conf *Configuration) { conf.Redis.TTL = -time.Second },
			"no redis url":        func(conf *Configuration) { conf.Redis.URL = " " },
			"no questions":        func(conf *Configuration) { conf.AI.QuestionsCount = 0 },
		}
		for name, mutate := range cases {
			conf := valid()
			mutate(&conf)
			require.NotNil(t, conf.Validate(), name)
		}
	})
}
