package initializers

import (
	"github.com/bskqd/sd-solutions-test-task/config"
	gpthandler "github.com/bskqd/sd-solutions-test-task/lib/gpt"
	openaiclient "github.com/bskqd/sd-solutions-test-task/lib/gpt/openai-client"
	ailogstore "github.com/bskqd/sd-solutions-test-task/lib/gpt/store"
	yagptclient "github.com/bskqd/sd-solutions-test-task/lib/gpt/yagpt-client"
	dbmodels "github.com/bskqd/sd-solutions-test-task/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func InitAI(conf *config.Configuration, DB *gorm.DB) (gpthandler.Provider, error) {
	var client gpthandler.Completer
	var aiName dbmodels.AiName
	switch conf.AI.Provider {
	case config.AiProviderOpenAI:
		client = openaiclient.NewClient(conf.OpenAI.APIKey, conf.OpenAI.BaseURL, conf.OpenAI.Model)
		aiName = dbmodels.AiOpenAIType
	case config.AiProviderYandexGPT:
		client = yagptclient.NewClient(conf.YandexGPT.IAMToken, conf.YandexGPT.CatalogID)
		aiName = dbmodels.AiYaGptType
	default:
		return nil, errors.Errorf("неизвестный провайдер ИИ: %s", conf.AI.Provider)
	}

	var logStore ailogstore.Provider
	if DB != nil {
		logStore = ailogstore.NewInstance(DB)
	}
	agents := gpthandler.NewHandler(client, aiName, logStore, conf.AI.QuestionsCount)
	log.
		WithField("ai", aiName).
		WithField("ai_log", logStore != nil).
		Info("клиент ИИ успешно инициализирован")
	return gpthandler.WithRetry(agents, gpthandler.RetryOptions{
		Timeout:    conf.AI.Timeout,
		MaxRetries: uint64(conf.AI.MaxRetries),
		BaseDelay:  conf.AI.RetryBaseDelay,
	}), nil
}
