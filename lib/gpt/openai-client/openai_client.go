package openaiclient

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

const DefaultModel = openai.GPT3Dot5Turbo

type Provider interface {
	GenerateByPromtAndText(ctx context.Context, promt, text string) (generatedText string, err error)
}

type impl struct {
	client *openai.Client
	model  string
}

// NewClient baseURL можно не указывать, тогда используется api.openai.com
func NewClient(apiKey, baseURL, model string) Provider {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return impl{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

func (i impl) GenerateByPromtAndText(ctx context.Context, promt, text string) (generatedText string, err error) {
	request := openai.ChatCompletionRequest{
		Model: i.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: promt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	}
	response, err := i.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", errors.Wrap(err, "ошибка при отправке запроса в API OpenAI")
	}
	if len(response.Choices) == 0 {
		return "", errors.New("OpenAI вернул пустой ответ")
	}
	return response.Choices[0].Message.Content, nil
}
