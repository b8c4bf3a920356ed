package yagptclient

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	yandexgptclient "github.com/sheeiavellie/go-yandexgpt"
)

type Provider interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}

type impl struct {
	client    *yandexgptclient.YandexGPTClient
	catalogID string
}

func NewClient(token, catalog string) Provider {
	return impl{
		client:    yandexgptclient.NewYandexGPTClientWithIAMToken(token),
		catalogID: catalog,
	}
}

func (i impl) Chat(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	if i.catalogID == "" {
		return "", errors.New("не указан каталог YandexGPT")
	}
	options := yandexgptclient.YandexGPTCompletionOptions{
		Stream:      false,
		Temperature: 0.3,
		MaxTokens:   2000,
	}
	// для разговорных ответов модель менее строгая
	if temperature >= 0.6 {
		options.Temperature = 0.7
	}
	request := yandexgptclient.YandexGPTRequest{
		ModelURI:          yandexgptclient.MakeModelURI(i.catalogID, yandexgptclient.YandexGPTModelLite),
		CompletionOptions: options,
		Messages: []yandexgptclient.YandexGPTMessage{
			{
				Role: yandexgptclient.YandexGPTMessageRoleSystem,
				Text: systemPrompt,
			},
			{
				Role: yandexgptclient.YandexGPTMessageRoleUser,
				Text: userPrompt,
			},
		},
	}

	response, err := i.client.CreateRequest(ctx, request)
	if err != nil {
		return "", errors.Wrap(err, "Ошибка при отправке запроса на генерацию в API YandexGPT")
	}
	if len(response.Result.Alternatives) == 0 {
		return "", errors.New("YandexGPT не вернул ни одного варианта ответа")
	}
	return strings.TrimSpace(response.Result.Alternatives[0].Message.Text), nil
}
