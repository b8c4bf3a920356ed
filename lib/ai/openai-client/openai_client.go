package openaiclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

type Provider interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
	Transcribe(ctx context.Context, fileName string, audio []byte) (string, error)
	Synthesize(ctx context.Context, text string) (audio []byte, contentType string, err error)
}

type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	TranscribeModel string
	TTSModel        string
	TTSVoice        string
	TTSFormat       string
	Timeout         time.Duration
}

type impl struct {
	cfg    Config
	client *openai.Client
}

func NewClient(cfg Config) Provider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: cfg.Timeout,
	}
	return &impl{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (i impl) Chat(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	if err := i.checkConfig(); err != nil {
		return "", err
	}
	resp, err := i.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: i.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: float32(temperature),
	})
	if err != nil {
		return "", errors.Wrap(err, "ошибка запроса к OpenAI API")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("OpenAI не вернул ни одного варианта ответа")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (i impl) Transcribe(ctx context.Context, fileName string, audio []byte) (string, error) {
	if err := i.checkConfig(); err != nil {
		return "", err
	}
	if len(audio) == 0 {
		return "", errors.New("пустой аудио файл")
	}
	if fileName == "" {
		fileName = "audio.wav"
	}
	resp, err := i.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    i.cfg.TranscribeModel,
		FilePath: fileName,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", errors.Wrap(err, "ошибка транскрибации в OpenAI API")
	}
	return strings.TrimSpace(resp.Text), nil
}

func (i impl) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	if err := i.checkConfig(); err != nil {
		return nil, "", err
	}
	resp, err := i.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(i.cfg.TTSModel),
		Voice:          openai.SpeechVoice(i.cfg.TTSVoice),
		Input:          text,
		ResponseFormat: openai.SpeechResponseFormat(i.cfg.TTSFormat),
	})
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка синтеза речи в OpenAI API")
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, "", errors.Wrap(err, "ошибка чтения аудио OpenAI")
	}
	if len(audio) == 0 {
		return nil, "", errors.New("OpenAI вернул пустое аудио")
	}
	return audio, "audio/" + i.cfg.TTSFormat, nil
}

func (i impl) checkConfig() error {
	if i.cfg.APIKey == "" {
		return errors.New("не указан ключ OpenAI API")
	}
	if i.cfg.BaseURL == "" {
		return errors.New("не указан адрес OpenAI API")
	}
	return nil
}
