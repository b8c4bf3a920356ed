package aihandler

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"interview-prep-backend/config"
	"interview-prep-backend/db"
	ailogstore "interview-prep-backend/lib/ai/ai-log-store"
	openaiclient "interview-prep-backend/lib/ai/openai-client"
	speechcache "interview-prep-backend/lib/ai/speech-cache"
	yagptclient "interview-prep-backend/lib/ai/yagpt-client"
	"interview-prep-backend/lib/flow"
	"interview-prep-backend/lib/utils/metrics"
	dbmodels "interview-prep-backend/models/db"
)

// Provider доступ к языковой модели: генерация вопросов, реплики ассистента, речь
type Provider interface {
	GenerateQuestions(ctx context.Context, sessionID string, setup flow.Setup) ([]string, error)
	CollectorReply(ctx context.Context, sessionID string, field flow.Field, userResponse, nextPrompt string) (string, error)
	InterviewReply(ctx context.Context, sessionID, userAnswer, currentQuestion, nextQuestion string) (string, error)
	Transcribe(ctx context.Context, fileName string, audio []byte) (string, error)
	Synthesize(ctx context.Context, text string) (speechcache.Speech, error)
}

type textGenerator interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}

type speechClient interface {
	Transcribe(ctx context.Context, fileName string, audio []byte) (string, error)
	Synthesize(ctx context.Context, text string) (audio []byte, contentType string, err error)
}

type impl struct {
	text       textGenerator
	textName   dbmodels.AiName
	speech     speechClient
	speechName dbmodels.AiName
	logStore   ailogstore.Provider
	cache      *speechcache.Cache
}

var Instance Provider

func NewHandler() {
	cfg := config.Conf.AI
	openAI := openaiclient.NewClient(openaiclient.Config{
		APIKey:          cfg.OpenAI.APIKey,
		BaseURL:         cfg.OpenAI.BaseURL,
		Model:           cfg.OpenAI.Model,
		TranscribeModel: cfg.OpenAI.TranscribeModel,
		TTSModel:        cfg.OpenAI.TTSModel,
		TTSVoice:        cfg.OpenAI.TTSVoice,
		TTSFormat:       cfg.OpenAI.TTSFormat,
		Timeout:         time.Duration(cfg.OpenAI.TimeoutSec) * time.Second,
	})
	var text textGenerator = openAI
	textName := dbmodels.AiOpenAIType
	if dbmodels.AiName(cfg.TextProvider) == dbmodels.AiYaGptType {
		text = yagptclient.NewClient(cfg.YandexGPT.IAMToken, cfg.YandexGPT.CatalogID)
		textName = dbmodels.AiYaGptType
	}
	log.Infof("Инициализация ИИ: текст - %v, речь - %v", textName, dbmodels.AiOpenAIType)
	Instance = newImpl(
		text, textName,
		openAI,
		ailogstore.NewInstance(db.DB),
		speechcache.New(cfg.OpenAI.TTSVoice, time.Duration(cfg.SpeechCacheTTLSec)*time.Second),
	)
}

func newImpl(text textGenerator, textName dbmodels.AiName, speech speechClient, logStore ailogstore.Provider, cache *speechcache.Cache) *impl {
	return &impl{
		text:       text,
		textName:   textName,
		speech:     speech,
		speechName: dbmodels.AiOpenAIType,
		logStore:   logStore,
		cache:      cache,
	}
}

func (i impl) getLogger() *log.Entry {
	return log.WithField("ai", i.textName)
}

func (i impl) GenerateQuestions(ctx context.Context, sessionID string, setup flow.Setup) ([]string, error) {
	if setup.Amount < flow.MinAmount || setup.Amount > flow.MaxAmount {
		return nil, errors.Errorf("некорректное количество вопросов: %d", setup.Amount)
	}
	answer, err := i.chat(ctx, sessionID, dbmodels.AiGenerateQuestionsType, questionsSystemPrompt, questionsPrompt(setup), questionsTemperature)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка генерации вопросов")
	}
	questions, err := parseQuestions(answer, setup.Amount)
	if err != nil {
		i.getLogger().
			WithField("session_id", sessionID).
			WithField("answer", answer).
			WithError(err).
			Warn("Модель вернула некорректный список вопросов")
		return nil, err
	}
	return questions, nil
}

func (i impl) CollectorReply(ctx context.Context, sessionID string, field flow.Field, userResponse, nextPrompt string) (string, error) {
	answer, err := i.chat(ctx, sessionID, dbmodels.AiCollectorReplyType, collectorSystemPrompt, collectorPrompt(field, userResponse, nextPrompt), replyTemperature)
	if err != nil {
		return "", errors.Wrap(err, "ошибка генерации ответа ассистента")
	}
	if answer == "" {
		return fallbackReply(nextPrompt), nil
	}
	return answer, nil
}

func (i impl) InterviewReply(ctx context.Context, sessionID, userAnswer, currentQuestion, nextQuestion string) (string, error) {
	answer, err := i.chat(ctx, sessionID, dbmodels.AiInterviewReplyType, interviewSystemPrompt, interviewPrompt(userAnswer, currentQuestion, nextQuestion), replyTemperature)
	if err != nil {
		return "", errors.Wrap(err, "ошибка генерации ответа интервьюера")
	}
	if answer == "" {
		if nextQuestion == "" {
			return closingReply, nil
		}
		return fallbackReply(nextQuestion), nil
	}
	return answer, nil
}

func (i impl) Transcribe(ctx context.Context, fileName string, audio []byte) (string, error) {
	started := time.Now()
	text, err := i.speech.Transcribe(ctx, fileName, audio)
	metrics.ObserveAI(string(i.speechName), "transcribe", started, err)
	if err != nil {
		return "", errors.Wrap(err, "ошибка распознавания речи")
	}
	if text == "" {
		return "", errors.New("речь не распознана")
	}
	return text, nil
}

func (i impl) Synthesize(ctx context.Context, text string) (speechcache.Speech, error) {
	if strings.TrimSpace(text) == "" {
		return speechcache.Speech{}, errors.New("пустой текст для синтеза речи")
	}
	if i.cache != nil {
		if speech, ok := i.cache.Get(text); ok {
			return speech, nil
		}
	}
	started := time.Now()
	audio, contentType, err := i.speech.Synthesize(ctx, text)
	metrics.ObserveAI(string(i.speechName), "synthesize", started, err)
	if err != nil {
		return speechcache.Speech{}, errors.Wrap(err, "ошибка синтеза речи")
	}
	speech := speechcache.Speech{Audio: audio, ContentType: contentType}
	if i.cache != nil {
		i.cache.Set(text, speech)
	}
	return speech, nil
}

func (i impl) chat(ctx context.Context, sessionID string, reqType dbmodels.AiReqestType, systemPrompt, userPrompt string, temperature float64) (string, error) {
	started := time.Now()
	answer, err := i.text.Chat(ctx, systemPrompt, userPrompt, temperature)
	metrics.ObserveAI(string(i.textName), string(reqType), started, err)
	duration := time.Since(started).Seconds()
	logger := i.getLogger().
		WithField("session_id", sessionID).
		WithField("request_type", reqType).
		WithField("answer_duration_sec", duration)
	if err != nil {
		logger.WithError(err).Error("Ошибка запроса к ИИ")
	} else {
		logger.WithField("answer", answer).Debug("Ответ ИИ")
	}
	i.saveLog(dbmodels.AiLog{
		SysPromt:    systemPrompt,
		UserPromt:   userPrompt,
		Answer:      answer,
		SessionID:   sessionID,
		ReqestType:  reqType,
		AiName:      i.textName,
		DurationSec: duration,
		Error:       errorText(err),
	})
	return strings.TrimSpace(answer), err
}

func (i impl) saveLog(rec dbmodels.AiLog) {
	if i.logStore == nil {
		return
	}
	if _, err := i.logStore.Save(rec); err != nil {
		i.getLogger().
			WithField("session_id", rec.SessionID).
			WithError(err).
			Warn("Ошибка сохранения журнала запросов к ИИ")
	}
}

const closingReply = "Thank you, that was the last question. Great job today!"

func fallbackReply(next string) string {
	if next == "" {
		return "Thanks."
	}
	return "Thanks. " + next
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
