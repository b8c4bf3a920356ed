package collectorhandler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"interview-prep-backend/config"
	"interview-prep-backend/db"
	aihandler "interview-prep-backend/lib/ai"
	collectorstore "interview-prep-backend/lib/collector/store"
	filestorage "interview-prep-backend/lib/file-storage"
	"interview-prep-backend/lib/flow"
	interviewhandler "interview-prep-backend/lib/interview"
	transcripthandler "interview-prep-backend/lib/transcript"
	initchecker "interview-prep-backend/lib/utils/init-checker"
	"interview-prep-backend/lib/utils/lock"
	"interview-prep-backend/lib/utils/metrics"
	"interview-prep-backend/models"
	apimodels "interview-prep-backend/models/api"
	collectorapimodels "interview-prep-backend/models/api/collector"
	dbmodels "interview-prep-backend/models/db"
)

const completionTemplate = "Perfect. I generated your interview and saved it to your dashboard. You can now start interview #%s."

type Provider interface {
	Start(ctx context.Context, req collectorapimodels.StartRequest) (collectorapimodels.StartResponse, error)
	Turn(ctx context.Context, sessionID string, req collectorapimodels.TurnRequest) (collectorapimodels.TurnResponse, error)
	Get(ctx context.Context, sessionID, userID string) (collectorapimodels.SessionView, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"interviewhandler", interviewhandler.Instance,
		"transcripthandler", transcripthandler.Instance,
		"aihandler", aihandler.Instance,
		"filestorage", filestorage.Instance,
	)
	Instance = impl{
		store:       collectorstore.NewInstance(db.DB),
		flow:        flow.NewService(),
		interviews:  interviewhandler.Instance,
		transcript:  transcripthandler.Instance,
		ai:          aihandler.Instance,
		fileStorage: filestorage.Instance,
		lockWait:    time.Duration(config.Conf.Cache.SessionLockWaitMsec) * time.Millisecond,
	}
}

type impl struct {
	store       collectorstore.Provider
	flow        flow.Service
	interviews  interviewhandler.Provider
	transcript  transcripthandler.Provider
	ai          aihandler.Provider
	fileStorage filestorage.Provider
	lockWait    time.Duration
}

func (i impl) getLogger(sessionID string) *log.Entry {
	logger := log.WithField("session_type", dbmodels.SessionTypeCollector)
	if sessionID != "" {
		logger = logger.WithField("session_id", sessionID)
	}
	return logger
}

func (i impl) Start(ctx context.Context, req collectorapimodels.StartRequest) (collectorapimodels.StartResponse, error) {
	state := i.flow.Start()
	userID := optional(req.UserID)
	sessionID, err := i.store.Create(dbmodels.CollectorSession{
		UserID:       userID,
		Status:       dbmodels.CollectorStatusCollecting,
		Payload:      datatypes.JSON(state.Payload.JSON()),
		CurrentField: state.Current.String(),
	})
	if err != nil {
		return collectorapimodels.StartResponse{}, errors.Wrap(err, "ошибка создания сессии сбора параметров")
	}

	message := i.flow.Greeting()
	if name := strings.TrimSpace(req.CandidateName); name != "" {
		message = fmt.Sprintf("Hi %s! %s", name, message)
	}
	if err = i.transcript.Record(dbmodels.SessionTypeCollector, sessionID, userID, dbmodels.SpeakerAssistant, message); err != nil {
		return collectorapimodels.StartResponse{}, err
	}
	i.getLogger(sessionID).Info("Сессия сбора параметров начата")
	return collectorapimodels.StartResponse{
		CollectorSessionID: sessionID,
		UserID:             req.UserID,
		AssistantMessage:   message,
		ExpectedField:      state.Current.String(),
		AudioData:          i.speak(ctx, sessionID, userID, message, req.WithAudio),
	}, nil
}

func (i impl) Turn(ctx context.Context, sessionID string, req collectorapimodels.TurnRequest) (collectorapimodels.TurnResponse, error) {
	var resp collectorapimodels.TurnResponse
	success, err := lock.WithDelay(ctx, lock.SessionKey(string(dbmodels.SessionTypeCollector), sessionID), i.lockWait, func() (turnErr error) {
		resp, turnErr = i.turn(ctx, sessionID, req)
		return turnErr
	})
	if err != nil {
		return collectorapimodels.TurnResponse{}, err
	}
	if !success {
		metrics.TurnsTotal.WithLabelValues(string(dbmodels.SessionTypeCollector), "busy").Inc()
		return collectorapimodels.TurnResponse{}, errors.Wrapf(models.ErrSessionBusy, "сессия сбора параметров %s", sessionID)
	}
	return resp, nil
}

func (i impl) turn(ctx context.Context, sessionID string, req collectorapimodels.TurnRequest) (collectorapimodels.TurnResponse, error) {
	logger := i.getLogger(sessionID)
	rec, err := i.getSession(sessionID, req.UserID)
	if err != nil {
		return collectorapimodels.TurnResponse{}, err
	}
	if rec.IsCompleted() {
		metrics.TurnsTotal.WithLabelValues(string(dbmodels.SessionTypeCollector), "rejected").Inc()
		return collectorapimodels.TurnResponse{}, errors.Wrapf(models.ErrCompleted, "сессия сбора параметров %s", sessionID)
	}
	effectiveUserID := req.UserID
	if effectiveUserID == "" {
		effectiveUserID = deref(rec.UserID)
	}
	userID := optional(effectiveUserID)

	current, err := flow.ParseField(rec.CurrentField)
	if err != nil {
		return collectorapimodels.TurnResponse{}, errors.Wrap(err, "некорректное поле в сессии сбора параметров")
	}
	payload, err := flow.ParsePayload(rec.Payload)
	if err != nil {
		return collectorapimodels.TurnResponse{}, err
	}

	if err = i.transcript.Record(dbmodels.SessionTypeCollector, rec.ID, userID, dbmodels.SpeakerUser, req.UserMessage); err != nil {
		return collectorapimodels.TurnResponse{}, err
	}

	out, err := i.flow.Advance(flow.State{Current: current, Payload: payload}, req.UserMessage)
	if err != nil {
		if errors.Is(err, flow.ErrCompleted) {
			return collectorapimodels.TurnResponse{}, errors.Wrapf(models.ErrCompleted, "сессия сбора параметров %s", sessionID)
		}
		return collectorapimodels.TurnResponse{}, err
	}

	resp := collectorapimodels.TurnResponse{
		CollectorSessionID: rec.ID,
		UserID:             effectiveUserID,
		Intent:             string(out.Intent),
	}
	updMap := map[string]interface{}{}
	if out.Mutated() {
		updMap["payload"] = datatypes.JSON(out.State.Payload.JSON())
		updMap["current_field"] = out.State.Current.String()
	}
	if rec.UserID == nil && userID != nil {
		updMap["user_id"] = *userID
	}

	switch {
	case out.Err != nil:
		resp.AssistantMessage = out.Reply
	case out.Completed():
		interviewID, reply, err := i.complete(ctx, rec.ID, effectiveUserID, out)
		if err != nil {
			return collectorapimodels.TurnResponse{}, err
		}
		resp.AssistantMessage = reply
		resp.Completed = true
		resp.InterviewID = interviewID
		// указатель остается на последнем собранном поле
		updMap["current_field"] = flow.FieldAmount.String()
		updMap["status"] = dbmodels.CollectorStatusCompleted
		updMap["interview_id"] = interviewID
	case out.Intent == flow.IntentAnswer:
		reply, err := i.ai.CollectorReply(ctx, rec.ID, out.Field, out.Value, out.NextPrompt)
		if err != nil {
			metrics.TurnsTotal.WithLabelValues(string(dbmodels.SessionTypeCollector), "provider_error").Inc()
			return collectorapimodels.TurnResponse{}, err
		}
		resp.AssistantMessage = reply
	default:
		resp.AssistantMessage = out.Reply
	}
	if !resp.Completed {
		resp.ExpectedField = out.State.Current.String()
	}

	if len(updMap) != 0 {
		if err = i.store.Update(rec.ID, updMap); err != nil {
			return collectorapimodels.TurnResponse{}, errors.Wrap(err, "ошибка обновления сессии сбора параметров")
		}
	}
	if err = i.transcript.Record(dbmodels.SessionTypeCollector, rec.ID, userID, dbmodels.SpeakerAssistant, resp.AssistantMessage); err != nil {
		return collectorapimodels.TurnResponse{}, err
	}

	outcome := string(out.Intent)
	if out.Err != nil {
		outcome = "validation_error"
	} else if resp.Completed {
		outcome = "completed"
	}
	metrics.TurnsTotal.WithLabelValues(string(dbmodels.SessionTypeCollector), outcome).Inc()
	logger.
		WithField("intent", out.Intent).
		WithField("field", out.Field.String()).
		WithField("expected_field", resp.ExpectedField).
		Debug("Реплика обработана")

	resp.AudioData = i.speak(ctx, rec.ID, userID, resp.AssistantMessage, req.WithAudio)
	return resp, nil
}

// complete генерирует интервью по собранным параметрам и формирует итоговую реплику
func (i impl) complete(ctx context.Context, sessionID, userID string, out flow.Outcome) (interviewID, reply string, err error) {
	setup, err := out.State.Payload.BuildSetup()
	if err != nil {
		return "", "", err
	}
	created, err := i.interviews.Create(ctx, sessionID, userID, setup)
	if err != nil {
		metrics.TurnsTotal.WithLabelValues(string(dbmodels.SessionTypeCollector), "provider_error").Inc()
		return "", "", err
	}
	completion := fmt.Sprintf(completionTemplate, created.InterviewID)
	reply, err = i.ai.CollectorReply(ctx, sessionID, out.Field, out.Value, completion)
	if err != nil {
		// интервью уже сохранено, сессию завершаем с шаблонной репликой
		i.getLogger(sessionID).
			WithError(err).
			Warn("не удалось получить итоговую реплику модели")
		reply = completion
	}
	i.getLogger(sessionID).
		WithField("interview_id", created.InterviewID).
		Info("Сбор параметров завершен")
	return created.InterviewID, reply, nil
}

func (i impl) Get(ctx context.Context, sessionID, userID string) (collectorapimodels.SessionView, error) {
	rec, err := i.getSession(sessionID, userID)
	if err != nil {
		return collectorapimodels.SessionView{}, err
	}
	payload := map[string]interface{}{}
	if len(rec.Payload) != 0 {
		if err = json.Unmarshal(rec.Payload, &payload); err != nil {
			return collectorapimodels.SessionView{}, errors.Wrap(err, "ошибка разбора собранных параметров")
		}
	}
	return collectorapimodels.SessionView{
		CollectorSessionID: rec.ID,
		UserID:             deref(rec.UserID),
		Status:             string(rec.Status),
		CurrentField:       rec.CurrentField,
		Payload:            payload,
		InterviewID:        deref(rec.InterviewID),
	}, nil
}

// getSession сессия без владельца доступна любому пользователю
func (i impl) getSession(sessionID, userID string) (*dbmodels.CollectorSession, error) {
	rec, err := i.store.GetByID(sessionID, "")
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сессии сбора параметров")
	}
	if rec == nil || (userID != "" && rec.UserID != nil && *rec.UserID != userID) {
		return nil, errors.Wrapf(models.ErrNotFound, "сессия сбора параметров %s", sessionID)
	}
	return rec, nil
}

// speak озвучивает реплику ассистента, ошибка синтеза не прерывает ответ
func (i impl) speak(ctx context.Context, sessionID string, userID *string, text string, withAudio bool) apimodels.AudioData {
	if !withAudio {
		return apimodels.AudioData{}
	}
	logger := i.getLogger(sessionID)
	speech, err := i.ai.Synthesize(ctx, text)
	if err != nil {
		logger.WithError(err).Warn("не удалось озвучить реплику ассистента")
		return apimodels.AudioData{}
	}
	_, err = i.fileStorage.SaveVoice(ctx, filestorage.VoiceUpload{
		SessionType: dbmodels.SessionTypeCollector,
		SessionID:   sessionID,
		UserID:      userID,
		Speaker:     dbmodels.SpeakerAssistant,
		ContentType: speech.ContentType,
		Data:        speech.Audio,
	})
	if err != nil {
		logger.WithError(err).Warn("не удалось сохранить аудио ассистента")
	}
	return apimodels.AudioData{
		AudioBase64: base64.StdEncoding.EncodeToString(speech.Audio),
		ContentType: speech.ContentType,
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
