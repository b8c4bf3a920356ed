package interviewhandler

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"interview-prep-backend/config"
	"interview-prep-backend/db"
	aihandler "interview-prep-backend/lib/ai"
	"interview-prep-backend/lib/flow"
	interviewsessionstore "interview-prep-backend/lib/interview/session-store"
	interviewstore "interview-prep-backend/lib/interview/store"
	questioncache "interview-prep-backend/lib/question-cache"
	transcripthandler "interview-prep-backend/lib/transcript"
	initchecker "interview-prep-backend/lib/utils/init-checker"
	"interview-prep-backend/lib/utils/lock"
	"interview-prep-backend/lib/utils/metrics"
	"interview-prep-backend/models"
	interviewapimodels "interview-prep-backend/models/api/interview"
	dbmodels "interview-prep-backend/models/db"
)

const (
	firstQuestionTemplate = "Great, let’s begin. First question: %s"
	nextQuestionTemplate  = "Welcome back. Next question: %s"
)

type Provider interface {
	Create(ctx context.Context, sourceSessionID, userID string, setup flow.Setup) (interviewapimodels.CreateResponse, error)
	List(ctx context.Context, userID string) ([]interviewapimodels.ListItem, error)
	Get(ctx context.Context, id, userID string) (interviewapimodels.CreateResponse, error)
	StartSession(ctx context.Context, interviewID, userID string) (interviewapimodels.SessionStartResponse, error)
	Turn(ctx context.Context, sessionID string, req interviewapimodels.TurnRequest) (interviewapimodels.TurnResponse, error)
	GetSession(ctx context.Context, sessionID, userID string) (interviewapimodels.SessionView, error)
	ListSessions(ctx context.Context, interviewID, userID string) ([]interviewapimodels.SessionView, error)
	Opening(ctx context.Context, sessionID, userID string) (Opening, error)
}

// Opening реплика ассистента при подключении к голосовому каналу
type Opening struct {
	SessionID     string
	UserID        string
	Status        dbmodels.InterviewSessionStatus
	QuestionIndex int
	Text          string
}

var Instance Provider

func NewHandler(cache *questioncache.Cache) {
	initchecker.CheckInit(
		"transcripthandler", transcripthandler.Instance,
		"aihandler", aihandler.Instance,
		"questioncache", cache,
	)
	Instance = impl{
		store:        interviewstore.NewInstance(db.DB),
		sessionStore: interviewsessionstore.NewInstance(db.DB),
		transcript:   transcripthandler.Instance,
		ai:           aihandler.Instance,
		cache:        cache,
		lockWait:     time.Duration(config.Conf.Cache.SessionLockWaitMsec) * time.Millisecond,
	}
}

type impl struct {
	store        interviewstore.Provider
	sessionStore interviewsessionstore.Provider
	transcript   transcripthandler.Provider
	ai           aihandler.Provider
	cache        *questioncache.Cache
	lockWait     time.Duration
}

func (i impl) getLogger(sessionID string) *log.Entry {
	logger := log.WithField("session_type", dbmodels.SessionTypeInterview)
	if sessionID != "" {
		logger = logger.WithField("session_id", sessionID)
	}
	return logger
}

func (i impl) Create(ctx context.Context, sourceSessionID, userID string, setup flow.Setup) (interviewapimodels.CreateResponse, error) {
	questions, err := i.ai.GenerateQuestions(ctx, sourceSessionID, setup)
	if err != nil {
		return interviewapimodels.CreateResponse{}, err
	}
	rec := dbmodels.Interview{
		UserID:        optional(userID),
		Role:          setup.Role,
		InterviewType: setup.InterviewType,
		Level:         setup.Level,
		TechStack:     setup.TechStack,
		Amount:        setup.Amount,
		Questions:     questions,
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return interviewapimodels.CreateResponse{}, errors.Wrap(err, "ошибка сохранения интервью")
	}
	i.cache.SetInterviewQuestions(id, questions)
	i.getLogger("").
		WithField("interview_id", id).
		WithField("questions", len(questions)).
		Info("Интервью создано")
	return interviewapimodels.CreateResponse{
		InterviewID: id,
		UserID:      userID,
		Questions:   questions,
	}, nil
}

func (i impl) List(ctx context.Context, userID string) ([]interviewapimodels.ListItem, error) {
	list, err := i.store.List(userID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка интервью")
	}
	result := make([]interviewapimodels.ListItem, 0, len(list))
	for _, rec := range list {
		result = append(result, interviewapimodels.ListItem{
			ID:            rec.ID,
			UserID:        deref(rec.UserID),
			Role:          rec.Role,
			InterviewType: rec.InterviewType,
			Level:         rec.Level,
			TechStack:     append([]string{}, rec.TechStack...),
			Amount:        rec.Amount,
			CreatedAt:     rec.CreatedAt,
		})
	}
	return result, nil
}

func (i impl) Get(ctx context.Context, id, userID string) (interviewapimodels.CreateResponse, error) {
	rec, err := i.getInterview(id, userID)
	if err != nil {
		return interviewapimodels.CreateResponse{}, err
	}
	return interviewapimodels.CreateResponse{
		InterviewID: rec.ID,
		UserID:      deref(rec.UserID),
		Questions:   i.interviewQuestions(rec),
	}, nil
}

func (i impl) StartSession(ctx context.Context, interviewID, userID string) (interviewapimodels.SessionStartResponse, error) {
	rec, err := i.getInterview(interviewID, userID)
	if err != nil {
		return interviewapimodels.SessionStartResponse{}, err
	}
	questions := i.interviewQuestions(rec)
	if len(questions) == 0 {
		return interviewapimodels.SessionStartResponse{}, errors.Wrapf(models.ErrNoQuestions, "интервью %s", interviewID)
	}
	effectiveUserID := userID
	if effectiveUserID == "" {
		effectiveUserID = deref(rec.UserID)
	}
	sessionID, err := i.sessionStore.Create(dbmodels.InterviewSession{
		UserID:       optional(effectiveUserID),
		InterviewID:  rec.ID,
		Status:       dbmodels.InterviewSessionActive,
		CurrentIndex: 0,
	})
	if err != nil {
		return interviewapimodels.SessionStartResponse{}, errors.Wrap(err, "ошибка создания сессии интервью")
	}
	i.cache.SetSessionQuestions(sessionID, questions)

	message := fmt.Sprintf(firstQuestionTemplate, questions[0])
	if err = i.transcript.Record(dbmodels.SessionTypeInterview, sessionID, optional(effectiveUserID), dbmodels.SpeakerAssistant, message); err != nil {
		return interviewapimodels.SessionStartResponse{}, err
	}
	i.getLogger(sessionID).
		WithField("interview_id", rec.ID).
		Info("Сессия интервью начата")
	return interviewapimodels.SessionStartResponse{
		InterviewSessionID: sessionID,
		UserID:             effectiveUserID,
		AssistantMessage:   message,
		QuestionIndex:      0,
	}, nil
}

func (i impl) Turn(ctx context.Context, sessionID string, req interviewapimodels.TurnRequest) (interviewapimodels.TurnResponse, error) {
	var resp interviewapimodels.TurnResponse
	success, err := lock.WithDelay(ctx, lock.SessionKey(string(dbmodels.SessionTypeInterview), sessionID), i.lockWait, func() (turnErr error) {
		resp, turnErr = i.turn(ctx, sessionID, req)
		return turnErr
	})
	if err != nil {
		return interviewapimodels.TurnResponse{}, err
	}
	if !success {
		metrics.TurnsTotal.WithLabelValues(string(dbmodels.SessionTypeInterview), "busy").Inc()
		return interviewapimodels.TurnResponse{}, errors.Wrapf(models.ErrSessionBusy, "сессия интервью %s", sessionID)
	}
	return resp, nil
}

func (i impl) turn(ctx context.Context, sessionID string, req interviewapimodels.TurnRequest) (interviewapimodels.TurnResponse, error) {
	logger := i.getLogger(sessionID)
	sess, err := i.getSession(sessionID, req.UserID)
	if err != nil {
		return interviewapimodels.TurnResponse{}, err
	}
	if sess.IsCompleted() {
		metrics.TurnsTotal.WithLabelValues(string(dbmodels.SessionTypeInterview), "rejected").Inc()
		return interviewapimodels.TurnResponse{}, errors.Wrapf(models.ErrCompleted, "сессия интервью %s", sessionID)
	}
	effectiveUserID := req.UserID
	if effectiveUserID == "" {
		effectiveUserID = deref(sess.UserID)
	}
	rec, err := i.getInterview(sess.InterviewID, effectiveUserID)
	if err != nil {
		return interviewapimodels.TurnResponse{}, err
	}
	questions := i.sessionQuestions(sess.ID, rec)
	if len(questions) == 0 {
		return interviewapimodels.TurnResponse{}, errors.Wrapf(models.ErrNoQuestions, "интервью %s", rec.ID)
	}

	idx := sess.CurrentIndex
	if idx >= len(questions) {
		// индекс вышел за список вопросов, фиксируем завершение
		if err = i.sessionStore.Update(sess.ID, map[string]interface{}{"status": dbmodels.InterviewSessionCompleted}); err != nil {
			return interviewapimodels.TurnResponse{}, errors.Wrap(err, "ошибка завершения сессии интервью")
		}
		i.cache.ClearSession(sess.ID)
		metrics.TurnsTotal.WithLabelValues(string(dbmodels.SessionTypeInterview), "rejected").Inc()
		return interviewapimodels.TurnResponse{}, errors.Wrapf(models.ErrCompleted, "все вопросы интервью %s заданы", rec.ID)
	}

	userID := optional(effectiveUserID)
	if err = i.transcript.Record(dbmodels.SessionTypeInterview, sess.ID, userID, dbmodels.SpeakerUser, req.UserMessage); err != nil {
		return interviewapimodels.TurnResponse{}, err
	}

	currentQuestion := questions[idx]
	nextIdx := idx + 1
	nextQuestion := ""
	if nextIdx < len(questions) {
		nextQuestion = questions[nextIdx]
	}
	reply, err := i.ai.InterviewReply(ctx, sess.ID, req.UserMessage, currentQuestion, nextQuestion)
	if err != nil {
		metrics.TurnsTotal.WithLabelValues(string(dbmodels.SessionTypeInterview), "provider_error").Inc()
		return interviewapimodels.TurnResponse{}, err
	}

	resp := interviewapimodels.TurnResponse{
		InterviewSessionID: sess.ID,
		UserID:             effectiveUserID,
		UserMessage:        req.UserMessage,
		AssistantMessage:   reply,
	}
	updMap := map[string]interface{}{}
	if nextQuestion == "" {
		updMap["current_index"] = len(questions)
		updMap["status"] = dbmodels.InterviewSessionCompleted
		resp.Status = string(dbmodels.InterviewSessionCompleted)
	} else {
		updMap["current_index"] = nextIdx
		resp.Status = string(dbmodels.InterviewSessionActive)
		resp.QuestionIndex = &nextIdx
	}
	if err = i.sessionStore.Update(sess.ID, updMap); err != nil {
		return interviewapimodels.TurnResponse{}, errors.Wrap(err, "ошибка обновления сессии интервью")
	}
	if resp.QuestionIndex == nil {
		i.cache.ClearSession(sess.ID)
		logger.Info("Интервью завершено")
	}
	if err = i.transcript.Record(dbmodels.SessionTypeInterview, sess.ID, userID, dbmodels.SpeakerAssistant, reply); err != nil {
		return interviewapimodels.TurnResponse{}, err
	}
	metrics.TurnsTotal.WithLabelValues(string(dbmodels.SessionTypeInterview), resp.Status).Inc()
	return resp, nil
}

func (i impl) GetSession(ctx context.Context, sessionID, userID string) (interviewapimodels.SessionView, error) {
	sess, err := i.getSession(sessionID, userID)
	if err != nil {
		return interviewapimodels.SessionView{}, err
	}
	total := 0
	if questions, ok := i.cache.GetSessionQuestions(sess.ID); ok {
		total = len(questions)
	} else {
		rec, err := i.store.GetByID(sess.InterviewID, "")
		if err != nil {
			return interviewapimodels.SessionView{}, errors.Wrap(err, "ошибка получения интервью")
		}
		if rec != nil {
			total = len(rec.Questions)
		}
	}
	return toSessionView(*sess, total), nil
}

func (i impl) ListSessions(ctx context.Context, interviewID, userID string) ([]interviewapimodels.SessionView, error) {
	rec, err := i.getInterview(interviewID, userID)
	if err != nil {
		return nil, err
	}
	list, err := i.sessionStore.ListByInterview(rec.ID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка сессий интервью")
	}
	result := make([]interviewapimodels.SessionView, 0, len(list))
	for _, sess := range list {
		result = append(result, toSessionView(sess, len(rec.Questions)))
	}
	return result, nil
}

func (i impl) Opening(ctx context.Context, sessionID, userID string) (Opening, error) {
	sess, err := i.getSession(sessionID, userID)
	if err != nil {
		return Opening{}, err
	}
	rec, err := i.getInterview(sess.InterviewID, userID)
	if err != nil {
		return Opening{}, err
	}
	questions := i.sessionQuestions(sess.ID, rec)
	if len(questions) == 0 {
		return Opening{}, errors.Wrapf(models.ErrNoQuestions, "интервью %s", rec.ID)
	}
	if sess.IsCompleted() || sess.CurrentIndex >= len(questions) {
		return Opening{}, errors.Wrapf(models.ErrCompleted, "сессия интервью %s", sessionID)
	}

	result := Opening{
		SessionID:     sess.ID,
		UserID:        userID,
		Status:        sess.Status,
		QuestionIndex: sess.CurrentIndex,
	}
	if sess.CurrentIndex == 0 {
		result.Text = fmt.Sprintf(firstQuestionTemplate, questions[0])
	} else {
		result.Text = fmt.Sprintf(nextQuestionTemplate, questions[sess.CurrentIndex])
	}
	isEmpty, err := i.transcript.IsEmpty(dbmodels.SessionTypeInterview, sess.ID)
	if err != nil {
		return Opening{}, err
	}
	if isEmpty {
		if err = i.transcript.Record(dbmodels.SessionTypeInterview, sess.ID, optional(userID), dbmodels.SpeakerAssistant, result.Text); err != nil {
			return Opening{}, err
		}
	}
	return result, nil
}

func (i impl) getInterview(id, userID string) (*dbmodels.Interview, error) {
	rec, err := i.store.GetByID(id, userID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения интервью")
	}
	if rec == nil {
		return nil, errors.Wrapf(models.ErrNotFound, "интервью %s", id)
	}
	return rec, nil
}

func (i impl) getSession(id, userID string) (*dbmodels.InterviewSession, error) {
	sess, err := i.sessionStore.GetByID(id, userID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сессии интервью")
	}
	if sess == nil {
		return nil, errors.Wrapf(models.ErrNotFound, "сессия интервью %s", id)
	}
	return sess, nil
}

// interviewQuestions вопросы из кэша, при промахе из хранилища с повторным кэшированием
func (i impl) interviewQuestions(rec *dbmodels.Interview) []string {
	if questions, ok := i.cache.GetInterviewQuestions(rec.ID); ok {
		return questions
	}
	questions := append([]string{}, rec.Questions...)
	i.cache.SetInterviewQuestions(rec.ID, questions)
	return questions
}

func (i impl) sessionQuestions(sessionID string, rec *dbmodels.Interview) []string {
	questions, ok := i.cache.GetSessionQuestions(sessionID)
	if !ok {
		questions = i.interviewQuestions(rec)
	}
	i.cache.SetSessionQuestions(sessionID, questions)
	return questions
}

func toSessionView(sess dbmodels.InterviewSession, total int) interviewapimodels.SessionView {
	return interviewapimodels.SessionView{
		InterviewSessionID: sess.ID,
		InterviewID:        sess.InterviewID,
		UserID:             deref(sess.UserID),
		Status:             string(sess.Status),
		CurrentIndex:       sess.CurrentIndex,
		TotalQuestions:     total,
		CreatedAt:          sess.CreatedAt,
		UpdatedAt:          sess.UpdatedAt,
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
