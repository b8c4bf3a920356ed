package voice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"runtime/debug"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	aihandler "interview-prep-backend/lib/ai"
	filestorage "interview-prep-backend/lib/file-storage"
	interviewhandler "interview-prep-backend/lib/interview"
	initchecker "interview-prep-backend/lib/utils/init-checker"
	voicehub "interview-prep-backend/lib/voice/hub"
	"interview-prep-backend/models"
	apimodels "interview-prep-backend/models/api"
	interviewapimodels "interview-prep-backend/models/api/interview"
	dbmodels "interview-prep-backend/models/db"
	wsmodels "interview-prep-backend/models/ws"
)

const defaultAudioFileName = "voice_input.webm"

// Conn websocket соединение клиента голосового канала
type Conn interface {
	voicehub.Conn
	ReadMessage() (messageType int, p []byte, err error)
}

var closeCodes []int

func init() {
	for i := websocket.CloseNormalClosure; i <= websocket.CloseTLSHandshake; i++ {
		closeCodes = append(closeCodes, i)
	}
}

type Relay struct {
	interviews  interviewhandler.Provider
	ai          aihandler.Provider
	fileStorage filestorage.Provider
	hub         voicehub.Provider
}

var Instance *Relay

func NewHandler() {
	initchecker.CheckInit(
		"interviewhandler", interviewhandler.Instance,
		"aihandler", aihandler.Instance,
		"filestorage", filestorage.Instance,
		"voicehub", voicehub.Instance,
	)
	Instance = &Relay{
		interviews:  interviewhandler.Instance,
		ai:          aihandler.Instance,
		fileStorage: filestorage.Instance,
		hub:         voicehub.Instance,
	}
}

// client одно подключение к голосовому каналу
type client struct {
	*Relay
	conn      Conn
	sess      *voicehub.Session
	sessionID string
	userID    string
	logger    *log.Entry
}

// Serve обслуживает подключение до его закрытия. Сообщения клиента обрабатываются строго по одному.
func (r *Relay) Serve(conn Conn, sessionID, userID string) {
	c := &client{
		Relay:     r,
		conn:      conn,
		sessionID: sessionID,
		userID:    userID,
		logger: log.
			WithField("session_type", dbmodels.SessionTypeInterview).
			WithField("session_id", sessionID),
	}
	c.sess = r.hub.AddClient(sessionID, conn)
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", rec)
			c.sess.Send(wsmodels.NewError("Internal error"))
			c.sess.Close(websocket.CloseInternalServerErr, "")
		}
		r.hub.DeleteClient(sessionID, c.sess)
		<-c.sess.Done()
	}()
	c.logger.Info("Голосовой канал подключен")

	if !c.open() {
		return
	}
	c.dispatch()
	c.logger.Info("Голосовой канал отключен")
}

func (c *client) ctx() context.Context {
	return c.sess.Context()
}

// open отправляет текущий вопрос, false если соединение закрывается
func (c *client) open() bool {
	opening, err := c.interviews.Opening(c.ctx(), c.sessionID, c.userID)
	if err != nil {
		return c.handleTerminal(err)
	}
	questionIndex := opening.QuestionIndex
	audio := c.speak(opening.Text)
	c.sess.Send(wsmodels.ServerMessage{
		Type:                      wsmodels.EventAssistantPrompt,
		UserID:                    c.userID,
		InterviewSessionID:        opening.SessionID,
		Status:                    string(opening.Status),
		QuestionIndex:             &questionIndex,
		AssistantText:             opening.Text,
		AssistantAudioBase64:      audio.AudioBase64,
		AssistantAudioContentType: audio.ContentType,
	})
	return true
}

func (c *client) dispatch() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, closeCodes...) && c.ctx().Err() == nil {
				c.logger.WithError(err).Error("ошибка получения сообщения")
			}
			return
		}
		if c.ctx().Err() != nil {
			return
		}
		if !c.handle(data) {
			return
		}
	}
}

// handle обрабатывает одно сообщение клиента, false если соединение закрывается
func (c *client) handle(data []byte) bool {
	msg := wsmodels.ClientMessage{}
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sess.Send(wsmodels.NewError("Invalid JSON payload"))
		return true
	}
	if msg.Type == wsmodels.EventPing {
		c.sess.Send(wsmodels.ServerMessage{Type: wsmodels.EventPong})
		return true
	}
	if msg.Type != wsmodels.EventUserAudio && msg.Type != wsmodels.EventUserText {
		c.sess.Send(wsmodels.NewError("Unsupported type. Use user_audio, user_text, or ping"))
		return true
	}

	// состояние перечитывается на каждое сообщение
	view, err := c.interviews.GetSession(c.ctx(), c.sessionID, c.userID)
	if err != nil {
		return c.handleTurnError(err)
	}
	if view.Status == string(dbmodels.InterviewSessionCompleted) {
		c.sess.Send(wsmodels.NewCompleted("Interview already completed"))
		return true
	}

	var userText string
	switch msg.Type {
	case wsmodels.EventUserAudio:
		userText, err = c.transcribe(msg)
		if err != nil {
			c.sess.Send(wsmodels.NewError(err.Error()))
			return true
		}
	case wsmodels.EventUserText:
		userText = strings.TrimSpace(msg.Text)
		if userText == "" {
			c.sess.Send(wsmodels.NewError("text is required for user_text"))
			return true
		}
	}

	resp, err := c.interviews.Turn(c.ctx(), c.sessionID, interviewapimodels.TurnRequest{
		UserMessage: userText,
		UserID:      c.userID,
	})
	if err != nil {
		return c.handleTurnError(err)
	}
	audio := c.speak(resp.AssistantMessage)
	c.sess.Send(wsmodels.ServerMessage{
		Type:                      wsmodels.EventAssistantTurn,
		UserID:                    c.userID,
		InterviewSessionID:        resp.InterviewSessionID,
		Status:                    resp.Status,
		QuestionIndex:             resp.QuestionIndex,
		UserText:                  userText,
		AssistantText:             resp.AssistantMessage,
		AssistantAudioBase64:      audio.AudioBase64,
		AssistantAudioContentType: audio.ContentType,
	})
	return true
}

func (c *client) transcribe(msg wsmodels.ClientMessage) (string, error) {
	if msg.AudioBase64 == "" {
		return "", errors.New("audio_base64 is required")
	}
	audio, err := base64.StdEncoding.DecodeString(msg.AudioBase64)
	if err != nil || len(audio) == 0 {
		return "", errors.New("invalid base64 audio")
	}
	fileName := msg.Filename
	if fileName == "" {
		fileName = defaultAudioFileName
	}
	text, err := c.ai.Transcribe(c.ctx(), fileName, audio)
	if err != nil {
		c.logger.WithError(err).Error("ошибка распознавания аудио")
		return "", errors.New("failed to transcribe audio")
	}
	c.archive(dbmodels.SpeakerUser, fileName, "", audio)
	return text, nil
}

// speak озвучивает реплику, при ошибке синтеза реплика уходит без аудио
func (c *client) speak(text string) apimodels.AudioData {
	speech, err := c.ai.Synthesize(c.ctx(), text)
	if err != nil {
		c.logger.WithError(err).Warn("не удалось озвучить реплику ассистента")
		return apimodels.AudioData{}
	}
	c.archive(dbmodels.SpeakerAssistant, "", speech.ContentType, speech.Audio)
	return apimodels.AudioData{
		AudioBase64: base64.StdEncoding.EncodeToString(speech.Audio),
		ContentType: speech.ContentType,
	}
}

func (c *client) archive(speaker dbmodels.Speaker, fileName, contentType string, audio []byte) {
	_, err := c.fileStorage.SaveVoice(c.ctx(), filestorage.VoiceUpload{
		SessionType: dbmodels.SessionTypeInterview,
		SessionID:   c.sessionID,
		UserID:      optional(c.userID),
		Speaker:     speaker,
		FileName:    fileName,
		ContentType: contentType,
		Data:        audio,
	})
	if err != nil {
		c.logger.WithError(err).Warn("не удалось сохранить аудио")
	}
}

// handleTerminal ошибки при подключении всегда закрывают соединение
func (c *client) handleTerminal(err error) bool {
	switch {
	case errors.Is(err, models.ErrCompleted):
		c.sess.Send(wsmodels.NewCompleted("Interview already completed"))
		c.sess.Close(websocket.CloseNormalClosure, "")
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrNoQuestions):
		c.sess.Send(wsmodels.NewError(clientMessage(err)))
		c.sess.Close(websocket.ClosePolicyViolation, "")
	default:
		c.logger.WithError(err).Error("ошибка открытия голосового канала")
		c.sess.Send(wsmodels.NewError("Internal error"))
		c.sess.Close(websocket.CloseInternalServerErr, "")
	}
	return false
}

// handleTurnError ошибки обработки реплики не закрывают соединение, кроме потери сессии
func (c *client) handleTurnError(err error) bool {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.sess.Send(wsmodels.NewError(clientMessage(err)))
		c.sess.Close(websocket.ClosePolicyViolation, "")
		return false
	case errors.Is(err, models.ErrCompleted):
		c.sess.Send(wsmodels.NewCompleted("Interview completed"))
	default:
		c.logger.WithError(err).Error("ошибка обработки реплики")
		c.sess.Send(wsmodels.NewError(clientMessage(err)))
	}
	return true
}

func clientMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "Interview session not found"
	case errors.Is(err, models.ErrNoQuestions):
		return "Interview has no questions"
	case errors.Is(err, models.ErrSessionBusy):
		return "Previous message is still being processed"
	default:
		return "Failed to process message"
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
