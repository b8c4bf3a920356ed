package collectorapimodels

import (
	"strings"

	"github.com/pkg/errors"
	apimodels "interview-prep-backend/models/api"
)

type StartRequest struct {
	UserID        string `json:"user_id"`        // ид пользователя, если нет токена
	CandidateName string `json:"candidate_name"` // имя кандидата, не сохраняется
	WithAudio     bool   `json:"with_audio"`     // озвучить ответ ассистента
}

func (r StartRequest) Validate() error {
	if len(r.UserID) > 255 {
		return errors.New("слишком длинный идентификатор пользователя")
	}
	return nil
}

type StartResponse struct {
	CollectorSessionID string `json:"collector_session_id"`
	UserID             string `json:"user_id,omitempty"`
	AssistantMessage   string `json:"assistant_message"`
	ExpectedField      string `json:"expected_field"`
	apimodels.AudioData
}

type TurnRequest struct {
	UserMessage string `json:"user_message"` // реплика пользователя
	UserID      string `json:"user_id"`      // ид пользователя, если нет токена
	WithAudio   bool   `json:"with_audio"`   // озвучить ответ ассистента
}

func (r TurnRequest) Validate() error {
	if len(strings.TrimSpace(r.UserMessage)) == 0 {
		return errors.New("реплика пользователя не должна быть пустой")
	}
	if len(r.UserMessage) > 4000 {
		return errors.New("слишком длинная реплика пользователя")
	}
	return nil
}

type TurnResponse struct {
	CollectorSessionID string `json:"collector_session_id"`
	UserID             string `json:"user_id,omitempty"`
	AssistantMessage   string `json:"assistant_message"`
	Intent             string `json:"intent"`                   // распознанное намерение пользователя
	ExpectedField      string `json:"expected_field,omitempty"` // следующее ожидаемое поле
	Completed          bool   `json:"completed"`
	InterviewID        string `json:"interview_id,omitempty"` // ид созданного интервью при завершении
	apimodels.AudioData
}

// SessionView состояние сессии сбора параметров
type SessionView struct {
	CollectorSessionID string                 `json:"collector_session_id"`
	UserID             string                 `json:"user_id,omitempty"`
	Status             string                 `json:"status"`
	CurrentField       string                 `json:"current_field"`
	Payload            map[string]interface{} `json:"payload"`
	InterviewID        string                 `json:"interview_id,omitempty"`
}
