package interviewapimodels

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"interview-prep-backend/lib/flow"
)

// SetupPayload параметры генерации интервью
type SetupPayload struct {
	UserID        string   `json:"user_id"`
	Role          string   `json:"role"`
	InterviewType string   `json:"interview_type"`
	Level         string   `json:"level"`
	TechStack     []string `json:"techstack"`
	Amount        int      `json:"amount"`
}

func (r SetupPayload) Validate() error {
	if strings.TrimSpace(r.Role) == "" {
		return errors.New("не указана роль")
	}
	if strings.TrimSpace(r.InterviewType) == "" {
		return errors.New("не указан тип интервью")
	}
	if strings.TrimSpace(r.Level) == "" {
		return errors.New("не указан уровень")
	}
	if len(r.TechStack) == 0 {
		return errors.New("не указан стек технологий")
	}
	for _, item := range r.TechStack {
		if strings.TrimSpace(item) == "" {
			return errors.New("стек технологий содержит пустое значение")
		}
	}
	if r.Amount < flow.MinAmount || r.Amount > flow.MaxAmount {
		return errors.Errorf("количество вопросов должно быть от %d до %d", flow.MinAmount, flow.MaxAmount)
	}
	return nil
}

func (r SetupPayload) ToSetup() flow.Setup {
	techStack := make([]string, 0, len(r.TechStack))
	for _, item := range r.TechStack {
		techStack = append(techStack, strings.TrimSpace(item))
	}
	return flow.Setup{
		Role:          strings.TrimSpace(r.Role),
		InterviewType: strings.TrimSpace(r.InterviewType),
		Level:         strings.TrimSpace(r.Level),
		TechStack:     techStack,
		Amount:        r.Amount,
	}
}

type CreateResponse struct {
	InterviewID string   `json:"interview_id"`
	UserID      string   `json:"user_id,omitempty"`
	Questions   []string `json:"questions"`
}

type ListItem struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id,omitempty"`
	Role          string    `json:"role"`
	InterviewType string    `json:"interview_type"`
	Level         string    `json:"level"`
	TechStack     []string  `json:"techstack"`
	Amount        int       `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

type SessionStartRequest struct {
	UserID string `json:"user_id"`
}

func (r SessionStartRequest) Validate() error {
	return nil
}

type SessionStartResponse struct {
	InterviewSessionID string `json:"interview_session_id"`
	UserID             string `json:"user_id,omitempty"`
	AssistantMessage   string `json:"assistant_message"`
	QuestionIndex      int    `json:"question_index"`
}

type TurnRequest struct {
	UserMessage string `json:"user_message"`
	UserID      string `json:"user_id"`
}

func (r TurnRequest) Validate() error {
	if len(strings.TrimSpace(r.UserMessage)) == 0 {
		return errors.New("ответ кандидата не должен быть пустым")
	}
	return nil
}

type TurnResponse struct {
	InterviewSessionID string `json:"interview_session_id"`
	UserID             string `json:"user_id,omitempty"`
	UserMessage        string `json:"-"`
	AssistantMessage   string `json:"assistant_message"`
	Status             string `json:"status"`
	QuestionIndex      *int   `json:"question_index"` // null после завершения
}

type SessionView struct {
	InterviewSessionID string    `json:"interview_session_id"`
	InterviewID        string    `json:"interview_id"`
	UserID             string    `json:"user_id,omitempty"`
	Status             string    `json:"status"`
	CurrentIndex       int       `json:"current_index"`
	TotalQuestions     int       `json:"total_questions"`
	VoiceConnected     bool      `json:"voice_connected"` // открыт голосовой канал
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
