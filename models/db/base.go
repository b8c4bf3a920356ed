package dbmodels

import (
	"time"
)

type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionType вид сессии, к которой относится запись стенограммы или аудио
type SessionType string

const (
	SessionTypeCollector SessionType = "collector"
	SessionTypeInterview SessionType = "interview"
)

func (s SessionType) IsValid() bool {
	return s == SessionTypeCollector || s == SessionTypeInterview
}

// Speaker автор реплики
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)
