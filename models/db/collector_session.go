package dbmodels

import (
	"gorm.io/datatypes"
)

type CollectorStatus string

const (
	CollectorStatusCollecting CollectorStatus = "collecting"
	CollectorStatusCompleted  CollectorStatus = "completed"
)

// CollectorSession сессия сбора параметров интервью
type CollectorSession struct {
	BaseModel
	UserID       *string         `gorm:"type:varchar(255);index" json:"user_id"`
	Status       CollectorStatus `gorm:"type:varchar(32);not null;default:collecting" json:"status"`
	Payload      datatypes.JSON  `gorm:"type:jsonb" json:"payload"`                      // собранные значения полей
	CurrentField string          `gorm:"type:varchar(32);not null" json:"current_field"` // ожидаемое поле
	InterviewID  *string         `gorm:"type:uuid" json:"interview_id"`                  // заполняется при завершении
}

func (s CollectorSession) IsCompleted() bool {
	return s.Status == CollectorStatusCompleted
}
