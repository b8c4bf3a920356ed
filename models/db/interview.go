package dbmodels

import (
	"time"

	"github.com/lib/pq"
)

// Interview сгенерированное интервью, после создания не меняется
type Interview struct {
	ID            string         `gorm:"primaryKey;type:uuid;default:uuid_generate_v4()" json:"id"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UserID        *string        `gorm:"type:varchar(255);index" json:"user_id"`
	Role          string         `gorm:"type:varchar(255);not null" json:"role"`
	InterviewType string         `gorm:"type:varchar(64);not null" json:"interview_type"`
	Level         string         `gorm:"type:varchar(64);not null" json:"level"`
	TechStack     pq.StringArray `gorm:"type:text[]" json:"techstack"`
	Amount        int            `gorm:"not null" json:"amount"`
	Questions     pq.StringArray `gorm:"type:text[]" json:"questions"`
}
