package dbmodels

import "time"

// TranscriptEntry реплика стенограммы, записи только добавляются
type TranscriptEntry struct {
	ID          string      `gorm:"primaryKey;type:uuid;default:uuid_generate_v4()" json:"id"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
	SessionType SessionType `gorm:"type:varchar(32);not null;index:idx_transcript_session" json:"session_type"`
	SessionID   string      `gorm:"type:uuid;not null;index:idx_transcript_session" json:"session_id"`
	UserID      *string     `gorm:"type:varchar(255);index" json:"user_id"`
	Speaker     Speaker     `gorm:"type:varchar(32);not null" json:"speaker"`
	Message     string      `gorm:"type:text;not null" json:"message"`
}
