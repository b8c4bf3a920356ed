package dbmodels

type InterviewSessionStatus string

const (
	InterviewSessionActive    InterviewSessionStatus = "active"
	InterviewSessionCompleted InterviewSessionStatus = "completed"
)

// InterviewSession прохождение интервью, CurrentIndex - индекс текущего вопроса
type InterviewSession struct {
	BaseModel
	UserID       *string                `gorm:"type:varchar(255);index" json:"user_id"`
	InterviewID  string                 `gorm:"type:uuid;not null;index" json:"interview_id"`
	Interview    *Interview             `gorm:"foreignKey:InterviewID" json:"-"`
	Status       InterviewSessionStatus `gorm:"type:varchar(32);not null;default:active" json:"status"`
	CurrentIndex int                    `gorm:"not null;default:0" json:"current_index"`
}

func (s InterviewSession) IsCompleted() bool {
	return s.Status == InterviewSessionCompleted
}
