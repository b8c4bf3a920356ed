package dbmodels

// VoiceRecord аудио реплики, сохраненное в объектном хранилище
type VoiceRecord struct {
	BaseModel
	SessionType SessionType `gorm:"type:varchar(32);not null;index:idx_voice_session"`
	SessionID   string      `gorm:"type:varchar(36);not null;index:idx_voice_session"`
	UserID      *string     `gorm:"type:varchar(255)"`
	Speaker     Speaker     `gorm:"type:varchar(32);not null"`
	ObjectKey   string      `gorm:"type:varchar(512);not null"`
	ContentType string      `gorm:"type:varchar(128)"`
	Size        int64
}
