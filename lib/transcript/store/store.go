package transcriptstore

import (
	"gorm.io/gorm"
	dbmodels "interview-prep-backend/models/db"
)

type Provider interface {
	Add(rec dbmodels.TranscriptEntry) (id string, err error)
	List(sessionType dbmodels.SessionType, sessionID, userID string) (list []dbmodels.TranscriptEntry, err error)
	Count(sessionType dbmodels.SessionType, sessionID string) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Add(rec dbmodels.TranscriptEntry) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// List реплики по порядку добавления
func (i impl) List(sessionType dbmodels.SessionType, sessionID, userID string) (list []dbmodels.TranscriptEntry, err error) {
	tx := i.db.
		Model(&dbmodels.TranscriptEntry{}).
		Where("session_type = ?", sessionType).
		Where("session_id = ?", sessionID).
		Order("created_at asc")
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Count(sessionType dbmodels.SessionType, sessionID string) (count int64, err error) {
	err = i.db.
		Model(&dbmodels.TranscriptEntry{}).
		Where("session_type = ?", sessionType).
		Where("session_id = ?", sessionID).
		Count(&count).
		Error
	return count, err
}
