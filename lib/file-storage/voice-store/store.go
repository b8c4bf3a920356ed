package voicerecordstore

import (
	"gorm.io/gorm"
	dbmodels "interview-prep-backend/models/db"
)

type Provider interface {
	Save(rec dbmodels.VoiceRecord) (id string, err error)
}

func NewInstance(db *gorm.DB) Provider {
	return &impl{db: db}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Save(rec dbmodels.VoiceRecord) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}
