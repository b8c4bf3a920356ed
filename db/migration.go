package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "interview-prep-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.CollectorSession{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры CollectorSession")
	}
	if err := DB.AutoMigrate(&dbmodels.Interview{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Interview")
	}
	if err := DB.AutoMigrate(&dbmodels.InterviewSession{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры InterviewSession")
	}
	if err := DB.AutoMigrate(&dbmodels.TranscriptEntry{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры TranscriptEntry")
	}
	if err := DB.AutoMigrate(&dbmodels.VoiceRecord{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры VoiceRecord")
	}
	if err := DB.AutoMigrate(&dbmodels.AiLog{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры AiLog")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
