package collectorstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "interview-prep-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.CollectorSession) (id string, err error)
	GetByID(id, userID string) (rec *dbmodels.CollectorSession, err error)
	Update(id string, updMap map[string]interface{}) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.CollectorSession) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// GetByID пустой userID - без фильтра по пользователю
func (i impl) GetByID(id, userID string) (*dbmodels.CollectorSession, error) {
	rec := dbmodels.CollectorSession{}
	tx := i.db.
		Model(&dbmodels.CollectorSession{}).
		Where("id = ?", id)
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	err := tx.First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.CollectorSession{}).
		Where("id = ?", id).
		Updates(updMap)
	if err := tx.Error; err != nil {
		return err
	}
	if tx.RowsAffected == 0 {
		return errors.New("сессия сбора параметров не найдена")
	}
	return nil
}
