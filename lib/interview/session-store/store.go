package interviewsessionstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "interview-prep-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.InterviewSession) (id string, err error)
	GetByID(id, userID string) (rec *dbmodels.InterviewSession, err error)
	Update(id string, updMap map[string]interface{}) error
	ListByInterview(interviewID, userID string) (list []dbmodels.InterviewSession, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.InterviewSession) (id string, err error) {
	err = i.db.
		Omit("Interview").
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id, userID string) (*dbmodels.InterviewSession, error) {
	rec := dbmodels.InterviewSession{}
	tx := i.db.
		Model(&dbmodels.InterviewSession{}).
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

// Update индекс вопроса только растет, обновление с меньшим индексом не применяется
func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.InterviewSession{}).
		Where("id = ?", id)
	if idx, ok := updMap["current_index"]; ok {
		tx = tx.Where("current_index <= ?", idx)
	}
	tx = tx.Updates(updMap)
	if err := tx.Error; err != nil {
		return err
	}
	if tx.RowsAffected == 0 {
		return errors.New("сессия интервью не найдена или уже продвинулась дальше")
	}
	return nil
}

func (i impl) ListByInterview(interviewID, userID string) (list []dbmodels.InterviewSession, err error) {
	tx := i.db.
		Model(&dbmodels.InterviewSession{}).
		Where("interview_id = ?", interviewID).
		Order("created_at desc")
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
