package interviewstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "interview-prep-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Interview) (id string, err error)
	GetByID(id, userID string) (rec *dbmodels.Interview, err error)
	List(userID string) (list []dbmodels.Interview, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Interview) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id, userID string) (*dbmodels.Interview, error) {
	rec := dbmodels.Interview{}
	tx := i.db.
		Model(&dbmodels.Interview{}).
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

// List новые интервью первыми
func (i impl) List(userID string) (list []dbmodels.Interview, err error) {
	tx := i.db.
		Model(&dbmodels.Interview{}).
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
