package ailogstore

import (
	"context"

	dbmodels "github.com/bskqd/sd-solutions-test-task/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Provider журнал обращений к ИИ
type Provider interface {
	Save(ctx context.Context, rec dbmodels.AiLog) (id string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Save(ctx context.Context, rec dbmodels.AiLog) (id string, err error) {
	err = i.db.
		WithContext(ctx).
		Create(&rec).
		Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения журнала ИИ")
	}
	return rec.ID, nil
}
