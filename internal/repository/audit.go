package repository

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/snnyvrz/libmanage/internal/model"
	"gorm.io/gorm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type AuditRepository interface {
	Record(ctx context.Context, entity, action string, entityID uint, data any) error
	List(ctx context.Context, entity string, entityID uint) ([]model.AuditLog, error)
}

type GormAuditRepository struct {
	db *gorm.DB
}

func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

func (r *GormAuditRepository) Record(ctx context.Context, entity, action string, entityID uint, data any) error {
	payload, err := json.MarshalToString(data)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(&model.AuditLog{
		Entity:   entity,
		Action:   action,
		EntityID: entityID,
		Payload:  payload,
	}).Error
}

func (r *GormAuditRepository) List(ctx context.Context, entity string, entityID uint) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	if err := r.db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("id ASC").
		Find(&logs).Error; err != nil {

		return nil, err
	}
	return logs, nil
}
