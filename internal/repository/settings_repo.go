package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"threed_viewer_v1_202601/internal/model"
)

// ==================== 接口定义 ====================

// SettingsRepository 查看器配置仓储接口
type SettingsRepository interface {
	GetByShop(ctx context.Context, shop string) (*model.ViewerSettings, error)
	Upsert(ctx context.Context, settings *model.ViewerSettings) error
	DeleteByShop(ctx context.Context, shop string) error

	WithTx(tx *gorm.DB) SettingsRepository
}

// ==================== 仓储实现 ====================

type settingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepository 创建配置仓储
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

// GetByShop 不存在返回 (nil, nil)
func (r *settingsRepo) GetByShop(ctx context.Context, shop string) (*model.ViewerSettings, error) {
	var settings model.ViewerSettings
	err := r.db.WithContext(ctx).Where("shop = ?", shop).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Upsert 以 shop 为冲突键的写入，设置页每次保存都会走这里
func (r *settingsRepo) Upsert(ctx context.Context, settings *model.ViewerSettings) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shop"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"serial_key", "status", "other_features", "width", "height", "updated_at",
		}),
	}).Create(settings).Error
}

func (r *settingsRepo) DeleteByShop(ctx context.Context, shop string) error {
	return r.db.WithContext(ctx).Where("shop = ?", shop).Delete(&model.ViewerSettings{}).Error
}

func (r *settingsRepo) WithTx(tx *gorm.DB) SettingsRepository {
	return &settingsRepo{db: tx}
}
