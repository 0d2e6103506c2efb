package repository

import (
	"context"

	"gorm.io/gorm"

	"threed_viewer_v1_202601/internal/model"
)

// ==================== 上传日志 ====================

// UploadLogRepository ZIP 上传审计日志仓储接口
type UploadLogRepository interface {
	Create(ctx context.Context, entry *model.UploadLog) error
	ListFileNames(ctx context.Context) ([]string, error)
}

type uploadLogRepo struct {
	db *gorm.DB
}

func NewUploadLogRepository(db *gorm.DB) UploadLogRepository {
	return &uploadLogRepo{db: db}
}

func (r *uploadLogRepo) Create(ctx context.Context, entry *model.UploadLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListFileNames 成功上传过的压缩包文件名，孤儿清理时这些文件要保留
func (r *uploadLogRepo) ListFileNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&model.UploadLog{}).
		Where("success = ?", true).Pluck("file_name", &names).Error
	return names, err
}

// ==================== Webhook 日志 ====================

// WebhookLogRepository 合规 Webhook 记录仓储接口
type WebhookLogRepository interface {
	Create(ctx context.Context, entry *model.WebhookLog) error
}

type webhookLogRepo struct {
	db *gorm.DB
}

func NewWebhookLogRepository(db *gorm.DB) WebhookLogRepository {
	return &webhookLogRepo{db: db}
}

func (r *webhookLogRepo) Create(ctx context.Context, entry *model.WebhookLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
