package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"threed_viewer_v1_202601/internal/model"
)

// ==================== 接口定义 ====================

// ModelRepository 3D 模型关联记录仓储接口
// 唯一键是 (product_id, shop)，所有写入都按这一对做 upsert
type ModelRepository interface {
	Get(ctx context.Context, productID, shop string) (*model.ProductModel, error)
	ListByShop(ctx context.Context, shop string) ([]model.ProductModel, error)
	ListAssetPaths(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, record *model.ProductModel) error
	Delete(ctx context.Context, productID, shop string) error
	DeleteByShop(ctx context.Context, shop string) error

	WithTx(tx *gorm.DB) ModelRepository
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ==================== 仓储实现 ====================

type modelRepo struct {
	db *gorm.DB
}

// NewModelRepository 创建模型仓储
func NewModelRepository(db *gorm.DB) ModelRepository {
	return &modelRepo{db: db}
}

// Get 不存在返回 (nil, nil)
func (r *modelRepo) Get(ctx context.Context, productID, shop string) (*model.ProductModel, error) {
	var record model.ProductModel
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND shop = ?", productID, shop).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *modelRepo) ListByShop(ctx context.Context, shop string) ([]model.ProductModel, error) {
	var records []model.ProductModel
	err := r.db.WithContext(ctx).Where("shop = ?", shop).Find(&records).Error
	return records, err
}

// ListAssetPaths 全部非空资产路径，孤儿资产清理任务用
func (r *modelRepo) ListAssetPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Model(&model.ProductModel{}).
		Where("zip_file IS NOT NULL").Pluck("zip_file", &paths).Error
	return paths, err
}

// Upsert 幂等写入，同一 (product_id, shop) 重复导入只会更新
func (r *modelRepo) Upsert(ctx context.Context, record *model.ProductModel) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "shop"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "zip_file"}),
	}).Create(record).Error
}

func (r *modelRepo) Delete(ctx context.Context, productID, shop string) error {
	return r.db.WithContext(ctx).
		Where("product_id = ? AND shop = ?", productID, shop).
		Delete(&model.ProductModel{}).Error
}

func (r *modelRepo) DeleteByShop(ctx context.Context, shop string) error {
	return r.db.WithContext(ctx).Where("shop = ?", shop).Delete(&model.ProductModel{}).Error
}

func (r *modelRepo) WithTx(tx *gorm.DB) ModelRepository {
	return &modelRepo{db: tx}
}

func (r *modelRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
