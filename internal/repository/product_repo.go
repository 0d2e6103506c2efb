package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"threed_viewer_v1_202601/internal/model"
)

// ==================== 接口定义 ====================

// ProductRepository 商品选择页缓存仓储接口
type ProductRepository interface {
	BatchUpsert(ctx context.Context, products []model.Product) error
	ListByShop(ctx context.Context, shop string) ([]model.Product, error)
	DeleteByShop(ctx context.Context, shop string) error
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品缓存仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

// BatchUpsert 每拉一页商品就整页写入，(id, shop) 冲突时刷新标题和图片
func (r *productRepo) BatchUpsert(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}, {Name: "shop"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "image_src"}),
	}).Create(&products).Error
}

func (r *productRepo) ListByShop(ctx context.Context, shop string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("shop = ?", shop).Find(&products).Error
	return products, err
}

func (r *productRepo) DeleteByShop(ctx context.Context, shop string) error {
	return r.db.WithContext(ctx).Where("shop = ?", shop).Delete(&model.Product{}).Error
}
