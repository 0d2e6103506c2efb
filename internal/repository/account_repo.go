package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"threed_viewer_v1_202601/internal/model"
)

// ==================== 接口定义 ====================

// AccountRepository 许可账号仓储接口
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByShop(ctx context.Context, shop string) (*model.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, account *model.Account) error
	DeleteByShop(ctx context.Context, shop string) error
	Touch(ctx context.Context, shop string) error

	WithTx(tx *gorm.DB) AccountRepository
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ==================== 仓储实现 ====================

type accountRepo struct {
	db *gorm.DB
}

// NewAccountRepository 创建账号仓储
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// GetByShop 按店铺查账号，不存在返回 (nil, nil)
func (r *accountRepo) GetByShop(ctx context.Context, shop string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("shop = ?", shop).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *accountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Account{}).
		Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *accountRepo) Update(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *accountRepo) DeleteByShop(ctx context.Context, shop string) error {
	return r.db.WithContext(ctx).Where("shop = ?", shop).Delete(&model.Account{}).Error
}

// Touch 仅刷新 updated_at（客户数据擦除 Webhook 会用到）
func (r *accountRepo) Touch(ctx context.Context, shop string) error {
	return r.db.WithContext(ctx).Model(&model.Account{}).
		Where("shop = ?", shop).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *accountRepo) WithTx(tx *gorm.DB) AccountRepository {
	return &accountRepo{db: tx}
}

func (r *accountRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
