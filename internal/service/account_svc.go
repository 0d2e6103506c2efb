package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"threed_viewer_v1_202601/internal/model"
	"threed_viewer_v1_202601/internal/repository"
)

// 对外暴露的冲突错误，controller 据此返回原样文案
var (
	ErrUsernameTaken = errors.New("This username is already taken. Please choose a different username.")
	ErrEmailTaken    = errors.New("This email is already in use. Please use a different email address.")
	ErrNoAccount     = errors.New("No account found for this shop")
)

// AccountService 许可账号服务
type AccountService struct {
	accountRepo  repository.AccountRepository
	settingsRepo repository.SettingsRepository
	modelRepo    repository.ModelRepository
	store        AssetStore
}

func NewAccountService(
	accountRepo repository.AccountRepository,
	settingsRepo repository.SettingsRepository,
	modelRepo repository.ModelRepository,
	store AssetStore,
) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		settingsRepo: settingsRepo,
		modelRepo:    modelRepo,
		store:        store,
	}
}

// ==================== 创建 / 查询 ====================

// GenerateSerialKey 生成许可序列号：毫秒时间戳 + 随机后缀
func GenerateSerialKey() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}

// Create 创建账号，每个店铺只建一次
// 用户名/邮箱撞库时返回可区分的错误
func (s *AccountService) Create(ctx context.Context, shop, username, email string) (*model.Account, error) {
	if taken, err := s.accountRepo.ExistsByUsername(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.accountRepo.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	account := &model.Account{
		Shop:      shop,
		Username:  username,
		Email:     email,
		SerialKey: GenerateSerialKey(),
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		// 预检查和写入之间仍可能被并发抢先，冲突兜底映射到用户名错误
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return account, nil
}

// GetByShop 查账号，不存在返回 (nil, nil)
func (s *AccountService) GetByShop(ctx context.Context, shop string) (*model.Account, error) {
	return s.accountRepo.GetByShop(ctx, shop)
}

// Require 账号门禁：所有模型/上传操作之前都要求账号已存在
func (s *AccountService) Require(ctx context.Context, shop string) (*model.Account, error) {
	account, err := s.accountRepo.GetByShop(ctx, shop)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNoAccount
	}
	return account, nil
}

// ==================== 更新 / 删除 ====================

// Update 改用户名/邮箱，Serial Key 不可变
func (s *AccountService) Update(ctx context.Context, shop, username, email string) (*model.Account, error) {
	account, err := s.Require(ctx, shop)
	if err != nil {
		return nil, err
	}
	if username != account.Username {
		if taken, err := s.accountRepo.ExistsByUsername(ctx, username); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrUsernameTaken
		}
	}
	if email != account.Email {
		if taken, err := s.accountRepo.ExistsByEmail(ctx, email); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrEmailTaken
		}
	}
	account.Username = username
	account.Email = email
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete 商户删号：配置、模型记录、账号在同一个事务里级联删除
// 资产文件在事务外尽力删，失败只记日志
func (s *AccountService) Delete(ctx context.Context, shop string) error {
	if _, err := s.Require(ctx, shop); err != nil {
		return err
	}

	records, err := s.modelRepo.ListByShop(ctx, shop)
	if err != nil {
		return err
	}

	err = s.accountRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.settingsRepo.WithTx(tx).DeleteByShop(ctx, shop); err != nil {
			return err
		}
		if err := s.modelRepo.WithTx(tx).DeleteByShop(ctx, shop); err != nil {
			return err
		}
		return s.accountRepo.WithTx(tx).DeleteByShop(ctx, shop)
	})
	if err != nil {
		return err
	}

	for _, record := range records {
		if record.ZipFile == nil {
			continue
		}
		if err := s.store.Delete(ctx, *record.ZipFile); err != nil {
			log.Printf("删除资产文件失败 %s: %v", *record.ZipFile, err)
		}
	}
	return nil
}
