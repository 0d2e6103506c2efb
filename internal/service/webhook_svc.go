package service

import (
	"context"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"threed_viewer_v1_202601/internal/model"
	"threed_viewer_v1_202601/internal/repository"
	"threed_viewer_v1_202601/pkg/utils"
)

// WebhookService 处理平台合规 Webhook：落库留痕 + 按需清数据
type WebhookService struct {
	accountRepo  repository.AccountRepository
	settingsRepo repository.SettingsRepository
	modelRepo    repository.ModelRepository
	logRepo      repository.WebhookLogRepository
	store        AssetStore
}

func NewWebhookService(
	accountRepo repository.AccountRepository,
	settingsRepo repository.SettingsRepository,
	modelRepo repository.ModelRepository,
	logRepo repository.WebhookLogRepository,
	store AssetStore,
) *WebhookService {
	return &WebhookService{
		accountRepo:  accountRepo,
		settingsRepo: settingsRepo,
		modelRepo:    modelRepo,
		logRepo:      logRepo,
		store:        store,
	}
}

// Record 留痕一条收到的 Webhook
func (s *WebhookService) Record(ctx context.Context, shop, topic string, payload []byte) error {
	entry := &model.WebhookLog{
		Shop:    utils.NormalizeShopDomain(shop),
		Topic:   topic,
		Payload: datatypes.JSON(payload),
	}
	return s.logRepo.Create(ctx, entry)
}

// DataSnapshot 数据请求 Webhook 用到的快照
type DataSnapshot struct {
	Account  *model.Account
	Settings *model.ViewerSettings
	Models   []model.ProductModel
}

// Snapshot 汇总店铺当前持有的数据，响应 customers/data_request
func (s *WebhookService) Snapshot(ctx context.Context, shop string) (*DataSnapshot, error) {
	shop = utils.NormalizeShopDomain(shop)

	account, err := s.accountRepo.GetByShop(ctx, shop)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.GetByShop(ctx, shop)
	if err != nil {
		return nil, err
	}
	records, err := s.modelRepo.ListByShop(ctx, shop)
	if err != nil {
		return nil, err
	}

	return &DataSnapshot{Account: account, Settings: settings, Models: records}, nil
}

// TouchAccount 响应 customers/redact：本应用不存客户个人数据，
// 除留痕外只刷新账号的 updated_at，标记擦除请求已被处理过
// 店铺没有账号时是空操作
func (s *WebhookService) TouchAccount(ctx context.Context, shop string) error {
	return s.accountRepo.Touch(ctx, utils.NormalizeShopDomain(shop))
}

// Redact 响应 shop/redact：清掉该店铺的全部数据
// 和删号不同，这里不要求账号存在，能删多少删多少
func (s *WebhookService) Redact(ctx context.Context, shop string) error {
	shop = utils.NormalizeShopDomain(shop)

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

	log.Printf("[Webhook] 店铺数据已清理 shop=%s models=%d", shop, len(records))
	return nil
}
