package service

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"threed_viewer_v1_202601/internal/model"
	"threed_viewer_v1_202601/internal/repository"
	"threed_viewer_v1_202601/pkg/archive"
	"threed_viewer_v1_202601/pkg/utils"
)

var (
	ErrModelNameRequired = errors.New("Name is required")
	ErrInvalidProductID  = errors.New("Invalid productId format. It must be a numeric value.")
	ErrNotZipArchive     = errors.New("Please upload a .zip file containing .glTF or .GLB files")
	ErrNoModelInZip      = errors.New("Zip file must contain a .gltf or .glb file")
	ErrModelNotFound     = errors.New("3D model not found")
)

// ModelService 单商品模型的上传、删除和店面读取
type ModelService struct {
	modelRepo    repository.ModelRepository
	settingsRepo repository.SettingsRepository
	store        AssetStore
	tempRoot     string
}

func NewModelService(
	modelRepo repository.ModelRepository,
	settingsRepo repository.SettingsRepository,
	store AssetStore,
	tempRoot string,
) *ModelService {
	return &ModelService{
		modelRepo:    modelRepo,
		settingsRepo: settingsRepo,
		store:        store,
		tempRoot:     tempRoot,
	}
}

// ==================== 上传 ====================

// extractModelAsset 共享的落盘流程：解压到独立临时目录，
// 取压缩包内第一个模型条目（按压缩包内部顺序），拷入公开存储，无条件清理临时目录
func (s *ModelService) extractModelAsset(ctx context.Context, productID string, zipData []byte) (string, error) {
	entries, err := archive.ListEntries(zipData)
	if err != nil {
		return "", err
	}
	entry, found := archive.FindModelEntry(entries)
	if !found {
		return "", ErrNoModelInZip
	}

	tempDir, err := NewTempDir(s.tempRoot)
	if err != nil {
		return "", err
	}
	// 成功失败都要清掉临时目录，避免磁盘泄漏
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			log.Printf("清理临时目录失败 %s: %v", tempDir, err)
		}
	}()

	// 压缩包里可能还有贴图等资源，店面只投递模型本体，只解这一个条目
	extracted, err := archive.ExtractEntry(zipData, entry, tempDir)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(extracted)
	if err != nil {
		return "", err
	}

	name := UniqueAssetName(productID, filepath.Base(entry))
	publicPath, err := s.store.Save(ctx, name, data)
	if err != nil {
		return "", err
	}
	return publicPath, nil
}

// Upload 交互式单商品上传
// ZIP 是表单里刚提交的文件本体；不带文件时只更新展示名（资产路径会被清空，与既有行为一致）
func (s *ModelService) Upload(ctx context.Context, shop, productID, name, fileName string, zipData []byte) (*model.ProductModel, error) {
	if name == "" {
		return nil, ErrModelNameRequired
	}

	// 落库前统一成 gid 形式，店面按 gid 查询才能命中
	productID, err := utils.NormalizeProductGID(productID)
	if err != nil {
		return nil, ErrInvalidProductID
	}

	var assetPath *string
	if len(zipData) > 0 {
		if !strings.HasSuffix(strings.ToLower(fileName), ".zip") {
			return nil, ErrNotZipArchive
		}
		p, err := s.extractModelAsset(ctx, productID, zipData)
		if err != nil {
			return nil, err
		}
		assetPath = &p
	}

	record := &model.ProductModel{
		ProductID: productID,
		Shop:      shop,
		Name:      name,
		ZipFile:   assetPath,
		CreatedAt: time.Now(),
	}
	if err := s.modelRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ==================== 删除 ====================

// Delete 删除模型记录并尝试删掉资产文件
// 文件删不掉只记日志，记录照删（孤儿文件交给清理任务兜底）
func (s *ModelService) Delete(ctx context.Context, shop, productID string) error {
	// 库里只有 gid 形式，非法 ID 等价于查不到
	productID, err := utils.NormalizeProductGID(productID)
	if err != nil {
		return ErrModelNotFound
	}

	record, err := s.modelRepo.Get(ctx, productID, shop)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrModelNotFound
	}

	if record.ZipFile != nil {
		if err := s.store.Delete(ctx, *record.ZipFile); err != nil {
			log.Printf("删除资产文件失败 %s: %v", *record.ZipFile, err)
		}
	}

	return s.modelRepo.Delete(ctx, productID, shop)
}

// ==================== 读取 ====================

// ListByShop 店铺下全部模型记录（选择页展示已关联状态用）
func (s *ModelService) ListByShop(ctx context.Context, shop string) ([]model.ProductModel, error) {
	return s.modelRepo.ListByShop(ctx, shop)
}

// Get 单条模型记录，不存在返回 (nil, nil)
func (s *ModelService) Get(ctx context.Context, shop, productID string) (*model.ProductModel, error) {
	return s.modelRepo.Get(ctx, productID, shop)
}

// GetModelAndSettings 店面投递端点的读取：模型 + 配置一次取齐
// 两者只要缺一个就按未找到处理
func (s *ModelService) GetModelAndSettings(ctx context.Context, shop, productID string) (*model.ProductModel, *model.ViewerSettings, error) {
	record, err := s.modelRepo.Get(ctx, productID, shop)
	if err != nil {
		return nil, nil, err
	}
	settings, err := s.settingsRepo.GetByShop(ctx, shop)
	if err != nil {
		return nil, nil, err
	}
	return record, settings, nil
}
