package service

import (
	"context"
	"errors"
	"strconv"

	"threed_viewer_v1_202601/internal/model"
	"threed_viewer_v1_202601/internal/repository"
	"threed_viewer_v1_202601/internal/viewer"
)

var (
	ErrWidthOutOfRange  = errors.New("Width must be a number between 50 and 700")
	ErrHeightOutOfRange = errors.New("Height must be a number between 50 and 700")
)

// SettingsService 查看器配置服务
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	accountRepo  repository.AccountRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository, accountRepo repository.AccountRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, accountRepo: accountRepo}
}

// SettingsInput 设置页提交的原始表单值，宽高保持字符串，空串表示自适应
type SettingsInput struct {
	Status        string
	OtherFeatures string
	Width         string
	Height        string
}

// parseDimension 宽高校验：空串合法（自适应），否则必须是 [50,700] 的整数
func parseDimension(raw string, rangeErr error) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < model.DimensionMin || n > model.DimensionMax {
		return nil, rangeErr
	}
	return &n, nil
}

// GetByShop 查配置，不存在返回 (nil, nil)
func (s *SettingsService) GetByShop(ctx context.Context, shop string) (*model.ViewerSettings, error) {
	return s.settingsRepo.GetByShop(ctx, shop)
}

// Save 设置页保存：校验后按 shop upsert，不存在时按默认值创建
func (s *SettingsService) Save(ctx context.Context, shop string, in SettingsInput) (*model.ViewerSettings, error) {
	width, err := parseDimension(in.Width, ErrWidthOutOfRange)
	if err != nil {
		return nil, err
	}
	height, err := parseDimension(in.Height, ErrHeightOutOfRange)
	if err != nil {
		return nil, err
	}

	// Serial Key 随配置冗余一份；没有账号时留空，设置页不做账号门禁
	serialKey := ""
	if account, err := s.accountRepo.GetByShop(ctx, shop); err != nil {
		return nil, err
	} else if account != nil {
		serialKey = account.SerialKey
	}

	otherFeatures := in.OtherFeatures
	if otherFeatures == "" {
		otherFeatures = string(viewer.FeatureAutoZoomRotate)
	}

	settings := &model.ViewerSettings{
		Shop:          shop,
		SerialKey:     serialKey,
		Status:        in.Status,
		OtherFeatures: otherFeatures,
		Width:         width,
		Height:        height,
	}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
