package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"threed_viewer_v1_202601/internal/model"
)

const testProductGID = "gid://shopify/Product/123456789"

func TestModelUpload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.models.Upload(ctx, testShop, testProductGID, "Shoe", "shoe.zip", modelZip(t))
	if err != nil {
		t.Fatalf("上传模型失败: %v", err)
	}

	if record.ZipFile == nil {
		t.Fatal("上传后资产路径不应为 nil")
	}
	if !strings.HasPrefix(*record.ZipFile, PublicPrefix) {
		t.Errorf("资产路径应以 %s 开头: %q", PublicPrefix, *record.ZipFile)
	}
	if !strings.HasSuffix(*record.ZipFile, "-shoe.glb") {
		t.Errorf("资产文件名应保留原始模型名: %q", *record.ZipFile)
	}

	// 解压出的模型本体已在公开存储里
	data, err := env.store.Open(ctx, AssetName(*record.ZipFile))
	if err != nil {
		t.Fatalf("读回资产失败: %v", err)
	}
	if string(data) != "glb-bytes" {
		t.Errorf("资产内容不对: %q", data)
	}
}

func TestModelUpload_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.models.Upload(ctx, testShop, testProductGID, "", "shoe.zip", modelZip(t)); !errors.Is(err, ErrModelNameRequired) {
		t.Errorf("空名称应返回 ErrModelNameRequired, got %v", err)
	}
	if _, err := env.models.Upload(ctx, testShop, testProductGID, "Shoe", "shoe.rar", []byte("rar")); !errors.Is(err, ErrNotZipArchive) {
		t.Errorf("非ZIP后缀应返回 ErrNotZipArchive, got %v", err)
	}

	noModel := buildZip(t, []string{"readme.txt"}, map[string]string{"readme.txt": "hi"})
	if _, err := env.models.Upload(ctx, testShop, testProductGID, "Shoe", "shoe.zip", noModel); !errors.Is(err, ErrNoModelInZip) {
		t.Errorf("无模型条目应返回 ErrNoModelInZip, got %v", err)
	}
}

func TestModelUpload_NormalizesProductID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// 纯数字 ID 落库前补全成 gid，店面按 gid 查询才能命中
	record, err := env.models.Upload(ctx, testShop, "123456789", "Shoe", "shoe.zip", modelZip(t))
	if err != nil {
		t.Fatalf("上传模型失败: %v", err)
	}
	if record.ProductID != testProductGID {
		t.Errorf("ProductID 应为 gid 形式: %q", record.ProductID)
	}

	got, _, err := env.models.GetModelAndSettings(ctx, testShop, testProductGID)
	if err != nil || got == nil {
		t.Fatalf("按 gid 查询应命中: %v", err)
	}

	// 删除同样接受数字形式
	if err := env.models.Delete(ctx, testShop, "123456789"); err != nil {
		t.Fatalf("按数字 ID 删除失败: %v", err)
	}
	if got, _ := env.models.Get(ctx, testShop, testProductGID); got != nil {
		t.Error("记录应已删除")
	}

	if _, err := env.models.Upload(ctx, testShop, "abc123", "Shoe", "shoe.zip", modelZip(t)); !errors.Is(err, ErrInvalidProductID) {
		t.Errorf("非法 productId 应返回 ErrInvalidProductID, got %v", err)
	}
	if err := env.models.Delete(ctx, testShop, "abc123"); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("非法 productId 删除应按查不到处理, got %v", err)
	}
}

func TestModelUpload_Upsert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.models.Upload(ctx, testShop, testProductGID, "Shoe", "shoe.zip", modelZip(t)); err != nil {
		t.Fatalf("首次上传失败: %v", err)
	}

	// 不带文件的二次提交：只更新展示名，资产路径被清空
	record, err := env.models.Upload(ctx, testShop, testProductGID, "Renamed", "", nil)
	if err != nil {
		t.Fatalf("二次上传失败: %v", err)
	}
	if record.ZipFile != nil {
		t.Error("不带文件时资产路径应被清空")
	}

	records, err := env.models.ListByShop(ctx, testShop)
	if err != nil {
		t.Fatalf("列出模型失败: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("同一 (productId, shop) 应只有一条记录, got %d", len(records))
	}
	if records[0].Name != "Renamed" {
		t.Errorf("展示名应已更新: %q", records[0].Name)
	}
}

func TestModelDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.models.Upload(ctx, testShop, testProductGID, "Shoe", "shoe.zip", modelZip(t))
	if err != nil {
		t.Fatalf("上传模型失败: %v", err)
	}

	if err := env.models.Delete(ctx, testShop, testProductGID); err != nil {
		t.Fatalf("删除模型失败: %v", err)
	}

	if got, _ := env.models.Get(ctx, testShop, testProductGID); got != nil {
		t.Error("记录应已删除")
	}
	exists, _ := env.store.Exists(ctx, AssetName(*record.ZipFile))
	if exists {
		t.Error("资产文件应已删除")
	}

	if err := env.models.Delete(ctx, testShop, testProductGID); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("重复删除应返回 ErrModelNotFound, got %v", err)
	}
}

func TestModelDelete_MissingAsset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.models.Upload(ctx, testShop, testProductGID, "Shoe", "shoe.zip", modelZip(t))
	if err != nil {
		t.Fatalf("上传模型失败: %v", err)
	}
	// 资产先被外部删掉，记录照删不报错
	if err := env.store.Delete(ctx, *record.ZipFile); err != nil {
		t.Fatalf("预删资产失败: %v", err)
	}

	if err := env.models.Delete(ctx, testShop, testProductGID); err != nil {
		t.Errorf("资产缺失不应阻断记录删除: %v", err)
	}
}

func TestGetModelAndSettings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, settings, err := env.models.GetModelAndSettings(ctx, testShop, testProductGID)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if record != nil || settings != nil {
		t.Error("无数据时两者都应为 nil")
	}

	if _, err := env.models.Upload(ctx, testShop, testProductGID, "Shoe", "shoe.zip", modelZip(t)); err != nil {
		t.Fatalf("上传模型失败: %v", err)
	}
	if _, err := env.settings.Save(ctx, testShop, SettingsInput{Status: model.StatusEnable}); err != nil {
		t.Fatalf("保存配置失败: %v", err)
	}

	record, settings, err = env.models.GetModelAndSettings(ctx, testShop, testProductGID)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if record == nil || settings == nil {
		t.Fatal("两者都应已存在")
	}
	if record.Name != "Shoe" || settings.Status != model.StatusEnable {
		t.Errorf("读取内容不对: record=%+v settings=%+v", record, settings)
	}
}
