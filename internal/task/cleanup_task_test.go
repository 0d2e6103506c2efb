package task

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"threed_viewer_v1_202601/internal/model"
	"threed_viewer_v1_202601/internal/repository"
	"threed_viewer_v1_202601/internal/service"
)

func TestTempSweep(t *testing.T) {
	root := t.TempDir()

	stale := filepath.Join(root, "stale-import")
	fresh := filepath.Join(root, "fresh-import")
	for _, dir := range []string{stale, fresh} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("建目录失败: %v", err)
		}
	}
	// 把过期目录的修改时间拨回过去
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("改时间失败: %v", err)
	}

	task := NewTempSweepTask(root, "", time.Hour)
	task.execute(context.Background())

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("过期临时目录应被清掉")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("新目录应保留")
	}
}

func TestOrphanSweep(t *testing.T) {
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.ProductModel{}, &model.UploadLog{}); err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}

	dir := t.TempDir()
	store, err := service.NewLocalAssetStore(dir)
	if err != nil {
		t.Fatalf("创建本地存储失败: %v", err)
	}

	modelRepo := repository.NewModelRepository(db)
	logRepo := repository.NewUploadLogRepository(db)

	// 三个文件：被模型引用的、被上传日志引用的、谁都不引用的
	for _, name := range []string{"shoe.glb", "shoe.zip", "orphan.glb"} {
		if _, err := store.Save(ctx, name, []byte("data")); err != nil {
			t.Fatalf("预置资产失败: %v", err)
		}
	}
	referenced := "/public/shoe.glb"
	if err := modelRepo.Upsert(ctx, &model.ProductModel{
		ProductID: "gid://shopify/Product/1",
		Shop:      "demo-shop.myshopify.com",
		Name:      "Shoe",
		ZipFile:   &referenced,
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("写模型记录失败: %v", err)
	}
	if err := db.Create(&model.UploadLog{
		Shop:     "demo-shop.myshopify.com",
		FileName: "shoe.zip",
		Success:  true,
	}).Error; err != nil {
		t.Fatalf("写上传日志失败: %v", err)
	}

	// 全部文件拨回到豁免期之外
	old := time.Now().Add(-48 * time.Hour)
	for _, name := range []string{"shoe.glb", "shoe.zip", "orphan.glb"} {
		if err := os.Chtimes(filepath.Join(dir, name), old, old); err != nil {
			t.Fatalf("改时间失败: %v", err)
		}
	}

	task := NewOrphanSweepTask(store, modelRepo, logRepo, "", 24*time.Hour, false)
	task.execute(ctx)

	for _, name := range []string{"shoe.glb", "shoe.zip"} {
		if exists, _ := store.Exists(ctx, name); !exists {
			t.Errorf("被引用的资产不应被删: %s", name)
		}
	}
	if exists, _ := store.Exists(ctx, "orphan.glb"); exists {
		t.Error("孤儿资产应被回收")
	}
}

func TestOrphanSweep_DryRun(t *testing.T) {
	ctx := context.Background()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.ProductModel{}, &model.UploadLog{}); err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}

	dir := t.TempDir()
	store, err := service.NewLocalAssetStore(dir)
	if err != nil {
		t.Fatalf("创建本地存储失败: %v", err)
	}
	if _, err := store.Save(ctx, "orphan.glb", []byte("data")); err != nil {
		t.Fatalf("预置资产失败: %v", err)
	}
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "orphan.glb"), old, old); err != nil {
		t.Fatalf("改时间失败: %v", err)
	}

	task := NewOrphanSweepTask(store, repository.NewModelRepository(db), repository.NewUploadLogRepository(db), "", 24*time.Hour, true)
	task.execute(ctx)

	if exists, _ := store.Exists(ctx, "orphan.glb"); !exists {
		t.Error("dry-run 模式不应真删文件")
	}
}
