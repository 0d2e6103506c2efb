package service

import (
	"archive/zip"
	"bytes"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"threed_viewer_v1_202601/internal/model"
	"threed_viewer_v1_202601/internal/repository"
)

// testEnv 服务层测试环境：内存库 + 本地存储 + 全套服务
type testEnv struct {
	db       *gorm.DB
	store    *LocalAssetStore
	account  *AccountService
	settings *SettingsService
	models   *ModelService
	csv      *CSVService
	zips     *ZipService
	webhooks *WebhookService

	modelRepo repository.ModelRepository
	logRepo   repository.UploadLogRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Account{},
		&model.ViewerSettings{},
		&model.ProductModel{},
		&model.UploadLog{},
		&model.WebhookLog{},
	); err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}

	store, err := NewLocalAssetStore(t.TempDir())
	if err != nil {
		t.Fatalf("创建本地存储失败: %v", err)
	}

	accountRepo := repository.NewAccountRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	modelRepo := repository.NewModelRepository(db)
	uploadLogRepo := repository.NewUploadLogRepository(db)
	webhookLogRepo := repository.NewWebhookLogRepository(db)

	modelSvc := NewModelService(modelRepo, settingsRepo, store, t.TempDir())

	return &testEnv{
		db:        db,
		store:     store,
		account:   NewAccountService(accountRepo, settingsRepo, modelRepo, store),
		settings:  NewSettingsService(settingsRepo, accountRepo),
		models:    modelSvc,
		csv:       NewCSVService(modelSvc, store),
		zips:      NewZipService(store, uploadLogRepo),
		webhooks:  NewWebhookService(accountRepo, settingsRepo, modelRepo, webhookLogRepo, store),
		modelRepo: modelRepo,
		logRepo:   uploadLogRepo,
	}
}

// buildZip 按给定顺序构造内存 ZIP
func buildZip(t *testing.T, names []string, contents map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("写ZIP条目失败 %s: %v", name, err)
		}
		if _, err := f.Write([]byte(contents[name])); err != nil {
			t.Fatalf("写ZIP内容失败 %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("关闭ZIP失败: %v", err)
	}
	return buf.Bytes()
}

// modelZip 一个包含贴图和 glb 的最小模型压缩包
func modelZip(t *testing.T) []byte {
	t.Helper()
	return buildZip(t,
		[]string{"textures/wood.png", "shoe.glb"},
		map[string]string{
			"textures/wood.png": "png-bytes",
			"shoe.glb":          "glb-bytes",
		},
	)
}
