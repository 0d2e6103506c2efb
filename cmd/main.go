package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"threed_viewer_v1_202601/internal/config"
	"threed_viewer_v1_202601/internal/controller"
	"threed_viewer_v1_202601/internal/middleware"
	"threed_viewer_v1_202601/internal/model"
	"threed_viewer_v1_202601/internal/repository"
	"threed_viewer_v1_202601/internal/router"
	"threed_viewer_v1_202601/internal/service"
	"threed_viewer_v1_202601/internal/task"
	"threed_viewer_v1_202601/pkg/database"
	"threed_viewer_v1_202601/pkg/shopify"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// 1. 读取配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("读取配置失败: %v", err)
	}

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(cfg, db)

	// 4. 启动定时任务
	tm := initTasks(cfg, deps)
	defer tm.Stop()

	// 5. 初始化路由
	r := gin.Default()
	if cfg.Storage.Provider == "local" {
		// 本地存储时由进程自己托管公开资产，店面代理路径指向同一目录
		r.Static("/public", cfg.Storage.PublicDir)
		r.Static("/apps/threed", cfg.Storage.PublicDir)
	}
	router.InitRoutes(r,
		cfg.Shopify.WebhookSecret,
		deps.Controllers.Account,
		deps.Controllers.Settings,
		deps.Controllers.Model,
		deps.Controllers.Bulk,
		deps.Controllers.Delivery,
		deps.Controllers.Webhook,
		deps.Controllers.Product,
	)

	// 6. 启动服务
	startServer(r, cfg.Port)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Account    repository.AccountRepository
	Settings   repository.SettingsRepository
	Model      repository.ModelRepository
	Product    repository.ProductRepository
	UploadLog  repository.UploadLogRepository
	WebhookLog repository.WebhookLogRepository
}

// Services 服务集合
type Services struct {
	Store    service.AssetStore
	Account  *service.AccountService
	Settings *service.SettingsService
	Model    *service.ModelService
	CSV      *service.CSVService
	Zip      *service.ZipService
	Product  *service.ProductService
	Webhook  *service.WebhookService
}

// Controllers 控制器集合
type Controllers struct {
	Account  *controller.AccountController
	Settings *controller.SettingsController
	Model    *controller.ModelController
	Bulk     *controller.BulkController
	Delivery *controller.DeliveryController
	Webhook  *controller.WebhookController
	Product  *controller.ProductController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.Database.DSN(),
		// Account
		&model.Account{},
		// Viewer
		&model.ViewerSettings{}, &model.ProductModel{},
		// Product 缓存
		&model.Product{},
		// 审计
		&model.UploadLog{}, &model.WebhookLog{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Account:    repository.NewAccountRepository(db),
		Settings:   repository.NewSettingsRepository(db),
		Model:      repository.NewModelRepository(db),
		Product:    repository.NewProductRepository(db),
		UploadLog:  repository.NewUploadLogRepository(db),
		WebhookLog: repository.NewWebhookLogRepository(db),
	}

	// -------- 存储 --------
	store, err := service.NewAssetStore(&cfg.Storage)
	if err != nil {
		log.Fatalf("存储初始化失败: %v", err)
	}

	// -------- 平台客户端 --------
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	shopifyClient := shopify.NewClient(cfg.Shopify.APIVersion, cfg.Shopify.AccessToken, zapLogger)

	// -------- 会话中间件配置 --------
	middleware.SetSessionConfig(&middleware.SessionConfig{Secret: cfg.Session.Secret})

	// -------- 业务服务 --------
	services := &Services{Store: store}
	services.Account = service.NewAccountService(repos.Account, repos.Settings, repos.Model, store)
	services.Settings = service.NewSettingsService(repos.Settings, repos.Account)
	services.Model = service.NewModelService(repos.Model, repos.Settings, store, cfg.Storage.TempDir)
	services.CSV = service.NewCSVService(services.Model, store)
	services.Zip = service.NewZipService(store, repos.UploadLog)
	services.Product = service.NewProductService(repos.Product, shopifyClient)
	services.Webhook = service.NewWebhookService(repos.Account, repos.Settings, repos.Model, repos.WebhookLog, store)

	// -------- Controller 层 --------
	controllers := &Controllers{
		Account:  controller.NewAccountController(services.Account),
		Settings: controller.NewSettingsController(services.Settings),
		Model:    controller.NewModelController(services.Model, services.Account),
		Bulk:     controller.NewBulkController(services.CSV, services.Zip, services.Account),
		Delivery: controller.NewDeliveryController(services.Model, services.Settings, cfg.Storage.PublicDir),
		Webhook:  controller.NewWebhookController(services.Webhook),
		Product:  controller.NewProductController(services.Product, services.Model, services.Account),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(cfg *config.Config, deps *Dependencies) *task.TaskManager {
	tm := task.NewTaskManager(&task.TaskManagerDeps{
		Store:     deps.Services.Store,
		ModelRepo: deps.Repos.Model,
		LogRepo:   deps.Repos.UploadLog,
	}, &cfg.Storage, &cfg.Tasks)
	tm.Start()
	return tm
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, port string) {
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}
