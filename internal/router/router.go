package router

import (
	"threed_viewer_v1_202601/internal/controller"
	"threed_viewer_v1_202601/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	webhookSecret string,
	accountCtl *controller.AccountController,
	settingsCtl *controller.SettingsController,
	modelCtl *controller.ModelController,
	bulkCtl *controller.BulkController,
	deliveryCtl *controller.DeliveryController,
	webhookCtl *controller.WebhookController,
	productCtl *controller.ProductController) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. 店面投递路由（公开，只读）
	r.GET("/get-3d-model", deliveryCtl.GetModelJSON)
	r.GET("/full-3d-model", deliveryCtl.GetModelHTML)
	r.GET("/threed-product-viewer-settings", deliveryCtl.GetViewerSettings)
	r.GET("/download-sample-csv", deliveryCtl.DownloadSampleCSV)

	// 3. 合规 Webhook 路由（签名校验）
	webhooks := r.Group("/webhooks", middleware.WebhookAuth(webhookSecret))
	{
		webhooks.POST("/customers/data-request", webhookCtl.CustomersDataRequest)
		webhooks.POST("/customers/redact", webhookCtl.CustomersRedact)
		webhooks.POST("/shop/redact", webhookCtl.ShopRedact)
	}

	// 4. 管理端 API 路由组（会话认证）
	api := r.Group("/api", middleware.SessionAuth())
	{
		// account 账号管理
		account := api.Group("/account")
		{
			account.POST("", accountCtl.CreateAccount)
			account.GET("", accountCtl.GetAccount)
			account.PUT("", accountCtl.UpdateAccount)
			account.DELETE("", accountCtl.DeleteAccount)
		}
		// settings 查看器设置
		settings := api.Group("/settings")
		{
			settings.GET("", settingsCtl.GetSettings)
			settings.POST("", settingsCtl.SaveSettings)
		}
		// models 模型管理
		models := api.Group("/models")
		{
			models.GET("", modelCtl.ListModels)
			models.POST("", modelCtl.UploadModel)
			models.DELETE("/:productId", modelCtl.DeleteModel)
		}
		// bulk 批量导入
		bulk := api.Group("/bulk")
		{
			bulk.POST("/csv", bulkCtl.UploadCSV)
			bulk.POST("/zip", bulkCtl.UploadZips)
		}
		// products 商品选择器
		products := api.Group("/products")
		{
			products.GET("", productCtl.ListProducts)
		}
		// 管理端查单个模型
		api.GET("/threed-product-model", deliveryCtl.GetProductModel)
	}
}
