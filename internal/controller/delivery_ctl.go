package controller

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"threed_viewer_v1_202601/internal/api/dto"
	"threed_viewer_v1_202601/internal/middleware"
	"threed_viewer_v1_202601/internal/model"
	"threed_viewer_v1_202601/internal/service"
	"threed_viewer_v1_202601/internal/viewer"

	"github.com/gin-gonic/gin"
)

// DeliveryController 店面侧投递接口，全部只读、无副作用
type DeliveryController struct {
	modelSvc    *service.ModelService
	settingsSvc *service.SettingsService
	sampleDir   string // sample-3d-models.csv 所在目录
}

func NewDeliveryController(modelSvc *service.ModelService, settingsSvc *service.SettingsService, sampleDir string) *DeliveryController {
	return &DeliveryController{
		modelSvc:    modelSvc,
		settingsSvc: settingsSvc,
		sampleDir:   sampleDir,
	}
}

// GetModelJSON 店面机器端点
// @Summary 获取模型与设置 JSON
// @Description 店面脚本用的只读端点，返回 {model, settings}
// @Tags Delivery (店面投递)
// @Produce json
// @Param shop query string true "店铺域名"
// @Param productId query string true "商品ID"
// @Success 200 {object} dto.DeliveryResp "模型与设置"
// @Failure 400 {object} map[string]string "缺少参数"
// @Failure 404 {object} map[string]string "记录不存在"
// @Failure 500 {object} map[string]string "服务器错误"
// @Router /get-3d-model [get]
func (c *DeliveryController) GetModelJSON(ctx *gin.Context) {
	shop := ctx.Query("shop")
	productID := ctx.Query("productId")
	if shop == "" || productID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Shop and productId parameters are required"})
		return
	}

	record, settings, err := c.modelSvc.GetModelAndSettings(ctx.Request.Context(), shop, productID)
	if err != nil {
		log.Printf("[投递] 查询模型失败 shop=%s productId=%s: %v", shop, productID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if record == nil || settings == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "3D model or settings not found for this shop/product"})
		return
	}

	ctx.JSON(http.StatusOK, dto.DeliveryResp{
		Model: dto.DeliveryModelResp{
			ZipFile: record.ZipFile,
			Name:    record.Name,
		},
		Settings: dto.SettingsResp{
			Status:        settings.Status,
			OtherFeatures: settings.OtherFeatures,
			Width:         settings.Width,
			Height:        settings.Height,
		},
	})
}

// GetModelHTML 店面全屏预览页
// @Summary 获取完整查看器页面
// @Description 独立 HTML 页面，按设置的交互模式内联动画脚本
// @Tags Delivery (店面投递)
// @Produce html
// @Param shop query string true "店铺域名"
// @Param productId query string true "商品ID"
// @Success 200 {string} string "HTML 页面"
// @Failure 400 {string} string "错误页"
// @Failure 404 {string} string "错误页"
// @Router /full-3d-model [get]
func (c *DeliveryController) GetModelHTML(ctx *gin.Context) {
	shop := ctx.Query("shop")
	productID := ctx.Query("productId")
	if shop == "" || productID == "" {
		ctx.Data(http.StatusBadRequest, "text/html; charset=utf-8",
			[]byte(viewer.RenderError("Shop and productId parameters are required")))
		return
	}

	record, settings, err := c.modelSvc.GetModelAndSettings(ctx.Request.Context(), shop, productID)
	if err != nil {
		log.Printf("[投递] 渲染预览页失败 shop=%s productId=%s: %v", shop, productID, err)
		ctx.Data(http.StatusInternalServerError, "text/html; charset=utf-8",
			[]byte(viewer.RenderError("Internal server error")))
		return
	}
	if record == nil || settings == nil {
		ctx.Data(http.StatusNotFound, "text/html; charset=utf-8",
			[]byte(viewer.RenderError("3D model or settings not found for this shop/product")))
		return
	}

	// 停用优先于无模型
	var html string
	switch {
	case settings.Status != model.StatusEnable:
		html = viewer.RenderDisabled()
	case record.ZipFile == nil || *record.ZipFile == "":
		html = viewer.RenderNoModel()
	default:
		html = viewer.RenderViewer(viewer.PageModel{
			ModelName: record.Name,
			ModelPath: viewer.ModelPublicPath(*record.ZipFile),
			Feature:   viewer.Feature(settings.OtherFeatures),
		})
	}

	ctx.Header("Cache-Control", "no-cache")
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GetProductModel 管理端查询单个商品的模型
// @Summary 获取单个商品模型
// @Description 会话内按商品查模型名和资产路径
// @Tags Delivery (店面投递)
// @Produce json
// @Param productId query string true "商品ID"
// @Success 200 {object} map[string]interface{} "{"name": ..., "zipFile": ...}"
// @Failure 400 {object} map[string]string "缺少参数"
// @Failure 404 {object} map[string]string "记录不存在"
// @Router /api/threed-product-model [get]
func (c *DeliveryController) GetProductModel(ctx *gin.Context) {
	shop := middleware.GetShop(ctx)
	productID := ctx.Query("productId")
	if productID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	record, err := c.modelSvc.Get(ctx.Request.Context(), shop, productID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch 3D model"})
		return
	}
	if record == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "3D model not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"name": record.Name, "zipFile": record.ZipFile})
}

// GetViewerSettings 店面查询查看器设置
// @Summary 获取店铺查看器设置
// @Description 店面脚本按店铺域名拉设置
// @Tags Delivery (店面投递)
// @Produce json
// @Param shop query string true "店铺域名"
// @Success 200 {object} dto.SettingsResp "设置内容"
// @Failure 400 {object} map[string]string "缺少参数"
// @Failure 404 {object} map[string]string "尚未保存设置"
// @Router /threed-product-viewer-settings [get]
func (c *DeliveryController) GetViewerSettings(ctx *gin.Context) {
	shop := ctx.Query("shop")
	if shop == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Shop parameter is missing"})
		return
	}

	settings, err := c.settingsSvc.GetByShop(ctx.Request.Context(), shop)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if settings == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Settings not found for this shop"})
		return
	}

	ctx.JSON(http.StatusOK, dto.SettingsResp{
		Status:        settings.Status,
		OtherFeatures: settings.OtherFeatures,
		Width:         settings.Width,
		Height:        settings.Height,
	})
}

// DownloadSampleCSV 下载示例 CSV
// @Summary 下载示例 CSV
// @Tags Delivery (店面投递)
// @Produce plain
// @Success 200 {string} string "CSV 内容"
// @Failure 404 {object} map[string]string "示例文件不存在"
// @Router /download-sample-csv [get]
func (c *DeliveryController) DownloadSampleCSV(ctx *gin.Context) {
	p := filepath.Join(c.sampleDir, "sample-3d-models.csv")
	data, err := os.ReadFile(p)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Sample CSV file not found"})
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="sample-3d-models.csv"`)
	ctx.Header("Content-Length", strconv.Itoa(len(data)))
	ctx.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	ctx.Data(http.StatusOK, "text/csv", data)
}
