package controller

import (
	"errors"
	"io"
	"net/http"

	"threed_viewer_v1_202601/internal/api/dto"
	"threed_viewer_v1_202601/internal/middleware"
	"threed_viewer_v1_202601/internal/model"
	"threed_viewer_v1_202601/internal/service"

	"github.com/gin-gonic/gin"
)

type ModelController struct {
	modelSvc   *service.ModelService
	accountSvc *service.AccountService
}

func NewModelController(modelSvc *service.ModelService, accountSvc *service.AccountService) *ModelController {
	return &ModelController{
		modelSvc:   modelSvc,
		accountSvc: accountSvc,
	}
}

func toModelResp(m *model.ProductModel) dto.ModelResp {
	return dto.ModelResp{
		ID:        m.ID,
		ProductID: m.ProductID,
		Shop:      m.Shop,
		Name:      m.Name,
		ZipFile:   m.ZipFile,
		CreatedAt: m.CreatedAt,
	}
}

// UploadModel 上传单个商品模型
// @Summary 上传商品模型
// @Description multipart 表单：productId、name 必填，file 可选；
// @Description 带文件时解压并提取 glTF/GLB 资产，不带文件时清空已有资产引用
// @Tags Model (模型管理)
// @Accept multipart/form-data
// @Produce json
// @Param productId formData string true "商品ID（数字或 gid）"
// @Param name formData string true "模型名称"
// @Param file formData file false "ZIP 压缩包"
// @Success 200 {object} dto.ModelResp "登记结果"
// @Failure 400 {object} map[string]string "校验错误"
// @Failure 403 {object} map[string]string "尚未创建账号"
// @Failure 500 {object} map[string]string "处理失败"
// @Router /api/models [post]
func (c *ModelController) UploadModel(ctx *gin.Context) {
	if !requireAccount(ctx, c.accountSvc) {
		return
	}
	shop := middleware.GetShop(ctx)

	productID := ctx.PostForm("productId")
	name := ctx.PostForm("name")
	if productID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}

	var (
		fileName string
		zipData  []byte
	)
	if fh, err := ctx.FormFile("file"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()

		zipData, err = io.ReadAll(f)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		fileName = fh.Filename
	}

	record, err := c.modelSvc.Upload(ctx.Request.Context(), shop, productID, name, fileName, zipData)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrModelNameRequired),
			errors.Is(err, service.ErrInvalidProductID),
			errors.Is(err, service.ErrNotZipArchive),
			errors.Is(err, service.ErrNoModelInZip):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, toModelResp(record))
}

// ListModels 获取当前店铺的模型列表
// @Summary 获取模型列表
// @Tags Model (模型管理)
// @Produce json
// @Success 200 {array} dto.ModelResp "模型列表"
// @Failure 403 {object} map[string]string "尚未创建账号"
// @Failure 500 {object} map[string]string "查询失败"
// @Router /api/models [get]
func (c *ModelController) ListModels(ctx *gin.Context) {
	if !requireAccount(ctx, c.accountSvc) {
		return
	}
	shop := middleware.GetShop(ctx)

	records, err := c.modelSvc.ListByShop(ctx.Request.Context(), shop)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.ModelResp, 0, len(records))
	for i := range records {
		resp = append(resp, toModelResp(&records[i]))
	}

	ctx.JSON(http.StatusOK, resp)
}

// DeleteModel 删除商品模型
// @Summary 删除商品模型
// @Description 删除登记记录并尽力清理公共目录里的资产文件
// @Tags Model (模型管理)
// @Produce json
// @Param productId path string true "商品ID（数字或 gid）"
// @Success 200 {object} map[string]string "{"message": "Model deleted"}"
// @Failure 403 {object} map[string]string "尚未创建账号"
// @Failure 404 {object} map[string]string "记录不存在"
// @Failure 500 {object} map[string]string "删除失败"
// @Router /api/models/{productId} [delete]
func (c *ModelController) DeleteModel(ctx *gin.Context) {
	if !requireAccount(ctx, c.accountSvc) {
		return
	}
	shop := middleware.GetShop(ctx)
	productID := ctx.Param("productId")

	if err := c.modelSvc.Delete(ctx.Request.Context(), shop, productID); err != nil {
		if errors.Is(err, service.ErrModelNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Model deleted"})
}
