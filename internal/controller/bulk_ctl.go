package controller

import (
	"errors"
	"io"
	"net/http"

	"threed_viewer_v1_202601/internal/middleware"
	"threed_viewer_v1_202601/internal/service"

	"github.com/gin-gonic/gin"
)

type BulkController struct {
	csvSvc     *service.CSVService
	zipSvc     *service.ZipService
	accountSvc *service.AccountService
}

func NewBulkController(csvSvc *service.CSVService, zipSvc *service.ZipService, accountSvc *service.AccountService) *BulkController {
	return &BulkController{
		csvSvc:     csvSvc,
		zipSvc:     zipSvc,
		accountSvc: accountSvc,
	}
}

// UploadCSV 批量导入 CSV
// @Summary 批量导入 CSV
// @Description 两阶段导入：先整体校验所有行，再逐行解压登记；
// @Description 任意一行失败即中止并返回该行的错误信息（已处理的行不回滚）
// @Tags Bulk (批量导入)
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV 文件"
// @Success 200 {object} map[string]interface{} "{"success": true, "message": "..."}"
// @Failure 400 {object} map[string]interface{} "{"success": false, "message": "..."}"
// @Failure 403 {object} map[string]string "尚未创建账号"
// @Router /api/bulk/csv [post]
func (c *BulkController) UploadCSV(ctx *gin.Context) {
	if !requireAccount(ctx, c.accountSvc) {
		return
	}
	shop := middleware.GetShop(ctx)

	var (
		fileName string
		data     []byte
	)
	if fh, err := ctx.FormFile("file"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		defer f.Close()

		data, err = io.ReadAll(f)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		fileName = fh.Filename
	}

	result, err := c.csvSvc.Import(ctx.Request.Context(), shop, fileName, data)
	if err != nil {
		// 导入错误都是面向商户的校验/处理信息，原样返回
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": result.Message})
}

// UploadZips 批量上传 ZIP
// @Summary 批量上传 ZIP
// @Description 将压缩包原样写入公共目录供 CSV path 字段引用；
// @Description 支持部分成功，逐文件返回结果
// @Tags Bulk (批量导入)
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "一个或多个 ZIP 文件"
// @Success 200 {object} service.UploadResult "整批结果"
// @Failure 400 {object} map[string]interface{} "{"success": false, "message": "..."}"
// @Failure 403 {object} map[string]string "尚未创建账号"
// @Router /api/bulk/zip [post]
func (c *BulkController) UploadZips(ctx *gin.Context) {
	if !requireAccount(ctx, c.accountSvc) {
		return
	}
	shop := middleware.GetShop(ctx)

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": service.ErrNoZipFiles.Error()})
		return
	}

	var files []service.UploadFile
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		files = append(files, service.UploadFile{Name: fh.Filename, Data: data})
	}

	result, err := c.zipSvc.Upload(ctx.Request.Context(), shop, files)
	if err != nil {
		if errors.Is(err, service.ErrNoZipFiles) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, result)
}
