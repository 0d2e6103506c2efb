package controller

import (
	"errors"
	"net/http"

	"threed_viewer_v1_202601/internal/api/dto"
	"threed_viewer_v1_202601/internal/middleware"
	"threed_viewer_v1_202601/internal/model"
	"threed_viewer_v1_202601/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	settingsSvc *service.SettingsService
}

func NewSettingsController(settingsSvc *service.SettingsService) *SettingsController {
	return &SettingsController{
		settingsSvc: settingsSvc,
	}
}

func toSettingsResp(s *model.ViewerSettings) dto.SettingsResp {
	return dto.SettingsResp{
		Status:        s.Status,
		OtherFeatures: s.OtherFeatures,
		Width:         s.Width,
		Height:        s.Height,
	}
}

// GetSettings 获取查看器设置
// @Summary 获取查看器设置
// @Description 获取当前店铺的 3D 查看器设置；未保存过时返回 404
// @Tags Settings (查看器设置)
// @Produce json
// @Success 200 {object} dto.SettingsResp "设置内容"
// @Failure 404 {object} map[string]string "尚未保存设置"
// @Failure 500 {object} map[string]string "服务器错误"
// @Router /api/settings [get]
func (c *SettingsController) GetSettings(ctx *gin.Context) {
	shop := middleware.GetShop(ctx)

	settings, err := c.settingsSvc.GetByShop(ctx.Request.Context(), shop)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if settings == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		return
	}

	ctx.JSON(http.StatusOK, toSettingsResp(settings))
}

// SaveSettings 保存查看器设置
// @Summary 保存查看器设置
// @Description 按店铺 upsert 查看器设置；宽高必须在 50-700 之间或留空
// @Tags Settings (查看器设置)
// @Accept json
// @Produce json
// @Param request body dto.SaveSettingsReq true "设置参数"
// @Success 200 {object} dto.SettingsResp "保存结果"
// @Failure 400 {object} map[string]string "尺寸越界等校验错误"
// @Failure 500 {object} map[string]string "保存失败"
// @Router /api/settings [post]
func (c *SettingsController) SaveSettings(ctx *gin.Context) {
	shop := middleware.GetShop(ctx)

	var req dto.SaveSettingsReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	settings, err := c.settingsSvc.Save(ctx.Request.Context(), shop, service.SettingsInput{
		Status:        req.Status,
		OtherFeatures: req.OtherFeatures,
		Width:         req.Width,
		Height:        req.Height,
	})
	if err != nil {
		if errors.Is(err, service.ErrWidthOutOfRange) || errors.Is(err, service.ErrHeightOutOfRange) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, toSettingsResp(settings))
}
