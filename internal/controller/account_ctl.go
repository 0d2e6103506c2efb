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

type AccountController struct {
	accountSvc *service.AccountService
}

func NewAccountController(accountSvc *service.AccountService) *AccountController {
	return &AccountController{
		accountSvc: accountSvc,
	}
}

// requireAccount 账号门禁：未建号的店铺不允许模型/上传类操作
// 拦截时返回 false，响应已写出
func requireAccount(ctx *gin.Context, accountSvc *service.AccountService) bool {
	_, err := accountSvc.Require(ctx.Request.Context(), middleware.GetShop(ctx))
	if err == nil {
		return true
	}
	if errors.Is(err, service.ErrNoAccount) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
	return false
}

func toAccountResp(a *model.Account) dto.AccountResp {
	return dto.AccountResp{
		ID:        a.ID,
		Shop:      a.Shop,
		Username:  a.Username,
		Email:     a.Email,
		SerialKey: a.SerialKey,
		CreatedAt: a.CreatedAt,
	}
}

// CreateAccount 创建账号
// @Summary 创建账号
// @Description 为当前店铺创建账号并生成序列号
// @Tags Account (账号管理)
// @Accept json
// @Produce json
// @Param request body dto.CreateAccountReq true "账号参数"
// @Success 201 {object} dto.AccountResp "创建结果"
// @Failure 400 {object} map[string]string "参数错误或用户名/邮箱冲突"
// @Failure 500 {object} map[string]string "服务器错误"
// @Router /api/account [post]
func (c *AccountController) CreateAccount(ctx *gin.Context) {
	shop := middleware.GetShop(ctx)

	var req dto.CreateAccountReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	account, err := c.accountSvc.Create(ctx.Request.Context(), shop, req.Username, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "type": "username"})
		case errors.Is(err, service.ErrEmailTaken):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "type": "email"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusCreated, toAccountResp(account))
}

// GetAccount 获取当前店铺账号
// @Summary 获取账号
// @Description 获取当前店铺的账号信息
// @Tags Account (账号管理)
// @Produce json
// @Success 200 {object} dto.AccountResp "账号信息"
// @Failure 404 {object} map[string]string "账号不存在"
// @Failure 500 {object} map[string]string "服务器错误"
// @Router /api/account [get]
func (c *AccountController) GetAccount(ctx *gin.Context) {
	shop := middleware.GetShop(ctx)

	account, err := c.accountSvc.GetByShop(ctx.Request.Context(), shop)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if account == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": service.ErrNoAccount.Error()})
		return
	}

	ctx.JSON(http.StatusOK, toAccountResp(account))
}

// UpdateAccount 更新账号
// @Summary 更新账号
// @Description 更新当前店铺账号的用户名/邮箱
// @Tags Account (账号管理)
// @Accept json
// @Produce json
// @Param request body dto.CreateAccountReq true "更新参数"
// @Success 200 {object} dto.AccountResp "更新结果"
// @Failure 400 {object} map[string]string "参数错误或冲突"
// @Failure 404 {object} map[string]string "账号不存在"
// @Router /api/account [put]
func (c *AccountController) UpdateAccount(ctx *gin.Context) {
	shop := middleware.GetShop(ctx)

	var req dto.CreateAccountReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	account, err := c.accountSvc.Update(ctx.Request.Context(), shop, req.Username, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoAccount):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUsernameTaken):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "type": "username"})
		case errors.Is(err, service.ErrEmailTaken):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "type": "email"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, toAccountResp(account))
}

// DeleteAccount 删除账号
// @Summary 删除账号
// @Description 删除当前店铺账号，级联清理设置、模型记录与公共资产
// @Tags Account (账号管理)
// @Produce json
// @Success 200 {object} map[string]string "{"message": "Account deleted"}"
// @Failure 404 {object} map[string]string "账号不存在"
// @Failure 500 {object} map[string]string "删除失败"
// @Router /api/account [delete]
func (c *AccountController) DeleteAccount(ctx *gin.Context) {
	shop := middleware.GetShop(ctx)

	if err := c.accountSvc.Delete(ctx.Request.Context(), shop); err != nil {
		if errors.Is(err, service.ErrNoAccount) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
