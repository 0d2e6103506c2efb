package controller

import (
	"net/http"
	"strconv"

	"threed_viewer_v1_202601/internal/api/dto"
	"threed_viewer_v1_202601/internal/middleware"
	"threed_viewer_v1_202601/internal/service"
	"threed_viewer_v1_202601/pkg/shopify"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productSvc *service.ProductService
	modelSvc   *service.ModelService
	accountSvc *service.AccountService
}

func NewProductController(productSvc *service.ProductService, modelSvc *service.ModelService, accountSvc *service.AccountService) *ProductController {
	return &ProductController{
		productSvc: productSvc,
		modelSvc:   modelSvc,
		accountSvc: accountSvc,
	}
}

// ListProducts 商品选择器分页
// @Summary 获取商品列表
// @Description 从平台 GraphQL 拉一页商品，标记每个商品是否已有 3D 模型
// @Tags Product (商品选择器)
// @Produce json
// @Param after query string false "向后翻页游标"
// @Param before query string false "向前翻页游标"
// @Param search query string false "标题搜索关键词"
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} dto.ProductPickerResp "商品分页"
// @Failure 403 {object} map[string]string "尚未创建账号"
// @Failure 500 {object} map[string]string "拉取失败"
// @Router /api/products [get]
func (c *ProductController) ListProducts(ctx *gin.Context) {
	if !requireAccount(ctx, c.accountSvc) {
		return
	}
	shop := middleware.GetShop(ctx)

	size, _ := strconv.Atoi(ctx.DefaultQuery("size", "10"))
	page, err := c.productSvc.GetProductsPage(ctx.Request.Context(), shop, shopify.ProductsPageParams{
		After:  ctx.Query("after"),
		Before: ctx.Query("before"),
		Search: ctx.Query("search"),
		Size:   size,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 已有模型的商品集合
	records, err := c.modelSvc.ListByShop(ctx.Request.Context(), shop)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	withModel := make(map[string]bool, len(records))
	for _, record := range records {
		withModel[record.ProductID] = true
	}

	resp := dto.ProductPickerResp{
		Products: make([]dto.ProductPickerItem, 0, len(page.Products)),
	}
	for _, p := range page.Products {
		resp.Products = append(resp.Products, dto.ProductPickerItem{
			ID:       p.ID,
			Title:    p.Title,
			ImageSrc: p.ImageSrc,
			HasModel: withModel[p.ID],
		})
	}
	if page.PageInfo != nil {
		resp.HasNextPage = page.PageInfo.HasNextPage
		resp.HasPreviousPage = page.PageInfo.HasPreviousPage
		if page.PageInfo.StartCursor != nil {
			resp.StartCursor = *page.PageInfo.StartCursor
		}
		if page.PageInfo.EndCursor != nil {
			resp.EndCursor = *page.PageInfo.EndCursor
		}
	}

	ctx.JSON(http.StatusOK, resp)
}
