package controller

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"threed_viewer_v1_202601/internal/service"

	"github.com/gin-gonic/gin"
)

// WebhookController 平台合规 Webhook，签名校验在中间件里做
type WebhookController struct {
	webhookSvc *service.WebhookService
}

func NewWebhookController(webhookSvc *service.WebhookService) *WebhookController {
	return &WebhookController{
		webhookSvc: webhookSvc,
	}
}

// 从请求头和请求体取出店铺域名与原始载荷
func (c *WebhookController) readPayload(ctx *gin.Context) (shop string, body []byte, ok bool) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.Status(http.StatusBadRequest)
		return "", nil, false
	}

	shop = ctx.GetHeader("X-Shopify-Shop-Domain")
	if shop == "" {
		var payload struct {
			ShopDomain string `json:"shop_domain"`
		}
		_ = json.Unmarshal(body, &payload)
		shop = payload.ShopDomain
	}
	if shop == "" {
		ctx.Status(http.StatusBadRequest)
		return "", nil, false
	}
	return shop, body, true
}

// CustomersDataRequest 客户数据请求
// @Summary customers/data_request Webhook
// @Tags Webhook (合规回调)
// @Success 200 "处理完成"
// @Failure 401 "签名校验失败"
// @Router /webhooks/customers/data-request [post]
func (c *WebhookController) CustomersDataRequest(ctx *gin.Context) {
	shop, body, ok := c.readPayload(ctx)
	if !ok {
		return
	}

	if err := c.webhookSvc.Record(ctx.Request.Context(), shop, "customers/data_request", body); err != nil {
		log.Printf("[Webhook] 留痕失败 shop=%s: %v", shop, err)
	}

	snapshot, err := c.webhookSvc.Snapshot(ctx.Request.Context(), shop)
	if err != nil {
		log.Printf("[Webhook] 数据快照失败 shop=%s: %v", shop, err)
		ctx.Status(http.StatusInternalServerError)
		return
	}

	log.Printf("[Webhook] customers/data_request shop=%s hasAccount=%v hasSettings=%v models=%d",
		shop, snapshot.Account != nil, snapshot.Settings != nil, len(snapshot.Models))
	ctx.Status(http.StatusOK)
}

// CustomersRedact 客户数据删除
// 本应用不存客户个人数据，留痕并刷新账号时间戳即可
// @Summary customers/redact Webhook
// @Tags Webhook (合规回调)
// @Success 200 "处理完成"
// @Failure 401 "签名校验失败"
// @Router /webhooks/customers/redact [post]
func (c *WebhookController) CustomersRedact(ctx *gin.Context) {
	shop, body, ok := c.readPayload(ctx)
	if !ok {
		return
	}

	if err := c.webhookSvc.Record(ctx.Request.Context(), shop, "customers/redact", body); err != nil {
		log.Printf("[Webhook] 留痕失败 shop=%s: %v", shop, err)
	}

	if err := c.webhookSvc.TouchAccount(ctx.Request.Context(), shop); err != nil {
		log.Printf("[Webhook] 刷新账号时间戳失败 shop=%s: %v", shop, err)
	}

	log.Printf("[Webhook] customers/redact shop=%s", shop)
	ctx.Status(http.StatusOK)
}

// ShopRedact 店铺卸载后的数据清理
// @Summary shop/redact Webhook
// @Tags Webhook (合规回调)
// @Success 200 "处理完成"
// @Failure 401 "签名校验失败"
// @Failure 500 "清理失败"
// @Router /webhooks/shop/redact [post]
func (c *WebhookController) ShopRedact(ctx *gin.Context) {
	shop, body, ok := c.readPayload(ctx)
	if !ok {
		return
	}

	if err := c.webhookSvc.Record(ctx.Request.Context(), shop, "shop/redact", body); err != nil {
		log.Printf("[Webhook] 留痕失败 shop=%s: %v", shop, err)
	}

	if err := c.webhookSvc.Redact(ctx.Request.Context(), shop); err != nil {
		log.Printf("[Webhook] 店铺数据清理失败 shop=%s: %v", shop, err)
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.Status(http.StatusOK)
}
