package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"threed_viewer_v1_202601/internal/model"
	"threed_viewer_v1_202601/internal/repository"
	"threed_viewer_v1_202601/pkg/shopify"
	"threed_viewer_v1_202601/pkg/utils"
)

// 选择页分页缓存的有效期
const productPageCacheTTL = time.Minute

// ProductService 商品选择页：拉 Admin GraphQL 商品分页并维护本地缓存表
type ProductService struct {
	productRepo repository.ProductRepository
	client      *shopify.Client
}

func NewProductService(productRepo repository.ProductRepository, client *shopify.Client) *ProductService {
	return &ProductService{productRepo: productRepo, client: client}
}

// ProductsPage 的返回载荷，同时也是缓存的序列化形态
type ProductsPageResult struct {
	Products []shopify.ProductNode `json:"products"`
	PageInfo *shopify.PageInfo     `json:"pageInfo"`
}

// GetProductsPage 取一页商品
// 同参数一分钟内直接走缓存；每拉一页远端数据就 upsert 进缓存表
func (s *ProductService) GetProductsPage(ctx context.Context, shop string, params shopify.ProductsPageParams) (*ProductsPageResult, error) {
	cacheKey := fmt.Sprintf("products:%s:%s:%s:%s", shop, params.After, params.Before, params.Search)
	if cached, ok := utils.GetCache(cacheKey); ok {
		var result ProductsPageResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
		// 反序列化不了的缓存条目直接丢弃，落回远端拉取
		utils.DeleteCache(cacheKey)
	}

	nodes, pageInfo, err := s.client.ProductsPage(ctx, shop, params)
	if err != nil {
		return nil, err
	}

	// 刷新本地缓存表，(id, shop) 冲突只更新标题和图片
	products := make([]model.Product, 0, len(nodes))
	for _, n := range nodes {
		products = append(products, model.Product{
			ID:       n.ID,
			Shop:     shop,
			Title:    n.Title,
			ImageSrc: n.ImageSrc,
		})
	}
	if err := s.productRepo.BatchUpsert(ctx, products); err != nil {
		log.Printf("商品缓存写入失败: %v", err)
	}

	result := &ProductsPageResult{Products: nodes, PageInfo: pageInfo}
	if data, err := json.Marshal(result); err == nil {
		utils.SetCache(cacheKey, string(data), productPageCacheTTL)
	}
	return result, nil
}
