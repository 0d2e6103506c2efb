package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"threed_viewer_v1_202601/pkg/utils"
)

// Admin GraphQL 客户端。店铺域名在入口统一规范化，
// 所有请求带 X-Shopify-Access-Token。

type Client struct {
	apiVersion  string
	accessToken string
	http        *resty.Client
	logger      *zap.Logger
}

// NewClient 创建 Admin GraphQL 客户端
func NewClient(apiVersion, accessToken string, logger *zap.Logger) *Client {
	client := resty.New().
		SetTimeout(20 * time.Second).
		SetRetryCount(3).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Shopify-Access-Token", accessToken)

	return &Client{
		apiVersion:  apiVersion,
		accessToken: accessToken,
		http:        client,
		logger:      logger,
	}
}

// ==================== GraphQL 基础结构 ====================

type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// Execute 对指定店铺执行一次 GraphQL 请求
func (c *Client) Execute(ctx context.Context, shop, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	shop = utils.NormalizeShopDomain(shop)
	url := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, c.apiVersion)

	var out GraphQLResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(GraphQLRequest{Query: query, Variables: variables}).
		SetResult(&out).
		Post(url)
	if err != nil {
		c.logger.Error("GraphQL 请求失败", zap.String("shop", shop), zap.Error(err))
		return nil, fmt.Errorf("graphql request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		c.logger.Error("GraphQL 响应异常",
			zap.String("shop", shop),
			zap.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("graphql request failed with status %d", resp.StatusCode())
	}
	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", out.Errors[0].Message)
	}
	return &out, nil
}
