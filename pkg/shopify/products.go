package shopify

import (
	"context"
	"encoding/json"
	"fmt"
)

// 商品选择页用的 products 分页查询

const productsQuery = `
query($first: Int, $last: Int, $after: String, $before: String, $query: String) {
  products(first: $first, last: $last, after: $after, before: $before, query: $query) {
    edges {
      node {
        id
        title
        featuredMedia {
          ... on MediaImage {
            image {
              url
            }
          }
        }
      }
      cursor
    }
    pageInfo {
      hasNextPage
      hasPreviousPage
      startCursor
      endCursor
    }
  }
}`

// ProductNode 一个商品节点
type ProductNode struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageSrc string `json:"imageSrc"`
	Cursor   string `json:"cursor"`
}

// PageInfo GraphQL 分页游标信息
type PageInfo struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

// ProductsPageParams 分页参数；Before 非空时往回翻
type ProductsPageParams struct {
	After  string
	Before string
	Search string
	Size   int
}

// ProductsPage 拉取一页商品
func (c *Client) ProductsPage(ctx context.Context, shop string, params ProductsPageParams) ([]ProductNode, *PageInfo, error) {
	size := params.Size
	if size <= 0 {
		size = 10
	}

	variables := map[string]interface{}{}
	if params.Before != "" {
		variables["last"] = size
		variables["before"] = params.Before
	} else {
		variables["first"] = size
		if params.After != "" {
			variables["after"] = params.After
		}
	}
	if params.Search != "" {
		variables["query"] = fmt.Sprintf("title:*%s*", params.Search)
	}

	resp, err := c.Execute(ctx, shop, productsQuery, variables)
	if err != nil {
		return nil, nil, err
	}

	var payload struct {
		Products struct {
			Edges []struct {
				Node struct {
					ID            string `json:"id"`
					Title         string `json:"title"`
					FeaturedMedia struct {
						Image struct {
							URL string `json:"url"`
						} `json:"image"`
					} `json:"featuredMedia"`
				} `json:"node"`
				Cursor string `json:"cursor"`
			} `json:"edges"`
			PageInfo PageInfo `json:"pageInfo"`
		} `json:"products"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, nil, fmt.Errorf("解析商品分页失败: %w", err)
	}

	nodes := make([]ProductNode, 0, len(payload.Products.Edges))
	for _, edge := range payload.Products.Edges {
		nodes = append(nodes, ProductNode{
			ID:       edge.Node.ID,
			Title:    edge.Node.Title,
			ImageSrc: edge.Node.FeaturedMedia.Image.URL,
			Cursor:   edge.Cursor,
		})
	}
	return nodes, &payload.Products.PageInfo, nil
}
