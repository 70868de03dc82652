// Package shopify 实现 Shopify Storefront GraphQL API 客户端
package shopify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/logger"
)

const tokenHeader = "X-Shopify-Storefront-Access-Token"

// Client Storefront API 客户端，同时作为商品目录和结账网关
type Client struct {
	http     *resty.Client
	endpoint string
}

var (
	_ domain.ProductCatalog       = (*Client)(nil)
	_ cartdomain.CheckoutGateway = (*Client)(nil)
)

// NewClient 根据配置创建客户端
func NewClient(cfg config.CommerceConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200*time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader(tokenHeader, cfg.StorefrontToken)

	return &Client{http: httpClient, endpoint: cfg.Endpoint}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []graphQLError `json:"errors"`
}

func do[T any](ctx context.Context, c *Client, query string, vars map[string]any) (T, error) {
	var out graphQLResponse[T]
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(graphQLRequest{Query: query, Variables: vars}).
		SetResult(&out).
		Post(c.endpoint)
	if err != nil {
		return out.Data, fmt.Errorf("%w: %v", domain.ErrCommerceBackend, err)
	}
	if resp.IsError() {
		logger.Warn(ctx, "storefront api returned http error", "status", resp.StatusCode(), "body", resp.String())
		return out.Data, fmt.Errorf("%w: http status %d", domain.ErrCommerceBackend, resp.StatusCode())
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return out.Data, fmt.Errorf("%w: %s", domain.ErrCommerceBackend, strings.Join(msgs, "; "))
	}
	return out.Data, nil
}

type edges[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
}

func (e edges[T]) nodes() []T {
	out := make([]T, 0, len(e.Edges))
	for _, edge := range e.Edges {
		out = append(out, edge.Node)
	}
	return out
}

type productNode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Handle      string `json:"handle"`
	PriceRange  struct {
		MinVariantPrice domain.Price `json:"minVariantPrice"`
	} `json:"priceRange"`
	Images   edges[domain.Image]   `json:"images"`
	Variants edges[domain.Variant] `json:"variants"`
	Options  []domain.Option       `json:"options"`
}

func (n productNode) toDomain() domain.Product {
	return domain.Product{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Handle:      n.Handle,
		MinPrice:    n.PriceRange.MinVariantPrice,
		Images:      n.Images.nodes(),
		Variants:    n.Variants.nodes(),
		Options:     n.Options,
	}
}

// FetchProducts 获取前 limit 个商品
func (c *Client) FetchProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	data, err := do[struct {
		Products edges[productNode] `json:"products"`
	}](ctx, c, productsQuery, map[string]any{"first": limit})
	if err != nil {
		return nil, err
	}

	nodes := data.Products.nodes()
	products := make([]domain.Product, 0, len(nodes))
	for _, n := range nodes {
		products = append(products, n.toDomain())
	}
	return products, nil
}

// FetchProductByHandle 按 handle 获取商品
func (c *Client) FetchProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	data, err := do[struct {
		ProductByHandle *productNode `json:"productByHandle"`
	}](ctx, c, productByHandleQuery, map[string]any{"handle": handle})
	if err != nil {
		return nil, err
	}
	if data.ProductByHandle == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, handle)
	}
	p := data.ProductByHandle.toDomain()
	return &p, nil
}

type cartLine struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// CreateCheckoutSession 通过 cartCreate 创建平台购物车并返回结账地址
func (c *Client) CreateCheckoutSession(ctx context.Context, items []cartdomain.LineItem) (string, error) {
	lines := make([]cartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, cartLine{MerchandiseID: item.VariantID, Quantity: item.Quantity})
	}

	data, err := do[struct {
		CartCreate struct {
			Cart *struct {
				ID          string `json:"id"`
				CheckoutURL string `json:"checkoutUrl"`
			} `json:"cart"`
			UserErrors []userError `json:"userErrors"`
		} `json:"cartCreate"`
	}](ctx, c, cartCreateMutation, map[string]any{"input": map[string]any{"lines": lines}})
	if err != nil {
		return "", err
	}

	result := data.CartCreate
	if len(result.UserErrors) > 0 {
		msgs := make([]string, 0, len(result.UserErrors))
		for _, ue := range result.UserErrors {
			msgs = append(msgs, ue.Message)
		}
		return "", fmt.Errorf("%w: %s", domain.ErrCommerceBackend, strings.Join(msgs, "; "))
	}
	if result.Cart == nil || result.Cart.CheckoutURL == "" {
		return "", fmt.Errorf("%w: %w", domain.ErrCommerceBackend, errMissingCheckoutURL)
	}
	return result.Cart.CheckoutURL, nil
}

var errMissingCheckoutURL = errors.New("cartCreate returned no checkout url")
