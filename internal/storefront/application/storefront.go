package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// Options 业务参数
type Options struct {
	FreeShippingThreshold decimal.Decimal
	RecommendationFetch   int
	RecommendationLimit   int
}

// DefaultOptions 默认业务参数
func DefaultOptions() Options {
	return Options{
		FreeShippingThreshold: cartdomain.DefaultFreeShippingThreshold,
		RecommendationFetch:   4,
		RecommendationLimit:   3,
	}
}

// AddProductCommand 把目录商品加入购物车
// VariantID 优先；否则按 Options 匹配；都为空时取默认变体
type AddProductCommand struct {
	Handle    string
	VariantID string
	Options   map[string]string
	Quantity  int
}

// AddSubscriptionCommand 把订阅档位加入购物车
type AddSubscriptionCommand struct {
	Plan      string
	Frequency string
}

// StorefrontService 跨模块用例
type StorefrontService struct {
	catalog *catalogapp.CatalogQueryService
	opts    Options
}

// NewStorefrontService 创建用例服务
func NewStorefrontService(catalog *catalogapp.CatalogQueryService, opts Options) *StorefrontService {
	return &StorefrontService{catalog: catalog, opts: opts}
}

// Options 当前业务参数
func (s *StorefrontService) Options() Options {
	return s.opts
}

// AddProduct 解析变体并加入购物车，返回加入的行
func (s *StorefrontService) AddProduct(ctx context.Context, sess *Session, cmd AddProductCommand) (cartdomain.LineItem, error) {
	product, err := s.catalog.GetProduct(ctx, cmd.Handle)
	if err != nil {
		return cartdomain.LineItem{}, err
	}

	variant, ok := selectVariant(product, cmd)
	if !ok {
		return cartdomain.LineItem{}, fmt.Errorf("%w: no matching variant for %s", catalogdomain.ErrProductNotFound, cmd.Handle)
	}
	if !variant.AvailableForSale {
		return cartdomain.LineItem{}, fmt.Errorf("%w: %s", catalogdomain.ErrVariantUnavailable, variant.ID)
	}
	if code := variant.Price.CurrencyCode; code != "" && code != cartdomain.ReferenceCurrency {
		return cartdomain.LineItem{}, fmt.Errorf("%w: %s priced in %s", catalogdomain.ErrVariantUnavailable, variant.ID, code)
	}

	item := toLineItem(product, variant, cmd.Quantity)
	if err := sess.Cart.AddItem(ctx, cartapp.AddItemCommand{Item: item}); err != nil {
		return cartdomain.LineItem{}, err
	}
	logger.Info(ctx, "product added to cart", "handle", product.Handle, "variant_id", variant.ID)
	return item, nil
}

func selectVariant(p *catalogdomain.Product, cmd AddProductCommand) (catalogdomain.Variant, bool) {
	switch {
	case cmd.VariantID != "":
		return p.Variant(cmd.VariantID)
	case len(cmd.Options) > 0:
		return p.FindVariant(cmd.Options)
	default:
		return p.FirstVariant()
	}
}

func toLineItem(p *catalogdomain.Product, v catalogdomain.Variant, quantity int) cartdomain.LineItem {
	img := p.FirstImage()
	opts := make([]cartdomain.SelectedOption, 0, len(v.SelectedOptions))
	for _, o := range v.SelectedOptions {
		opts = append(opts, cartdomain.SelectedOption{Name: o.Name, Value: o.Value})
	}
	return cartdomain.LineItem{
		VariantID: v.ID,
		Product: cartdomain.ProductSummary{
			ID:       p.ID,
			Title:    p.Title,
			Handle:   p.Handle,
			ImageURL: img.URL,
			ImageAlt: img.AltText,
		},
		VariantTitle:    v.Title,
		SelectedOptions: opts,
		Price:           cartdomain.EUR(v.Price.Amount),
		Quantity:        max(quantity, 1),
	}
}

// AddSubscription 合成订阅行并加入购物车
func (s *StorefrontService) AddSubscription(ctx context.Context, sess *Session, cmd AddSubscriptionCommand) (cartdomain.LineItem, error) {
	plan, err := cartdomain.FindPlan(cmd.Plan)
	if err != nil {
		return cartdomain.LineItem{}, err
	}
	freq, err := cartdomain.ParseFrequency(cmd.Frequency)
	if err != nil {
		return cartdomain.LineItem{}, err
	}

	item := cartdomain.NewSubscriptionItem(plan, freq)
	if err := sess.Cart.AddItem(ctx, cartapp.AddItemCommand{Item: item}); err != nil {
		return cartdomain.LineItem{}, err
	}
	logger.Info(ctx, "subscription added to cart", "plan", plan.Name, "frequency", freq)
	return item, nil
}

// Recommendations 拉取少量商品，排除购物车中已有的，最多返回 RecommendationLimit 个
func (s *StorefrontService) Recommendations(ctx context.Context, sess *Session) ([]catalogdomain.Product, error) {
	products, err := s.catalog.ListProducts(ctx, s.opts.RecommendationFetch)
	if err != nil {
		return nil, err
	}

	out := make([]catalogdomain.Product, 0, s.opts.RecommendationLimit)
	for _, p := range products {
		if len(out) == s.opts.RecommendationLimit {
			break
		}
		if sess.Cart.ContainsProduct(p.ID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// FreeShipping 当前购物车的免运费进度
func (s *StorefrontService) FreeShipping(cart cartdomain.Cart) cartdomain.ShippingProgress {
	return cartdomain.FreeShippingProgress(cart.TotalPrice(), s.opts.FreeShippingThreshold)
}
