package application

import (
	"context"
	"strings"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
)

// MaxListLimit 单次列表上限，与平台的分页上限一致
const MaxListLimit = 250

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	catalog domain.ProductCatalog
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(catalog domain.ProductCatalog) *CatalogQueryService {
	return &CatalogQueryService{catalog: catalog}
}

// ListProducts 列出商品，limit 被限制在 [1, MaxListLimit]
func (s *CatalogQueryService) ListProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	limit = max(1, min(limit, MaxListLimit))
	return s.catalog.FetchProducts(ctx, limit)
}

// GetProduct 按 handle 获取商品
func (s *CatalogQueryService) GetProduct(ctx context.Context, handle string) (*domain.Product, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, domain.ErrProductNotFound
	}
	return s.catalog.FetchProductByHandle(ctx, handle)
}
