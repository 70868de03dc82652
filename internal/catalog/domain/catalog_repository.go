package domain

import "context"

// ProductCatalog 外部商品目录
type ProductCatalog interface {
	// FetchProducts 按平台默认顺序返回最多 limit 个商品
	FetchProducts(ctx context.Context, limit int) ([]Product, error)
	// FetchProductByHandle 不存在时返回 ErrProductNotFound
	FetchProductByHandle(ctx context.Context, handle string) (*Product, error)
}
