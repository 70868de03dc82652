// Package domain 包含商品目录的只读模型
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrProductNotFound 商品或变体不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrCommerceBackend 电商平台返回错误或不可用
	ErrCommerceBackend = errors.New("commerce backend error")
	// ErrVariantUnavailable 变体已售罄或不可购买
	ErrVariantUnavailable = errors.New("variant unavailable for sale")
)

// Price 平台返回的价格
type Price struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// Image 商品图片
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

// SelectedOption 变体的一个属性取值
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Option 商品可选属性及其取值
type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Variant 可购买的变体
type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Price            Price            `json:"price"`
	AvailableForSale bool             `json:"availableForSale"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
}

// Product 商品
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Handle      string    `json:"handle"`
	MinPrice    Price     `json:"minPrice"`
	Images      []Image   `json:"images"`
	Variants    []Variant `json:"variants"`
	Options     []Option  `json:"options"`
}

// FirstImage 首图，没有图片时返回零值
func (p *Product) FirstImage() Image {
	if len(p.Images) == 0 {
		return Image{}
	}
	return p.Images[0]
}

// FirstVariant 默认变体
func (p *Product) FirstVariant() (Variant, bool) {
	if len(p.Variants) == 0 {
		return Variant{}, false
	}
	return p.Variants[0], true
}

// Variant 按 ID 查找变体
func (p *Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// FindVariant 返回每个属性都与 selected 匹配的第一个变体
func (p *Product) FindVariant(selected map[string]string) (Variant, bool) {
	for _, v := range p.Variants {
		matched := true
		for _, opt := range v.SelectedOptions {
			if selected[opt.Name] != opt.Value {
				matched = false
				break
			}
		}
		if matched {
			return v, true
		}
	}
	return Variant{}, false
}
