// Package domain 包含购物车的领域模型
package domain

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

var (
	// ErrCheckoutInProgress 已有结账会话正在创建
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	// ErrInvalidItem 候选行缺少变体或价格非法
	ErrInvalidItem = errors.New("invalid line item")
)

// ReferenceCurrency 购物车价格统一以 EUR 存储
const ReferenceCurrency = "EUR"

// MaxQuantity 单行数量上限，超出部分按上限处理
const MaxQuantity = 9999

// NormalizeQuantity 把候选数量限制在 [1, MaxQuantity]
func NormalizeQuantity(quantity int) int {
	return max(1, min(quantity, MaxQuantity))
}

// Money 金额，Amount 序列化为十进制字符串
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// EUR 构造参考货币金额
func EUR(amount decimal.Decimal) Money {
	return Money{Amount: amount, CurrencyCode: ReferenceCurrency}
}

// ProductSummary 加入购物车时商品信息的值快照，不与目录保持同步
type ProductSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	ImageURL string `json:"imageUrl,omitempty"`
	ImageAlt string `json:"imageAlt,omitempty"`
}

// SelectedOption 变体属性（口味、规格、配送频率）
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LineItem 购物车中的一行
type LineItem struct {
	VariantID       string           `json:"variantId"`
	Product         ProductSummary   `json:"product"`
	VariantTitle    string           `json:"variantTitle"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
	Price           Money            `json:"price"`
	Quantity        int              `json:"quantity"`
}

// Subtotal 单价 × 数量（EUR）
func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Amount.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Validate 校验候选行，数量不在校验范围内
func (i LineItem) Validate() error {
	if i.VariantID == "" {
		return fmt.Errorf("%w: variant id is required", ErrInvalidItem)
	}
	if i.Price.Amount.IsNegative() {
		return fmt.Errorf("%w: negative price for %s", ErrInvalidItem, i.VariantID)
	}
	return nil
}

func (i LineItem) clone() LineItem {
	i.SelectedOptions = slices.Clone(i.SelectedOptions)
	return i
}

// Cart 购物车状态
// Items 按加入顺序排列，VariantID 在其中唯一
type Cart struct {
	Items       []LineItem `json:"items"`
	IsLoading   bool       `json:"isLoading"`
	CheckoutURL string     `json:"checkoutUrl,omitempty"`
}

// AddItem 同一变体累加数量，否则追加到末尾；数量限制在 [1, MaxQuantity]
func (c *Cart) AddItem(candidate LineItem) {
	candidate.Quantity = NormalizeQuantity(candidate.Quantity)
	if i := c.indexOf(candidate.VariantID); i >= 0 {
		// 两者都不超过 MaxQuantity，相加不会溢出
		c.Items[i].Quantity = min(c.Items[i].Quantity+candidate.Quantity, MaxQuantity)
		return
	}
	c.Items = append(c.Items, candidate.clone())
}

// UpdateQuantity 设置数量，超过 MaxQuantity 时取上限；quantity <= 0 时移除该行。返回该行是否存在
func (c *Cart) UpdateQuantity(variantID string, quantity int) bool {
	i := c.indexOf(variantID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.Items = slices.Delete(c.Items, i, i+1)
		return true
	}
	c.Items[i].Quantity = min(quantity, MaxQuantity)
	return true
}

// RemoveItem 移除该行，不存在时为空操作。返回是否移除
func (c *Cart) RemoveItem(variantID string) bool {
	i := c.indexOf(variantID)
	if i < 0 {
		return false
	}
	c.Items = slices.Delete(c.Items, i, i+1)
	return true
}

// Clear 清空购物车
func (c *Cart) Clear() {
	c.Items = nil
	c.CheckoutURL = ""
}

// Item 按变体查找行
func (c *Cart) Item(variantID string) (LineItem, bool) {
	if i := c.indexOf(variantID); i >= 0 {
		return c.Items[i], true
	}
	return LineItem{}, false
}

// ContainsProduct 购物车中是否已有该商品的任一变体
func (c *Cart) ContainsProduct(productID string) bool {
	return slices.ContainsFunc(c.Items, func(i LineItem) bool {
		return i.Product.ID == productID
	})
}

// TotalItemCount 所有行数量之和
func (c *Cart) TotalItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// TotalPrice 所有行小计之和（EUR）
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Clone 深拷贝，用于对外发布快照
func (c *Cart) Clone() Cart {
	out := *c
	out.Items = make([]LineItem, len(c.Items))
	for i, item := range c.Items {
		out.Items[i] = item.clone()
	}
	return out
}

func (c *Cart) indexOf(variantID string) int {
	return slices.IndexFunc(c.Items, func(i LineItem) bool {
		return i.VariantID == variantID
	})
}
