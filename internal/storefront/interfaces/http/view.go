package http

import (
	"github.com/shopspring/decimal"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/storefront/internal/catalog/domain"
	currencydomain "github.com/wyfcoding/storefront/internal/currency/domain"
	uidomain "github.com/wyfcoding/storefront/internal/ui/domain"
)

// MoneyView 金额：EUR 原值、展示货币换算值和格式化文本
type MoneyView struct {
	AmountEUR decimal.Decimal `json:"amountEur"`
	Amount    string          `json:"amount"`
	Currency  string          `json:"currency"`
	Formatted string          `json:"formatted"`
}

func money(pref currencydomain.Preference, amountEUR decimal.Decimal) MoneyView {
	return MoneyView{
		AmountEUR: amountEUR,
		Amount:    pref.Convert(amountEUR).StringFixed(2),
		Currency:  string(pref.Currency),
		Formatted: pref.Format(amountEUR),
	}
}

// LineItemView 购物车行
type LineItemView struct {
	VariantID       string                      `json:"variantId"`
	Product         cartdomain.ProductSummary   `json:"product"`
	VariantTitle    string                      `json:"variantTitle"`
	SelectedOptions []cartdomain.SelectedOption `json:"selectedOptions"`
	Quantity        int                         `json:"quantity"`
	UnitPrice       MoneyView                   `json:"unitPrice"`
	Subtotal        MoneyView                   `json:"subtotal"`
}

// FreeShippingView 免运费进度
type FreeShippingView struct {
	Threshold MoneyView       `json:"threshold"`
	Percent   decimal.Decimal `json:"percent"`
	Remaining MoneyView       `json:"remaining"`
	Qualified bool            `json:"qualified"`
}

// CartView 购物车
type CartView struct {
	Items        []LineItemView   `json:"items"`
	IsLoading    bool             `json:"isLoading"`
	CheckoutURL  *string          `json:"checkoutUrl"`
	TotalItems   int              `json:"totalItems"`
	TotalPrice   MoneyView        `json:"totalPrice"`
	FreeShipping FreeShippingView `json:"freeShipping"`
}

func newCartView(cart cartdomain.Cart, pref currencydomain.Preference, threshold decimal.Decimal) CartView {
	items := make([]LineItemView, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, LineItemView{
			VariantID:       it.VariantID,
			Product:         it.Product,
			VariantTitle:    it.VariantTitle,
			SelectedOptions: it.SelectedOptions,
			Quantity:        it.Quantity,
			UnitPrice:       money(pref, it.Price.Amount),
			Subtotal:        money(pref, it.Subtotal()),
		})
	}

	total := cart.TotalPrice()
	progress := cartdomain.FreeShippingProgress(total, threshold)
	view := CartView{
		Items:      items,
		IsLoading:  cart.IsLoading,
		TotalItems: cart.TotalItemCount(),
		TotalPrice: money(pref, total),
		FreeShipping: FreeShippingView{
			Threshold: money(pref, threshold),
			Percent:   progress.Percent,
			Remaining: money(pref, progress.Remaining),
			Qualified: progress.Qualified,
		},
	}
	if cart.CheckoutURL != "" {
		url := cart.CheckoutURL
		view.CheckoutURL = &url
	}
	return view
}

// CurrencyView 货币表项
type CurrencyView struct {
	Code   string          `json:"code"`
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
}

func newCurrencyView(c currencydomain.Currency) CurrencyView {
	return CurrencyView{Code: string(c.Code), Symbol: c.Symbol, Name: c.Name, Rate: c.Rate}
}

// UIView 界面状态及公告栏可见性
type UIView struct {
	IsCartOpen       bool `json:"isCartOpen"`
	IsNavOpen        bool `json:"isNavOpen"`
	ShowAnnouncement bool `json:"showAnnouncement"`
}

func newUIView(f uidomain.Flags) UIView {
	return UIView{IsCartOpen: f.IsCartOpen, IsNavOpen: f.IsNavOpen, ShowAnnouncement: f.ShowAnnouncement()}
}

// ProductView 商品及展示价格
type ProductView struct {
	catalogdomain.Product
	Price MoneyView `json:"price"`
}

func newProductView(p catalogdomain.Product, pref currencydomain.Preference) ProductView {
	return ProductView{Product: p, Price: money(pref, p.MinPrice.Amount)}
}

// PlanView 订阅档位
type PlanView struct {
	cartdomain.Plan
	Price MoneyView `json:"price"`
}
