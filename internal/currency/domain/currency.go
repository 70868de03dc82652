// Package domain 包含货币换算的领域模型
// 所有价格以参考货币 EUR 存储，展示时按固定汇率换算
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedCurrency 不在货币表中的货币代码
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Code 货币代码，仅能取货币表中的值
type Code string

const (
	EUR Code = "EUR"
	USD Code = "USD"
	GBP Code = "GBP"
	CAD Code = "CAD"
	AUD Code = "AUD"
)

// Reference 参考货币
const Reference = EUR

// Currency 货币表项
type Currency struct {
	Code   Code            `json:"code"`
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
}

// 固定汇率，不做实时拉取
var table = map[Code]Currency{
	EUR: {Code: EUR, Symbol: "€", Name: "Euro", Rate: decimal.NewFromInt(1)},
	USD: {Code: USD, Symbol: "$", Name: "US Dollar", Rate: decimal.RequireFromString("1.09")},
	GBP: {Code: GBP, Symbol: "£", Name: "British Pound", Rate: decimal.RequireFromString("0.86")},
	CAD: {Code: CAD, Symbol: "C$", Name: "Canadian Dollar", Rate: decimal.RequireFromString("1.48")},
	AUD: {Code: AUD, Symbol: "A$", Name: "Australian Dollar", Rate: decimal.RequireFromString("1.66")},
}

var order = []Code{EUR, USD, GBP, CAD, AUD}

// ParseCode 解析外部输入的货币代码
func ParseCode(s string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := table[code]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, s)
	}
	return code, nil
}

// Currencies 按展示顺序返回货币表
func Currencies() []Currency {
	out := make([]Currency, 0, len(order))
	for _, code := range order {
		out = append(out, table[code])
	}
	return out
}

// Lookup 查询货币表项，未知代码回退到参考货币
func Lookup(code Code) Currency {
	if c, ok := table[code]; ok {
		return c
	}
	return table[Reference]
}

// Convert 将 EUR 金额换算为该货币
func (c Currency) Convert(amountEur decimal.Decimal) decimal.Decimal {
	return amountEur.Mul(c.Rate)
}

// Format 换算后四舍五入到两位小数并加上货币符号，不加千分位
func (c Currency) Format(amountEur decimal.Decimal) string {
	return c.Symbol + c.Convert(amountEur).StringFixed(2)
}
