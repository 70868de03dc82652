package domain

import "github.com/shopspring/decimal"

// Preference 用户的展示货币偏好，持久化形状为 {"currency": "EUR"}
type Preference struct {
	Currency Code `json:"currency"`
}

// DefaultPreference 默认使用参考货币
func DefaultPreference() Preference {
	return Preference{Currency: Reference}
}

// SetCurrency 切换展示货币
func (p *Preference) SetCurrency(code Code) {
	p.Currency = code
}

// Current 当前货币表项
func (p Preference) Current() Currency {
	return Lookup(p.Currency)
}

// Convert 按当前货币换算
func (p Preference) Convert(amountEur decimal.Decimal) decimal.Decimal {
	return p.Current().Convert(amountEur)
}

// Format 按当前货币格式化
func (p Preference) Format(amountEur decimal.Decimal) string {
	return p.Current().Format(amountEur)
}

// Normalize 修正反序列化得到的未知代码
func (p Preference) Normalize() Preference {
	if _, ok := table[p.Currency]; !ok {
		return DefaultPreference()
	}
	return p
}
