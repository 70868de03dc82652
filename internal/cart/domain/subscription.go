package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownPlan 未知的订阅档位或配送频率
var ErrUnknownPlan = errors.New("unknown subscription plan")

// Frequency 订阅配送频率
type Frequency string

const (
	Every2Weeks Frequency = "2 weeks"
	Every4Weeks Frequency = "4 weeks"
	Every8Weeks Frequency = "8 weeks"

	// DefaultFrequency 默认配送频率
	DefaultFrequency = Every4Weeks
)

var frequencies = []Frequency{Every2Weeks, Every4Weeks, Every8Weeks}

// Plan 订阅档位
type Plan struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Billing     string          `json:"billing"`
	PriceEUR    decimal.Decimal `json:"priceEur"`
	Savings     string          `json:"savings"`
	Popular     bool            `json:"popular"`
}

var plans = []Plan{
	{
		Name:        "Starter Pack",
		Description: "1 Box (20 sachets)",
		Billing:     "Monthly",
		PriceEUR:    decimal.RequireFromString("17.99"),
		Savings:     "10% off",
	},
	{
		Name:        "Hydra+ Duo",
		Description: "2 Boxes (40 sachets)",
		Billing:     "Monthly",
		PriceEUR:    decimal.RequireFromString("33.99"),
		Savings:     "15% off",
		Popular:     true,
	},
	{
		Name:        "Performance Pack",
		Description: "3 Boxes (60 sachets)",
		Billing:     "Monthly",
		PriceEUR:    decimal.RequireFromString("47.99"),
		Savings:     "20% off",
	},
}

// Plans 全部订阅档位
func Plans() []Plan {
	return append([]Plan(nil), plans...)
}

// Frequencies 全部配送频率
func Frequencies() []Frequency {
	return append([]Frequency(nil), frequencies...)
}

// FindPlan 按名称查找档位（忽略大小写）
func FindPlan(name string) (Plan, error) {
	for _, p := range plans {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("%w: plan %q", ErrUnknownPlan, name)
}

// ParseFrequency 解析配送频率，空值取默认
func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultFrequency, nil
	}
	for _, f := range frequencies {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: frequency %q", ErrUnknownPlan, s)
}

var whitespace = regexp.MustCompile(`\s+`)

func slug(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(s), "-")
}

// NewSubscriptionItem 合成订阅行：同一档位不同频率是不同的变体
func NewSubscriptionItem(plan Plan, freq Frequency) LineItem {
	productID := "subscription-" + slug(plan.Name)
	return LineItem{
		VariantID: fmt.Sprintf("subscription-variant-%s-%s", slug(plan.Name), slug(string(freq))),
		Product: ProductSummary{
			ID:       productID,
			Title:    plan.Name + " Subscription",
			Handle:   productID,
			ImageAlt: plan.Name,
		},
		VariantTitle: string(freq) + " delivery",
		SelectedOptions: []SelectedOption{
			{Name: "Frequency", Value: string(freq)},
			{Name: "Plan", Value: plan.Name},
		},
		Price:    EUR(plan.PriceEUR),
		Quantity: 1,
	}
}
