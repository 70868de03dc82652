// Package http 提供店面状态的 HTTP 接口
package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	currencydomain "github.com/wyfcoding/storefront/internal/currency/domain"
	"github.com/wyfcoding/storefront/internal/storefront/application"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/response"
)

const defaultProductLimit = 12

// StorefrontHandler 店面 HTTP 处理器
type StorefrontHandler struct {
	registry *application.Registry
	app      *application.StorefrontService
	catalog  *catalogapp.CatalogQueryService
	metrics  *metrics.Metrics
}

// NewStorefrontHandler 创建 HTTP 处理器实例，m 可为空
func NewStorefrontHandler(
	registry *application.Registry,
	app *application.StorefrontService,
	catalog *catalogapp.CatalogQueryService,
	m *metrics.Metrics,
) *StorefrontHandler {
	return &StorefrontHandler{registry: registry, app: app, catalog: catalog, metrics: m}
}

// RegisterRoutes 注册路由
// 变体 ID 形如 gid://shopify/ProductVariant/1，含斜杠，因此使用通配段
func (h *StorefrontHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api/v1")
	{
		api.GET("/currencies", h.ListCurrencies)
		api.GET("/currency", h.GetCurrency)
		api.PUT("/currency", h.SetCurrency)

		api.GET("/cart", h.GetCart)
		api.DELETE("/cart", h.ClearCart)
		api.POST("/cart/items", h.AddItem)
		api.PATCH("/cart/items/*variantId", h.UpdateItem)
		api.DELETE("/cart/items/*variantId", h.RemoveItem)
		api.POST("/cart/checkout", h.Checkout)
		api.GET("/cart/recommendations", h.Recommendations)

		api.GET("/subscriptions/plans", h.ListPlans)
		api.POST("/subscriptions", h.AddSubscription)

		api.GET("/ui", h.GetUI)
		api.PUT("/ui", h.SetUI)

		api.GET("/products", h.ListProducts)
		api.GET("/products/:handle", h.GetProduct)
	}
}

func (h *StorefrontHandler) session(c *gin.Context) (*application.Session, bool) {
	sess, err := h.registry.Get(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		fail(c, "failed to load session", err)
		return nil, false
	}
	return sess, true
}

func (h *StorefrontHandler) cartView(sess *application.Session) CartView {
	return newCartView(sess.Cart.Snapshot(), sess.Currency.Preference(), h.app.Options().FreeShippingThreshold)
}

func variantParam(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("variantId"), "/")
}

// ListCurrencies 货币列表
func (h *StorefrontHandler) ListCurrencies(c *gin.Context) {
	list := currencydomain.Currencies()
	views := make([]CurrencyView, 0, len(list))
	for _, cur := range list {
		views = append(views, newCurrencyView(cur))
	}
	response.Success(c, views)
}

// GetCurrency 当前展示货币
func (h *StorefrontHandler) GetCurrency(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	response.Success(c, newCurrencyView(sess.Currency.Current()))
}

type setCurrencyRequest struct {
	Currency string `json:"currency" binding:"required"`
}

// SetCurrency 切换展示货币
func (h *StorefrontHandler) SetCurrency(c *gin.Context) {
	var req setCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	code, err := currencydomain.ParseCode(req.Currency)
	if err != nil {
		fail(c, "unsupported currency", err)
		return
	}

	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Currency.SetCurrency(c.Request.Context(), code)
	response.Success(c, newCurrencyView(sess.Currency.Current()))
}

// GetCart 购物车
func (h *StorefrontHandler) GetCart(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	response.Success(c, h.cartView(sess))
}

// ClearCart 清空购物车
func (h *StorefrontHandler) ClearCart(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Cart.Clear(c.Request.Context())
	response.Success(c, h.cartView(sess))
}

type addItemRequest struct {
	Handle    string            `json:"handle" binding:"required"`
	VariantID string            `json:"variantId"`
	Options   map[string]string `json:"options"`
	Quantity  int               `json:"quantity"`
}

// AddItem 加入商品
func (h *StorefrontHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	sess, ok := h.session(c)
	if !ok {
		return
	}
	_, err := h.app.AddProduct(c.Request.Context(), sess, application.AddProductCommand{
		Handle:    req.Handle,
		VariantID: req.VariantID,
		Options:   req.Options,
		Quantity:  req.Quantity,
	})
	if err != nil {
		fail(c, "failed to add item", err)
		return
	}
	response.Success(c, h.cartView(sess))
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// UpdateItem 修改数量，0 及以下移除
func (h *StorefrontHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Cart.UpdateQuantity(c.Request.Context(), cartapp.UpdateQuantityCommand{
		VariantID: variantParam(c),
		Quantity:  *req.Quantity,
	})
	response.Success(c, h.cartView(sess))
}

// RemoveItem 移除一行
func (h *StorefrontHandler) RemoveItem(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	sess.Cart.RemoveItem(c.Request.Context(), cartapp.RemoveItemCommand{VariantID: variantParam(c)})
	response.Success(c, h.cartView(sess))
}

type checkoutResponse struct {
	CheckoutURL *string  `json:"checkoutUrl"`
	Cart        CartView `json:"cart"`
}

// Checkout 创建结账会话
func (h *StorefrontHandler) Checkout(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	start := time.Now()
	url, err := sess.Cart.CreateCheckout(c.Request.Context())
	h.recordCheckout(url, err, time.Since(start))
	if err != nil {
		fail(c, "failed to create checkout", err)
		return
	}

	resp := checkoutResponse{Cart: h.cartView(sess)}
	if url != "" {
		resp.CheckoutURL = &url
	}
	response.Success(c, resp)
}

func (h *StorefrontHandler) recordCheckout(url string, err error, elapsed time.Duration) {
	if h.metrics == nil {
		return
	}
	result := "created"
	switch {
	case err != nil && statusOf(err) == http.StatusConflict:
		result = "in_progress"
	case err != nil:
		result = "failed"
	case url == "":
		result = "empty"
	}
	h.metrics.RecordCheckout(result, elapsed.Seconds())
}

// Recommendations 购物车推荐
func (h *StorefrontHandler) Recommendations(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	products, err := h.app.Recommendations(c.Request.Context(), sess)
	if err != nil {
		fail(c, "failed to load recommendations", err)
		return
	}

	pref := sess.Currency.Preference()
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p, pref))
	}
	response.Success(c, views)
}

type plansResponse struct {
	Plans            []PlanView `json:"plans"`
	Frequencies      []string   `json:"frequencies"`
	DefaultFrequency string     `json:"defaultFrequency"`
}

// ListPlans 订阅档位
func (h *StorefrontHandler) ListPlans(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	pref := sess.Currency.Preference()

	resp := plansResponse{DefaultFrequency: string(cartdomain.DefaultFrequency)}
	for _, p := range cartdomain.Plans() {
		resp.Plans = append(resp.Plans, PlanView{Plan: p, Price: money(pref, p.PriceEUR)})
	}
	for _, f := range cartdomain.Frequencies() {
		resp.Frequencies = append(resp.Frequencies, string(f))
	}
	response.Success(c, resp)
}

type addSubscriptionRequest struct {
	Plan      string `json:"plan" binding:"required"`
	Frequency string `json:"frequency"`
}

// AddSubscription 加入订阅
func (h *StorefrontHandler) AddSubscription(c *gin.Context) {
	var req addSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	sess, ok := h.session(c)
	if !ok {
		return
	}
	_, err := h.app.AddSubscription(c.Request.Context(), sess, application.AddSubscriptionCommand{
		Plan:      req.Plan,
		Frequency: req.Frequency,
	})
	if err != nil {
		fail(c, "failed to add subscription", err)
		return
	}
	response.Success(c, h.cartView(sess))
}

// GetUI 界面状态
func (h *StorefrontHandler) GetUI(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	response.Success(c, newUIView(sess.UI.Snapshot()))
}

type setUIRequest struct {
	IsCartOpen *bool `json:"isCartOpen"`
	IsNavOpen  *bool `json:"isNavOpen"`
}

// SetUI 修改抽屉状态，缺省字段不变
func (h *StorefrontHandler) SetUI(c *gin.Context) {
	var req setUIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	sess, ok := h.session(c)
	if !ok {
		return
	}
	if req.IsCartOpen != nil {
		sess.UI.SetCartOpen(*req.IsCartOpen)
	}
	if req.IsNavOpen != nil {
		sess.UI.SetNavOpen(*req.IsNavOpen)
	}
	response.Success(c, newUIView(sess.UI.Snapshot()))
}

// ListProducts 商品列表
func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultProductLimit)))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid limit", "")
		return
	}

	sess, ok := h.session(c)
	if !ok {
		return
	}
	products, err := h.catalog.ListProducts(c.Request.Context(), limit)
	if err != nil {
		fail(c, "failed to list products", err)
		return
	}

	pref := sess.Currency.Preference()
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p, pref))
	}
	response.Success(c, views)
}

// GetProduct 商品详情
func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("handle"))
	if err != nil {
		fail(c, "failed to get product", err)
		return
	}
	response.Success(c, newProductView(*product, sess.Currency.Preference()))
}
