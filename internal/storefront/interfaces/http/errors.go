package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/storefront/internal/catalog/domain"
	currencydomain "github.com/wyfcoding/storefront/internal/currency/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/response"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, currencydomain.ErrUnsupportedCurrency),
		errors.Is(err, cartdomain.ErrUnknownPlan),
		errors.Is(err, cartdomain.ErrInvalidItem):
		return http.StatusBadRequest
	case errors.Is(err, catalogdomain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, cartdomain.ErrCheckoutInProgress),
		errors.Is(err, catalogdomain.ErrVariantUnavailable):
		return http.StatusConflict
	case errors.Is(err, catalogdomain.ErrCommerceBackend):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail 按错误类型返回状态码；5xx 记录 error 日志
func fail(c *gin.Context, msg string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), msg, "error", err)
	} else {
		logger.Warn(c.Request.Context(), msg, "error", err)
	}
	response.ErrorWithStatus(c, status, msg, err.Error())
}
