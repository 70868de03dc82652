// Package middleware 提供 Gin 通用中间件（日志、会话、panic recover、CORS、指标、限流）
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/response"
)

const (
	// RequestIDKey gin 上下文中的 request ID
	RequestIDKey = "request_id"
	// SessionIDKey gin 上下文中的 session ID
	SessionIDKey = "session_id"
	// SessionHeader 会话标识请求/响应头
	SessionHeader = "X-Session-ID"
	// RequestIDHeader 请求标识响应头
	RequestIDHeader = "X-Request-ID"
)

// GinLoggingMiddleware Gin 日志中间件
func GinLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		ctx := logger.ContextWithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "HTTP request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"response_size", c.Writer.Size(),
			"client_ip", c.ClientIP(),
			"duration", time.Since(start),
		)
	}
}

// SessionMiddleware 解析或分配会话 ID，并写回响应头
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.New().String()
		}
		c.Set(SessionIDKey, sessionID)
		c.Header(SessionHeader, sessionID)

		ctx := logger.ContextWithSessionID(c.Request.Context(), sessionID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SessionID 读取当前请求的会话 ID
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// GinRecoveryMiddleware Gin panic 恢复中间件
func GinRecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "HTTP request panicked", "panic", err)
				response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", "request_id="+c.GetString(RequestIDKey))
			}
		}()
		c.Next()
	}
}

// GinCORSMiddleware Gin CORS 中间件
func GinCORSMiddleware(allowOrigins []string) gin.HandlerFunc {
	allowAll := len(allowOrigins) == 0
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, o := range allowOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok || allowAll {
			if allowAll {
				origin = "*"
			}
			c.Header("Access-Control-Allow-Origin", origin)
		}
		c.Header("Access-Control-Allow-Headers", strings.Join([]string{
			"Content-Type", "Accept", "Authorization", SessionHeader, RequestIDHeader,
		}, ", "))
		c.Header("Access-Control-Expose-Headers", SessionHeader+", "+RequestIDHeader)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// GinMetricsMiddleware 记录请求计数与耗时，route 使用注册的路由模板
func GinMetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
