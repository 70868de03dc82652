// Package config 提供 TOML 配置加载、环境变量覆盖与校验
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// Config 基础配置结构
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 服务版本
	Version string `mapstructure:"version"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// 状态快照存储配置
	Storage StorageConfig `mapstructure:"storage"`
	// 数据库配置
	Database DatabaseConfig `mapstructure:"database"`
	// Redis 配置
	Redis RedisConfig `mapstructure:"redis"`
	// Kafka 配置
	Kafka KafkaConfig `mapstructure:"kafka"`
	// 电商平台配置
	Commerce CommerceConfig `mapstructure:"commerce"`
	// 购物车配置
	Cart CartConfig `mapstructure:"cart"`
	// 日志配置
	Logger logger.Config `mapstructure:"logger"`
	// 指标配置
	Metrics MetricsConfig `mapstructure:"metrics"`
	// 限流配置
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// 读超时（秒）
	ReadTimeout int `mapstructure:"read_timeout"`
	// 写超时（秒）
	WriteTimeout int `mapstructure:"write_timeout"`
	// 允许的跨域来源
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// StorageConfig 快照存储配置
type StorageConfig struct {
	// 驱动：memory, redis, mysql
	Driver string `mapstructure:"driver"`
	// 快照过期时间（小时），0 表示不过期，仅 redis 生效
	TTLHours int `mapstructure:"ttl_hours"`
	// 会话空闲多久后从内存移除（分钟），状态已持久化
	SessionIdleMinutes int `mapstructure:"session_idle_minutes"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	DSN             string `mapstructure:"dsn"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	LogEnabled      bool   `mapstructure:"log_enabled"`
	// 慢查询阈值（毫秒）
	SlowQueryThreshold int `mapstructure:"slow_query_threshold"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	MaxPoolSize  int    `mapstructure:"max_pool_size"`
	ConnTimeout  int    `mapstructure:"conn_timeout"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// KafkaConfig Kafka 配置
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	// 最大重试次数
	MaxRetries int `mapstructure:"max_retries"`
	// 重试退避（毫秒）
	RetryBackoff int `mapstructure:"retry_backoff"`
	// 批次最长等待（毫秒）
	BatchTimeout int `mapstructure:"batch_timeout"`
	// 待发送事件队列容量
	QueueSize int `mapstructure:"queue_size"`
}

// CommerceConfig 托管电商平台（Shopify Storefront API）配置
type CommerceConfig struct {
	// GraphQL 端点
	Endpoint string `mapstructure:"endpoint"`
	// Storefront 访问令牌
	StorefrontToken string `mapstructure:"storefront_token"`
	// 请求超时（秒）
	Timeout int `mapstructure:"timeout"`
	// 重试次数
	RetryCount int `mapstructure:"retry_count"`
	// 商品列表缓存时间（秒），0 关闭缓存
	CacheTTL int `mapstructure:"cache_ttl"`
}

// CartConfig 购物车业务配置
type CartConfig struct {
	// 免运费门槛（EUR）
	FreeShippingThreshold float64 `mapstructure:"free_shipping_threshold"`
	// 推荐商品拉取数量
	RecommendationFetch int `mapstructure:"recommendation_fetch"`
	// 推荐商品展示数量
	RecommendationLimit int `mapstructure:"recommendation_limit"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	QPS     int  `mapstructure:"qps"`
	Burst   int  `mapstructure:"burst"`
}

// Load 从 TOML 文件加载配置，支持环境变量覆盖
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults 从 TOML 文件加载配置，文件不存在时仅使用默认值
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	_ = v.ReadInConfig()

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	// 自动绑定环境变量（APP_HTTP_PORT 覆盖 http.port）
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	switch c.Storage.Driver {
	case "memory", "redis":
	case "mysql":
		if c.Database.DSN == "" {
			return fmt.Errorf("database DSN is required for mysql storage")
		}
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required when kafka is enabled")
	}
	if c.Commerce.Endpoint == "" {
		return fmt.Errorf("commerce endpoint is required")
	}
	if c.Cart.FreeShippingThreshold < 0 {
		return fmt.Errorf("invalid free shipping threshold: %v", c.Cart.FreeShippingThreshold)
	}
	return nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "storefront")
	v.SetDefault("environment", "dev")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)
	v.SetDefault("http.allow_origins", []string{"*"})

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.ttl_hours", 24*30)
	v.SetDefault("storage.session_idle_minutes", 60)

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 300)
	v.SetDefault("database.log_enabled", false)
	v.SetDefault("database.slow_query_threshold", 1000)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.max_pool_size", 10)
	v.SetDefault("redis.conn_timeout", 5)
	v.SetDefault("redis.read_timeout", 3)
	v.SetDefault("redis.write_timeout", 3)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.max_retries", 3)
	v.SetDefault("kafka.retry_backoff", 100)
	v.SetDefault("kafka.batch_timeout", 10)
	v.SetDefault("kafka.queue_size", 1024)

	v.SetDefault("commerce.endpoint", "https://hydra-plus.myshopify.com/api/2025-07/graphql.json")
	v.SetDefault("commerce.timeout", 10)
	v.SetDefault("commerce.retry_count", 2)
	v.SetDefault("commerce.cache_ttl", 60)

	v.SetDefault("cart.free_shipping_threshold", 100)
	v.SetDefault("cart.recommendation_fetch", 4)
	v.SetDefault("cart.recommendation_limit", 3)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/storefront.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.qps", 20)
	v.SetDefault("ratelimit.burst", 40)
}

