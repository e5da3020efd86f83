/*
 * @module service/config/app_config
 * @description 应用配置加载：可选YAML配置文件 + 环境变量覆盖
 * @architecture 分层架构 - 配置层
 * @documentReference DESIGN.md
 * @stateFlow 默认值 -> CONFIG_FILE(yaml) -> 环境变量 -> 校验
 * @rules 环境变量优先级最高；配置非法时启动失败
 * @dependencies github.com/spf13/cast, gopkg.in/yaml.v3
 * @refs service/init.go, main.go
 */

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	StoreBackendGorm      = "gorm"
	StoreBackendPostgREST = "postgrest"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// AppConfig 应用配置
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Store     StoreConfig     `yaml:"store"`
	Session   SessionConfig   `yaml:"session"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Messaging MessagingConfig `yaml:"messaging"`
	Valuation ValuationConfig `yaml:"valuation"`
	LogLevel  string          `yaml:"log_level"`
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Port        int    `yaml:"port"`
	BaseContext string `yaml:"base_context"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	Schema   string `yaml:"schema"`
}

// StoreConfig 估值结果存储后端
type StoreConfig struct {
	Backend         string `yaml:"backend"` // gorm | postgrest
	PostgRESTURL    string `yaml:"postgrest_url"`
	PostgRESTAPIKey string `yaml:"postgrest_api_key"`
}

// SessionConfig 会话存储配置
type SessionConfig struct {
	Backend   string        `yaml:"backend"` // memory | redis
	TTL       time.Duration `yaml:"ttl"`
	SweepCron string        `yaml:"sweep_cron"`
}

// RedisConfig Redis连接配置
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled   bool `yaml:"enabled"`
	Window    int  `yaml:"window"`     // 秒
	Max       int  `yaml:"max"`        // 单客户端单路由上限
	GlobalMax int  `yaml:"global_max"` // 单路由全体客户端上限，0 表示不限
}

// MessagingConfig 估值事件通知配置
type MessagingConfig struct {
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`
	MQTTBroker   string   `yaml:"mqtt_broker"`
	MQTTTopic    string   `yaml:"mqtt_topic"`
	NATSURL      string   `yaml:"nats_url"`
	NATSSubject  string   `yaml:"nats_subject"`
}

// ValuationConfig 估值规则配置
type ValuationConfig struct {
	SuppressZeroTags bool `yaml:"suppress_zero_tags"`
	RatingMin        int  `yaml:"rating_min"`
}

// Default 默认配置
func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{Port: 80, MaxUploadMB: 200},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "postgres",
			SSLMode: "disable",
			Schema:  "public",
		},
		Store:     StoreConfig{Backend: StoreBackendGorm},
		Session:   SessionConfig{Backend: SessionBackendMemory, TTL: 2 * time.Hour, SweepCron: "@every 5m"},
		Redis:     RedisConfig{Host: "localhost", Port: "6379"},
		RateLimit: RateLimitConfig{Enabled: false, Window: 60, Max: 30},
		Messaging: MessagingConfig{KafkaTopic: "valuations", MQTTTopic: "opendata/valuations", NATSSubject: "valuations.saved"},
		Valuation: ValuationConfig{SuppressZeroTags: true, RatingMin: 0},
		LogLevel:  "info",
	}
}

// Load 加载配置：默认值、CONFIG_FILE指定的YAML文件、环境变量
func Load() (*AppConfig, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (*AppConfig, error) {
	cfg := Default()

	if path, ok := lookup("CONFIG_FILE"); ok && path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败 %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败 %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv 环境变量覆盖
func applyEnv(cfg *AppConfig, lookup func(string) (string, bool)) error {
	var errs []string
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := cast.ToIntE(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s=%q 不是整数", key, v))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := cast.ToBoolE(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s=%q 不是布尔值", key, v))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := cast.ToDurationE(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s=%q 不是有效时长", key, v))
				return
			}
			*dst = d
		}
	}

	integer("LISTEN_PORT", &cfg.Server.Port)
	str("BASE_CONTEXT", &cfg.Server.BaseContext)
	if v, ok := lookup("MAX_UPLOAD_MB"); ok && v != "" {
		n, err := cast.ToInt64E(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Sprintf("MAX_UPLOAD_MB=%q 不是整数", v))
		} else {
			cfg.Server.MaxUploadMB = n
		}
	}

	str("DATABASE_URL", &cfg.Database.URL)
	str("DB_HOST", &cfg.Database.Host)
	str("DB_PORT", &cfg.Database.Port)
	str("DB_USER", &cfg.Database.User)
	str("DB_PASSWORD", &cfg.Database.Password)
	str("DB_NAME", &cfg.Database.Name)
	str("DB_SSLMODE", &cfg.Database.SSLMode)
	str("DB_SCHEMA", &cfg.Database.Schema)

	str("STORE_BACKEND", &cfg.Store.Backend)
	str("POSTGREST_URL", &cfg.Store.PostgRESTURL)
	str("POSTGREST_API_KEY", &cfg.Store.PostgRESTAPIKey)

	str("SESSION_BACKEND", &cfg.Session.Backend)
	duration("SESSION_TTL", &cfg.Session.TTL)
	str("SESSION_SWEEP_CRON", &cfg.Session.SweepCron)

	str("REDIS_HOST", &cfg.Redis.Host)
	str("REDIS_PORT", &cfg.Redis.Port)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	integer("REDIS_DB", &cfg.Redis.DB)

	boolean("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled)
	integer("RATE_LIMIT_WINDOW", &cfg.RateLimit.Window)
	integer("RATE_LIMIT_MAX", &cfg.RateLimit.Max)
	integer("RATE_LIMIT_GLOBAL_MAX", &cfg.RateLimit.GlobalMax)

	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		cfg.Messaging.KafkaBrokers = splitList(v)
	}
	str("KAFKA_TOPIC", &cfg.Messaging.KafkaTopic)
	str("MQTT_BROKER", &cfg.Messaging.MQTTBroker)
	str("MQTT_TOPIC", &cfg.Messaging.MQTTTopic)
	str("NATS_URL", &cfg.Messaging.NATSURL)
	str("NATS_SUBJECT", &cfg.Messaging.NATSSubject)

	boolean("SUPPRESS_ZERO_TAGS", &cfg.Valuation.SuppressZeroTags)
	integer("RATING_MIN", &cfg.Valuation.RatingMin)

	str("LOG_LEVEL", &cfg.LogLevel)

	if len(errs) > 0 {
		return fmt.Errorf("环境变量配置错误: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	switch c.Store.Backend {
	case StoreBackendGorm:
	case StoreBackendPostgREST:
		if c.Store.PostgRESTURL == "" {
			return fmt.Errorf("STORE_BACKEND=postgrest 需要设置 POSTGREST_URL")
		}
	default:
		return fmt.Errorf("未知的存储后端: %s", c.Store.Backend)
	}

	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("未知的会话后端: %s", c.Session.Backend)
	}

	if c.Valuation.RatingMin != 0 && c.Valuation.RatingMin != 1 {
		return fmt.Errorf("RATING_MIN 只能为 0 或 1，当前: %d", c.Valuation.RatingMin)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL 必须为正数")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Window <= 0 || c.RateLimit.Max <= 0) {
		return fmt.Errorf("限流窗口与上限必须为正数")
	}
	if c.RateLimit.GlobalMax < 0 {
		return fmt.Errorf("RATE_LIMIT_GLOBAL_MAX 不能为负数")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB 必须为正数")
	}
	return nil
}

// DSN 构建PostgreSQL连接串，DATABASE_URL 优先
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode, d.Schema)
}

// Addr Redis地址
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// RedisRequired 是否有组件依赖Redis
func (c *AppConfig) RedisRequired() bool {
	return c.Session.Backend == SessionBackendRedis || c.RateLimit.Enabled
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
