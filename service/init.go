/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、存储后端选择、会话与通知组件装配
 * @architecture 分层架构 - 服务层
 * @documentReference DESIGN.md
 * @stateFlow 加载配置 -> 连接存储 -> 迁移 -> 装配会话服务 -> 启动清理任务
 * @rules 必需依赖失败时启动失败；可选的通知组件失败时降级并记录告警
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres, github.com/go-redis/redis/v8, kafka/mqtt/nats 连接器
 * @refs main.go, api/routes.go
 */

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"valuation-service/client"
	"valuation-service/client/connectors"
	"valuation-service/service/cleanup"
	"valuation-service/service/config"
	"valuation-service/service/database"
	"valuation-service/service/distributed_lock"
	"valuation-service/service/monitoring"
	"valuation-service/service/rate_limiter"
	"valuation-service/service/session"
	"valuation-service/service/valuation"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Container 已装配的服务组件
type Container struct {
	Config         *config.AppConfig
	DB             *gorm.DB
	Redis          *redis.Client
	Valuations     session.ValuationStore
	Sessions       *session.Service
	RateLimiter    rate_limiter.Limiter
	Metrics        *monitoring.Metrics
	Health         *monitoring.HealthChecker
	Publisher      *connectors.MultiPublisher
	sessionCleanup *cleanup.SessionCleanupService
}

// Init 按配置初始化全部服务组件
func Init(ctx context.Context, cfg *config.AppConfig) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Metrics: monitoring.NewMetrics(prometheus.DefaultRegisterer),
		Health:  monitoring.NewHealthChecker(3 * time.Second),
	}

	if err := c.initValuationStore(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.initPublishers()
	if err := c.initSessions(); err != nil {
		c.Close()
		return nil, err
	}

	slog.Info("服务初始化完成",
		"store_backend", cfg.Store.Backend,
		"session_backend", cfg.Session.Backend,
		"rate_limit", cfg.RateLimit.Enabled,
		"publishers", c.Publisher.Len())
	return c, nil
}

// initValuationStore 初始化估值结果存储
func (c *Container) initValuationStore(ctx context.Context) error {
	switch c.Config.Store.Backend {
	case config.StoreBackendPostgREST:
		pg := client.NewPostgRESTClient(&client.PostgRESTConfig{
			BaseURL: c.Config.Store.PostgRESTURL,
			APIKey:  c.Config.Store.PostgRESTAPIKey,
			Schema:  c.Config.Database.Schema,
		})
		c.Valuations = pg
		c.Health.Register("postgrest", pg.Ping)
		slog.Info("使用PostgREST估值存储", "url", c.Config.Store.PostgRESTURL)
		return nil
	default:
		db, err := gorm.Open(postgres.Open(c.Config.Database.DSN()), &gorm.Config{})
		if err != nil {
			return fmt.Errorf("数据库连接失败: %w", err)
		}
		c.DB = db
		slog.Info("数据库连接成功")

		if err := database.AutoMigrate(db, c.Config.Database.Schema); err != nil {
			return fmt.Errorf("数据库迁移失败: %w", err)
		}

		store := database.NewGormValuationStore(db)
		c.Valuations = store
		c.Health.Register("database", store.Ping)
		return nil
	}
}

// initRedis 会话或限流使用Redis时建立连接
func (c *Container) initRedis(ctx context.Context) error {
	if !c.Config.RedisRequired() {
		return nil
	}

	rdb, err := connectors.NewRedisClient(ctx, &connectors.RedisConfig{
		Address:      c.Config.Redis.Addr(),
		Password:     c.Config.Redis.Password,
		Database:     c.Config.Redis.DB,
		PoolSize:     10,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err != nil {
		return err
	}
	c.Redis = rdb
	c.Health.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	if c.Config.RateLimit.Enabled {
		c.RateLimiter = rate_limiter.NewRedisRateLimiter(rdb)
	}
	return nil
}

// initPublishers 初始化估值事件通知，连接失败时跳过该通道
func (c *Container) initPublishers() {
	var publishers []connectors.ValuationPublisher
	msg := c.Config.Messaging

	if len(msg.KafkaBrokers) > 0 {
		publishers = append(publishers, connectors.NewKafkaConnector(&connectors.KafkaConfig{
			Brokers: msg.KafkaBrokers,
			Topic:   msg.KafkaTopic,
		}))
		slog.Info("启用Kafka估值事件通知", "brokers", msg.KafkaBrokers, "topic", msg.KafkaTopic)
	}

	if msg.MQTTBroker != "" {
		mc := connectors.NewMQTTConnector(&connectors.MQTTConfig{
			Broker:    msg.MQTTBroker,
			ClientID:  fmt.Sprintf("valuation-service-%d", time.Now().UnixNano()),
			Topic:     msg.MQTTTopic,
			QoS:       1,
			KeepAlive: 30 * time.Second,
		})
		if err := mc.Connect(); err != nil {
			slog.Warn("MQTT连接失败，跳过MQTT通知", "broker", msg.MQTTBroker, "error", err)
		} else {
			publishers = append(publishers, mc)
			slog.Info("启用MQTT估值事件通知", "broker", msg.MQTTBroker, "topic", msg.MQTTTopic)
		}
	}

	if msg.NATSURL != "" {
		nc, err := connectors.NewNATSConnector(&connectors.NATSConfig{
			URL:           msg.NATSURL,
			Name:          "valuation-service",
			Subject:       msg.NATSSubject,
			MaxReconnects: -1,
		})
		if err != nil {
			slog.Warn("NATS连接失败，跳过NATS通知", "url", msg.NATSURL, "error", err)
		} else {
			publishers = append(publishers, nc)
			slog.Info("启用NATS估值事件通知", "url", msg.NATSURL, "subject", msg.NATSSubject)
		}
	}

	c.Publisher = connectors.NewMultiPublisher(publishers...)
}

// initSessions 装配会话存储、会话锁与会话服务
func (c *Container) initSessions() error {
	var (
		store  session.Store
		locker distributed_lock.SessionLocker
	)

	switch c.Config.Session.Backend {
	case config.SessionBackendRedis:
		store = session.NewRedisStore(c.Redis, c.Config.Session.TTL)
		locker = distributed_lock.NewRedisLock(c.Redis, 30*time.Second)
	default:
		mem := session.NewMemoryStore(c.Config.Session.TTL)
		store = mem
		locker = distributed_lock.NewLocalLock()

		c.sessionCleanup = cleanup.NewSessionCleanupService(mem, c.Config.Session.SweepCron)
		if err := c.sessionCleanup.StartScheduledCleanup(); err != nil {
			return fmt.Errorf("启动会话清理任务失败: %w", err)
		}
	}

	var publisher session.Publisher
	if c.Publisher.Len() > 0 {
		publisher = c.Publisher
	}

	c.Sessions = session.NewService(store, locker, c.Valuations, publisher, c.Metrics, session.Options{
		MinStars: c.Config.Valuation.RatingMin,
		Policy:   valuation.DisplayPolicy{SuppressZeroTags: c.Config.Valuation.SuppressZeroTags},
	})
	return nil
}

// Close 释放所有连接
func (c *Container) Close() error {
	var errs []error
	if c.sessionCleanup != nil {
		c.sessionCleanup.StopScheduledCleanup()
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
