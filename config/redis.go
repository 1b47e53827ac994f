package config

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"hotel-manager/utils"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis when an address is configured. It returns nil
// when Redis is not configured or unreachable; callers then run without it.
func NewRedisClient(cfg Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	var tlsConf *tls.Config
	if utils.EnvBool("REDIS_TLS", false) {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.RedisAddr,
		Password:  cfg.RedisPassword,
		DB:        cfg.RedisDB,
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("warning: redis at %s unreachable, continuing without it: %v", cfg.RedisAddr, err)
		_ = client.Close()
		return nil
	}
	return client
}
