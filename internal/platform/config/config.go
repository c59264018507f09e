// Package config builds runtime configuration from environment variables so
// main stays lean. Unset backends (Postgres, Redis, Kafka) are reported as
// empty and the caller falls back to in-memory implementations.
package config

import (
	"os"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// Postgres captures relational store configuration.
type Postgres struct {
	DSN             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Redis captures rate limiter backend configuration.
type Redis struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka captures audit publishing configuration.
type Kafka struct {
	Brokers []string
	Topic   string
}

// RateLimit captures the public endpoint limiter settings.
type RateLimit struct {
	RequestsPerWindow int
	Window            time.Duration
}

// Config is the root configuration for the service.
type Config struct {
	Server    Server
	Postgres  Postgres
	Redis     Redis
	Kafka     Kafka
	RateLimit RateLimit
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	addr := os.Getenv("ROSTRA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("ROSTRA_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("ROSTRA_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	topic := os.Getenv("ROSTRA_KAFKA_AUDIT_TOPIC")
	if topic == "" {
		topic = "rostra.audit.v1"
	}

	return Config{
		Server: Server{
			Addr:          addr,
			JWTSigningKey: jwtSigningKey,
			JWTIssuer:     "rostra",
			JWTAudience:   "rostra-api",
		},
		Postgres: Postgres{
			DSN:             os.Getenv("ROSTRA_POSTGRES_DSN"),
			MaxOpenConns:    25,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: Redis{
			URL:          os.Getenv("ROSTRA_REDIS_URL"),
			PoolSize:     10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: Kafka{
			Brokers: brokers,
			Topic:   topic,
		},
		RateLimit: RateLimit{
			RequestsPerWindow: 120,
			Window:            time.Minute,
		},
	}
}
