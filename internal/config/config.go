package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Stripe  StripeConfig
	Session SessionConfig

	DatabaseURL string
	Currency    string
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StripeConfig struct {
	SecretKey      string
	PublishableKey string
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("%s: missing DATABASE_URL", op)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisDB := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		redisDB, err = strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid REDIS_DB: %w", op, err)
		}
	}

	redisCfg := RedisConfig{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	}

	stripeSecret := os.Getenv("STRIPE_SECRET_KEY")
	if stripeSecret == "" {
		return nil, fmt.Errorf("%s: missing STRIPE_SECRET_KEY", op)
	}

	stripeCfg := StripeConfig{
		SecretKey:      stripeSecret,
		PublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("%s: missing SESSION_SECRET", op)
	}

	sessionTTL := 24 * time.Hour
	if s := os.Getenv("SESSION_TTL_HOURS"); s != "" {
		hours, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid SESSION_TTL_HOURS: %w", op, err)
		}
		sessionTTL = time.Duration(hours) * time.Hour
	}

	sessionCfg := SessionConfig{
		Secret: sessionSecret,
		TTL:    sessionTTL,
	}

	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = "usd"
	}

	return &Config{
		Server:      serverCfg,
		Redis:       redisCfg,
		Stripe:      stripeCfg,
		Session:     sessionCfg,
		DatabaseURL: databaseURL,
		Currency:    currency,
	}, nil
}
