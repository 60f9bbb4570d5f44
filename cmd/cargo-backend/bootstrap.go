package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/QuipuLog/CargoTrail/config"
	"github.com/QuipuLog/CargoTrail/internal/api/logisticsapi"
	"github.com/QuipuLog/CargoTrail/internal/broker/kafka"
	"github.com/QuipuLog/CargoTrail/internal/cache/rediscache"
	"github.com/QuipuLog/CargoTrail/internal/storage/pglogistics"
)

type cargoBackendApp struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opts    cargoBackendOpts
	api     *logisticsapi.API
	closeDB func()
}

func mustBootstrapCargoBackend() *cargoBackendApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("config load failed: %v", err))
	}

	httpAddr := cfg.CargoTrail.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	topic := cfg.Kafka.ContainerUpdatedTopicName
	if topic == "" {
		topic = "container.updated"
	}
	jwtExpiry := time.Duration(cfg.CargoTrail.JWTExpiryHours) * time.Hour
	if jwtExpiry <= 0 {
		jwtExpiry = 24 * time.Hour
	}
	if cfg.CargoTrail.JWTSecret == "" {
		panic("cargotrail.jwt_secret is required")
	}

	sslMode := cfg.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, sslMode)
	st := mustOpenPostgresWithRetry(connString, 60*time.Second)

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	limiter := rediscache.NewRateLimiter(redisAddr)

	brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
	producer := kafka.NewProducer(brokers)

	api := logisticsapi.New(st, producer, limiter, logisticsapi.Options{
		JWTSecret:           cfg.CargoTrail.JWTSecret,
		JWTExpiry:           jwtExpiry,
		SignInRatePerMinute: int64(cfg.CargoTrail.SignInRatePerMinute),
		ContainerTopic:      topic,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &cargoBackendApp{
		ctx:    ctx,
		cancel: cancel,
		opts: cargoBackendOpts{
			httpAddr:    httpAddr,
			swaggerPath: os.Getenv("swaggerPath"),
		},
		api:     api,
		closeDB: st.Close,
	}
}

func mustOpenPostgresWithRetry(connString string, wait time.Duration) *pglogistics.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pglogistics.New(connString)
		if err == nil {
			return st
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func (a *cargoBackendApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.closeDB != nil {
		a.closeDB()
	}
}

func (a *cargoBackendApp) Run() error {
	return runCargoBackend(a.ctx, a.opts, a.api)
}
