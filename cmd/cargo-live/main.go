package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/QuipuLog/CargoTrail/config"
	"github.com/QuipuLog/CargoTrail/internal/broker/kafka"
	"github.com/QuipuLog/CargoTrail/internal/cache/rediscache"
	"github.com/QuipuLog/CargoTrail/internal/integrations/backend/resthttp"
	"github.com/QuipuLog/CargoTrail/internal/services/tracking"
)

// serviceToken is a fixed credential for the headless consumer. The worker
// never signs in interactively, so expiry clears nothing.
type serviceToken string

func (t serviceToken) Token() string           { return string(t) }
func (t serviceToken) ClearCredentials() error { return nil }

func main() {
	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("config load failed: %v", err))
	}

	topic := cfg.Kafka.ContainerUpdatedTopicName
	if topic == "" {
		topic = "container.updated"
	}
	consumerGroup := cfg.CargoTrail.KafkaConsumerGroup
	if consumerGroup == "" {
		consumerGroup = "cargo-live"
	}
	httpAddr := cfg.CargoTrail.LiveHTTPAddr
	if httpAddr == "" {
		httpAddr = ":8082"
	}
	cacheTTL := time.Duration(cfg.CargoTrail.ContainerStateTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	rc := rediscache.New(redisAddr)

	api := resthttp.New(cfg.Backend.BaseURL, serviceToken(cfg.Backend.APIToken))
	svc := tracking.New(api, rc, cacheTTL)

	brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
	consumer := kafka.NewConsumer(brokers, topic, consumerGroup)
	defer func() { _ = consumer.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runCargoLive(ctx, cargoLiveOpts{
		httpAddr:      httpAddr,
		topic:         topic,
		consumerGroup: consumerGroup,
	}, svc, consumer); err != nil && err != context.Canceled {
		panic(err)
	}
}
