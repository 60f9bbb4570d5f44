package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Backend    BackendConfig    `yaml:"backend"`
	Database   DatabaseConfig   `yaml:"database"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Redis      RedisConfig      `yaml:"redis"`
	CargoTrail CargoTrailConfig `yaml:"cargotrail"`
}

// BackendConfig points the client SDK at the logistics API.
type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	APIToken       string `yaml:"api_token"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                      string `yaml:"host"`
	Port                      int    `yaml:"port"`
	ContainerUpdatedTopicName string `yaml:"container_updated_topic_name"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type CargoTrailConfig struct {
	HTTPAddr           string `yaml:"http_addr"`
	KafkaConsumerGroup string `yaml:"kafka_consumer_group"`

	// TTL for cached current container state.
	ContainerStateTTLSeconds int `yaml:"container_state_ttl_seconds"`
	// TTL for cached product names used by order enrichment.
	ProductNameTTLSeconds int `yaml:"product_name_ttl_seconds"`

	JWTSecret           string `yaml:"jwt_secret"`
	JWTExpiryHours      int    `yaml:"jwt_expiry_hours"`
	SignInRatePerMinute int    `yaml:"sign_in_rate_per_minute"`

	LiveHTTPAddr string `yaml:"live_http_addr"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}
