package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	DB         DBConfig         `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Worker     WorkerConfig     `mapstructure:"worker"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	HttpPort string `mapstructure:"http_port"`
	GrpcPort string `mapstructure:"grpc_port"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	TimeZone string `mapstructure:"timezone"`
}

// DSN is the gorm/pgx connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.TimeZone)
}

// URL is the golang-migrate connection string.
func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	MQType   string `mapstructure:"mq_type"` // "redis" or "kafka"
	// CachePrefix namespaces catalog and fund summary cache keys.
	CachePrefix string `mapstructure:"cache_prefix"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	GroupID string   `mapstructure:"group_id"`
}

type SettlementConfig struct {
	SettledTopic     string        `mapstructure:"settled_topic"`
	LockTTL          time.Duration `mapstructure:"lock_ttl"`
	CatalogCacheTTL  time.Duration `mapstructure:"catalog_cache_ttl"`
	RelayInterval    time.Duration `mapstructure:"relay_interval"`
	RelayBatchSize   int           `mapstructure:"relay_batch_size"`
	RelayMaxAttempts int           `mapstructure:"relay_max_attempts"`
	RelayBaseBackoff time.Duration `mapstructure:"relay_base_backoff"`
	ConsumerGroup    string        `mapstructure:"consumer_group"`
	ConsumerName     string        `mapstructure:"consumer_name"`
}

type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

var Global Config

// Init loads config.yaml from the working directory (or ./config) into Global.
// A missing file is not fatal: defaults and environment variables apply.
func Init() {
	cfg, err := Load("")
	if err != nil {
		log.Fatalf("Fatal error config file: %s \n", err)
	}
	Global = *cfg
	log.Printf("Configuration loaded successfully. Env: %s", Global.App.Env)
}

// Load reads configuration from path, or from the default search paths when
// path is empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// APP_ENV, DB_HOST, SETTLEMENT_LOCK_TTL ...
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Printf("Warning: Config file not found, using defaults and environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http_port", "8080")
	v.SetDefault("app.grpc_port", "50051")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "wozamali")
	v.SetDefault("db.password", "wozamali")
	v.SetDefault("db.name", "wozamali")
	v.SetDefault("db.timezone", "Africa/Johannesburg")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.mq_type", "redis")
	v.SetDefault("redis.cache_prefix", "wozamali:cache:")

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.group_id", "wozamali_contribution_group")

	v.SetDefault("settlement.settled_topic", "wozamali_events_collection_settled")
	v.SetDefault("settlement.lock_ttl", "30s")
	v.SetDefault("settlement.catalog_cache_ttl", "10m")
	v.SetDefault("settlement.relay_interval", "500ms")
	v.SetDefault("settlement.relay_batch_size", 50)
	v.SetDefault("settlement.relay_max_attempts", 8)
	v.SetDefault("settlement.relay_base_backoff", "2s")
	v.SetDefault("settlement.consumer_group", "wozamali_contribution")
	v.SetDefault("settlement.consumer_name", "contribution-0")

	v.SetDefault("worker.concurrency", 10)
}
