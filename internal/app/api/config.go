package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"go.temporal.io/sdk/client"
)

// Storage backends selectable for reports and sessions. An empty value picks
// the first configured store and falls back to memory.
const (
	BackendAuto     = ""
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendRedis    = "redis"
)

// ConfigPathEnv names the optional TOML file read before environment overrides.
const ConfigPathEnv = "BDO_CONFIG"

// Config carries file- and environment-driven settings shared by every process.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Postgres PostgresConfig `toml:"postgres"`
	Mongo    MongoConfig    `toml:"mongo"`
	Redis    RedisConfig    `toml:"redis"`
	Reports  ReportsConfig  `toml:"reports"`
	Sessions SessionsConfig `toml:"sessions"`
	Auth     AuthConfig     `toml:"auth"`
	Kafka    KafkaConfig    `toml:"kafka"`
	Temporal TemporalConfig `toml:"temporal"`
}

type ServerConfig struct {
	Port        string   `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

type PostgresConfig struct {
	DSN string `toml:"dsn"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type RedisConfig struct {
	Addr string `toml:"addr"`
}

type ReportsConfig struct {
	Backend  string `toml:"backend"`
	Timezone string `toml:"timezone"`
}

type SessionsConfig struct {
	Backend              string `toml:"backend"`
	TTLHours             int    `toml:"ttl_hours"`
	PurgeIntervalMinutes int    `toml:"purge_interval_minutes"`
}

type AuthConfig struct {
	SecretKey          string `toml:"secret_key"`
	AccessTokenMinutes int    `toml:"access_token_minutes"`
}

type KafkaConfig struct {
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

type TemporalConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Disabled  bool   `toml:"disabled"`
}

// DefaultConfig returns the settings used when neither file nor environment
// provide a value.
func DefaultConfig() Config {
	return Config{
		Server:   ServerConfig{Port: "8080", CORSOrigins: []string{"http://localhost:4200"}},
		Mongo:    MongoConfig{Database: "bdo"},
		Reports:  ReportsConfig{Timezone: "UTC"},
		Sessions: SessionsConfig{TTLHours: 24, PurgeIntervalMinutes: 60},
		Auth:     AuthConfig{AccessTokenMinutes: 60},
		Kafka:    KafkaConfig{Topic: "bdo.report-events"},
		Temporal: TemporalConfig{Address: client.DefaultHostPort, Namespace: client.DefaultNamespace},
	}
}

// LoadConfig applies defaults, the optional TOML file named by BDO_CONFIG, and
// environment overrides, then validates the result.
func LoadConfig() (Config, error) {
	cfg, err := loadFile(os.Getenv(ConfigPathEnv), DefaultConfig())
	if err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if val, ok := lookup(key); ok && strings.TrimSpace(val) != "" {
			*dst = strings.TrimSpace(val)
		}
	}
	list := func(key string, dst *[]string) {
		if val, ok := lookup(key); ok && strings.TrimSpace(val) != "" {
			*dst = splitList(val)
		}
	}
	positive := func(key string, dst *int) error {
		val, ok := lookup(key)
		if !ok || strings.TrimSpace(val) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
		*dst = n
		return nil
	}

	str("PORT", &cfg.Server.Port)
	list("CORS_ORIGINS", &cfg.Server.CORSOrigins)
	str("POSTGRES_DSN", &cfg.Postgres.DSN)
	str("MONGO_URI", &cfg.Mongo.URI)
	str("MONGO_DATABASE", &cfg.Mongo.Database)
	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REPORTS_BACKEND", &cfg.Reports.Backend)
	str("REPORTS_TIMEZONE", &cfg.Reports.Timezone)
	str("SESSION_BACKEND", &cfg.Sessions.Backend)
	str("SECRET_KEY", &cfg.Auth.SecretKey)
	list("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	str("KAFKA_TOPIC", &cfg.Kafka.Topic)
	str("TEMPORAL_ADDRESS", &cfg.Temporal.Address)
	str("TEMPORAL_NAMESPACE", &cfg.Temporal.Namespace)
	if val, ok := lookup("TEMPORAL_DISABLED"); ok && strings.TrimSpace(val) != "" {
		cfg.Temporal.Disabled = isTruthy(val)
	}
	return errors.Join(
		positive("SESSION_TTL_HOURS", &cfg.Sessions.TTLHours),
		positive("SESSION_PURGE_INTERVAL_MINUTES", &cfg.Sessions.PurgeIntervalMinutes),
		positive("ACCESS_TOKEN_DURATION", &cfg.Auth.AccessTokenMinutes),
	)
}

// Validate checks the merged configuration.
func (c Config) Validate() error {
	var errs []error
	switch c.Reports.Backend {
	case BackendAuto, BackendMemory, BackendPostgres, BackendMongo:
	default:
		errs = append(errs, fmt.Errorf("invalid reports.backend: %q", c.Reports.Backend))
	}
	switch c.Sessions.Backend {
	case BackendAuto, BackendMemory, BackendPostgres, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("invalid sessions.backend: %q", c.Sessions.Backend))
	}
	if c.Reports.Backend == BackendPostgres && c.Postgres.DSN == "" {
		errs = append(errs, errors.New("reports.backend postgres requires postgres.dsn"))
	}
	if c.Reports.Backend == BackendMongo && c.Mongo.URI == "" {
		errs = append(errs, errors.New("reports.backend mongo requires mongo.uri"))
	}
	if c.Sessions.Backend == BackendRedis && c.Redis.Addr == "" {
		errs = append(errs, errors.New("sessions.backend redis requires redis.addr"))
	}
	if _, err := time.LoadLocation(c.Reports.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid reports.timezone: %w", err))
	}
	if c.Sessions.TTLHours <= 0 || c.Sessions.PurgeIntervalMinutes <= 0 || c.Auth.AccessTokenMinutes <= 0 {
		errs = append(errs, errors.New("durations must be positive"))
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	return errors.Join(errs...)
}

// Location is the time zone dashboard buckets are computed in.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Reports.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Sessions.TTLHours) * time.Hour
}

func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.Auth.AccessTokenMinutes) * time.Minute
}

func (c Config) SessionPurgeInterval() time.Duration {
	return time.Duration(c.Sessions.PurgeIntervalMinutes) * time.Minute
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
