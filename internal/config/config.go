package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the service
type Config struct {
	// Server
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// MongoDB
	MongoURI string
	MongoDB  string

	// Auth
	AuthEnabled bool
	JWTSecret   string
	JWTExpiry   time.Duration

	// Documents
	PipelineTimeout       time.Duration
	VerboseErrors         bool
	UnifiedPreviewDenials bool
	DocumentIssuer        string

	// Rate limiting; RateLimitRPS <= 0 disables it.
	RateLimitRPS   float64
	RateLimitBurst int

	// Logging
	LogLevel  string
	LogFormat string

	// MQTT; events are only published when MQTTBroker is set.
	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string
}

// Load reads configuration from the environment, loading .env first if it
// exists.
func Load() (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "vehicle_service"),

		AuthEnabled: getEnvAsBool("AUTH_ENABLED", false),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTExpiry:   getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),

		PipelineTimeout:       getEnvAsDuration("PIPELINE_TIMEOUT", 30*time.Second),
		VerboseErrors:         getEnvAsBool("VERBOSE_ERRORS", false),
		UnifiedPreviewDenials: getEnvAsBool("UNIFIED_PREVIEW_DENIALS", false),
		DocumentIssuer:        getEnv("DOCUMENT_ISSUER", "Vehicle Service History"),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MQTTBroker:   getEnv("MQTT_BROKER", ""),
		MQTTTopic:    getEnv("MQTT_TOPIC", "fleet/documents"),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "vehicle-service-history"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can start the service.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	timeouts := map[string]time.Duration{
		"READ_TIMEOUT":     c.ReadTimeout,
		"WRITE_TIMEOUT":    c.WriteTimeout,
		"SHUTDOWN_TIMEOUT": c.ShutdownTimeout,
		"PIPELINE_TIMEOUT": c.PipelineTimeout,
		"JWT_EXPIRY":       c.JWTExpiry,
	}
	for name, d := range timeouts {
		if d <= 0 {
			return errors.Newf("%s must be positive, got %s", name, d)
		}
	}
	if c.MongoURI == "" || c.MongoDB == "" {
		return errors.New("MONGO_URI and MONGO_DB are required")
	}
	if c.AuthEnabled && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required when AUTH_ENABLED is true")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return errors.Newf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst)
	}
	if c.MQTTBroker != "" && c.MQTTTopic == "" {
		return errors.New("MQTT_TOPIC is required when MQTT_BROKER is set")
	}
	return nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("45s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
