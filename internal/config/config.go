package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Persistence PersistenceConfig
	Fetch       FetchConfig
	Assistant   AssistantConfig
	Endpoints   EndpointConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	HubLogFilePath     string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	UploadsDir         string
	HistoryTopic       string
}

type DatabaseConfig struct {
	Connection string
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type PersistenceConfig struct {
	Driver string // "memory", "postgres" or "redis"
}

type FetchConfig struct {
	Timeout      time.Duration
	RelayTimeout time.Duration
	UserAgent    string
}

type AssistantConfig struct {
	OwnerName           string
	FactsFile           string
	DisambiguationTTL   time.Duration
	RecordWindow        time.Duration
	DefaultLatitude     *float64
	DefaultLongitude    *float64
	DefaultVoice        string // "default" or "jarvis"
	HistoryCapacity     int
	EventPublishTimeout time.Duration
}

// EndpointConfig overrides the external service base URLs. Blank keeps the default.
type EndpointConfig struct {
	Summary        string
	ReverseGeocode string
	Weather        string
	ExchangeRate   string
	ShowSearch     string
	WebSearch      string
}

func (c AssistantConfig) HasDefaultLocation() bool {
	return c.DefaultLatitude != nil && c.DefaultLongitude != nil
}

func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/axon.log"),
			HubLogFilePath:     getEnv("HUB_LOG_FILE_PATH", "logs/hub.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			UploadsDir:         getEnv("UPLOADS_DIR", "./uploads"),
			HistoryTopic:       getEnv("HISTORY_TOPIC_NAME", "AXON_INTERACTION"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Persistence: PersistenceConfig{
			Driver: strings.ToLower(getEnv("PERSISTENCE_DRIVER", DriverMemory)),
		},
		Fetch: FetchConfig{
			Timeout:      getEnvAsDuration("FETCH_TIMEOUT", 7*time.Second),
			RelayTimeout: getEnvAsDuration("FETCH_RELAY_TIMEOUT", 7*time.Second),
			UserAgent:    getEnv("FETCH_USER_AGENT", "axon-assistant/1.0"),
		},
		Assistant: AssistantConfig{
			OwnerName:           getEnv("ASSISTANT_OWNER_NAME", "Haider Ali"),
			FactsFile:           getEnv("ASSISTANT_FACTS_FILE", ""),
			DisambiguationTTL:   getEnvAsDuration("DISAMBIGUATION_TTL", 60*time.Second),
			RecordWindow:        getEnvAsDuration("RECORD_WINDOW", 8*time.Second),
			DefaultLatitude:     getEnvAsFloatPtr("DEFAULT_LATITUDE"),
			DefaultLongitude:    getEnvAsFloatPtr("DEFAULT_LONGITUDE"),
			DefaultVoice:        getEnv("ASSISTANT_VOICE", "default"),
			HistoryCapacity:     getEnvAsInt("HISTORY_CAPACITY", 500),
			EventPublishTimeout: getEnvAsDuration("EVENT_PUBLISH_TIMEOUT", 3*time.Second),
		},
		Endpoints: EndpointConfig{
			Summary:        getEnv("SUMMARY_ENDPOINT", ""),
			ReverseGeocode: getEnv("REVERSE_GEOCODE_ENDPOINT", ""),
			Weather:        getEnv("WEATHER_ENDPOINT", ""),
			ExchangeRate:   getEnv("EXCHANGE_RATE_ENDPOINT", ""),
			ShowSearch:     getEnv("SHOW_SEARCH_ENDPOINT", ""),
			WebSearch:      getEnv("WEB_SEARCH_ENDPOINT", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("7s") or plain milliseconds ("7000").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	if ms, err := strconv.Atoi(strValue); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

func getEnvAsFloatPtr(key string) *float64 {
	strValue := getEnv(key, "")
	if strValue == "" {
		return nil
	}
	value, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return nil
	}
	return &value
}
