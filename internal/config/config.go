package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       *DBconfig
	RabbitMq *RabbitMqconfig
	Redis    *Redisconfig
	Srv      *Serviceconfig
	App      *Appconfig
	Log      *Loggerconfig
	Tracking *Trackingconfig
}

type DBconfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	MaxRetries int
}

type RabbitMqconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type Redisconfig struct {
	Addr     string
	Password string
	DB       int
}

type Serviceconfig struct {
	TrackingServicePort string
}

type Appconfig struct {
	PublicJwtSecret string
}

type Loggerconfig struct {
	Level string
}

// Trackingconfig carries every tunable of the tracking pipeline. The movement
// threshold is a single knob applied on both the write and the read path.
type Trackingconfig struct {
	MovementThresholdKmh float64
	OnlineWindow         time.Duration
	DefaultSpeedLimitKmh float64
	MaxAccuracyMeters    float64
	// Severity band edges as fractions over the speed limit:
	// margin < MediumBand -> low, < HighBand -> medium, < CriticalBand -> high,
	// otherwise critical.
	MediumBandFrac   float64
	HighBandFrac     float64
	CriticalBandFrac float64
}

func New() (*Config, error) {
	_ = godotenv.Load()

	cnf := &Config{
		DB: &DBconfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "bustrack_user"),
			Password:   getEnv("DB_PASSWORD", "bustrack_pass"),
			Database:   getEnv("DB_NAME", "bustrack_db"),
			MaxRetries: getEnvInt("DB_MAX_RETRIES", 5),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		Redis: &Redisconfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Srv: &Serviceconfig{
			TrackingServicePort: getEnv("TRACKING_SERVICE_PORT", "3000"),
		},
		App: &Appconfig{
			PublicJwtSecret: getEnv("PUBLIC_JWT_SECRET", "bustrack-dev-secret"),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
		Tracking: &Trackingconfig{
			MovementThresholdKmh: getEnvFloat("MOVEMENT_THRESHOLD_KMH", 1.0),
			OnlineWindow:         time.Duration(getEnvInt("ONLINE_WINDOW_MINUTES", 10)) * time.Minute,
			DefaultSpeedLimitKmh: getEnvFloat("DEFAULT_SPEED_LIMIT_KMH", 80.0),
			MaxAccuracyMeters:    getEnvFloat("MAX_ACCURACY_METERS", 100.0),
			MediumBandFrac:       getEnvFloat("SEVERITY_MEDIUM_FRAC", 0.10),
			HighBandFrac:         getEnvFloat("SEVERITY_HIGH_FRAC", 0.30),
			CriticalBandFrac:     getEnvFloat("SEVERITY_CRITICAL_FRAC", 0.50),
		},
	}

	return cnf, nil
}

func getEnv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("using default for %v\n", key)
		return def
	}
	return val
}

func getEnvInt(key string, def int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return def
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		fmt.Printf("using default for %v\n", key)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	valStr := os.Getenv(key)
	if valStr == "" {
		return def
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		fmt.Printf("using default for %v\n", key)
		return def
	}
	return val
}
