package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	Http Http

	Cors CORS `validate:"required"`

	Kafka Kafka `validate:"required"`

	Postgres Postgres `validate:"required"`

	Cache Cache `validate:"required"`

	Storage Storage `validate:"required"`

	Checkout Checkout `validate:"required"`

	Payment Payment `validate:"required"`

	Notify Notify `validate:"required"`
}

type Http struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required,gt=0,lte=65535"`
}

type Kafka struct {
	GroupID            string   `validate:"required"`
	Brokers            []string `validate:"required,min=1,dive,hostname_port"`
	PaymentsTopic      string   `validate:"required"`
	NotificationsTopic string   `validate:"required"`

	ReaderMaxWait time.Duration `validate:"gte=0"`
	BatchTimeout  time.Duration `validate:"gte=0"`
}

type Postgres struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	DBName   string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`

	SSLMode string `validate:"required,oneof=disable require verify-ca verify-full"`

	MigrationsPath string `validate:"required"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

type Cache struct {
	Capacity int           `validate:"gte=1"`
	TTL      time.Duration `validate:"gt=0"`
}

type Storage struct {
	Path     string `validate:"required"`
	MaxBytes int64  `validate:"gte=0"`

	CartTTL    time.Duration `validate:"gte=0"`
	SessionTTL time.Duration `validate:"gt=0"`
}

// Checkout holds the pricing policy. Orders with a subtotal above
// FreeShippingThreshold ship free, everything else pays the flat fee.
// RetentionMax bounds how many orders are kept (newest win).
type Checkout struct {
	FreeShippingThreshold float64 `validate:"gte=0"`
	ShippingFee           float64 `validate:"gte=0"`
	TaxRate               float64 `validate:"gte=0,lt=1"`
	RetentionMax          int     `validate:"gte=1"`
}

type Payment struct {
	Provider string `validate:"required,oneof=wompi mock mercadopago"`

	BaseURL   string        `validate:"omitempty,url"`
	PublicKey string        `validate:"-"`
	Timeout   time.Duration `validate:"gt=0"`

	MockSeed    int64         `validate:"-"`
	MockLatency time.Duration `validate:"gte=0"`
}

type Notify struct {
	WhatsAppPhone string `validate:"required"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		Http: Http{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "http://localhost:3000"), ","),
		},

		Kafka: Kafka{
			GroupID:            env("KAFKA_GROUP_ID", "checkout-service"),
			PaymentsTopic:      env("KAFKA_PAYMENTS_TOPIC", "payment-events"),
			NotificationsTopic: env("KAFKA_NOTIFICATIONS_TOPIC", "order-notifications"),
			Brokers:            strings.Split(env("KAFKA_BROKERS", "localhost:9092"), ","),

			ReaderMaxWait: envDuration("KAFKA_READER_MAX_WAIT", 10*time.Millisecond),
			BatchTimeout:  envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},

		Postgres: Postgres{
			Port:     envInt("POSTGRES_PORT", 5432),
			Host:     env("POSTGRES_HOST", "localhost"),
			DBName:   env("POSTGRES_DB", "checkout"),
			User:     env("POSTGRES_USER", ""),
			Password: env("POSTGRES_PASSWORD", ""),

			SSLMode: env("POSTGRES_SSL_MODE", "disable"),

			MigrationsPath: env("POSTGRES_MIGRATIONS_PATH", "migrations"),

			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Cache: Cache{
			Capacity: envInt("CACHE_CAPACITY", 1000),
			TTL:      envDuration("CACHE_TTL", 10*time.Minute),
		},

		Storage: Storage{
			Path:     env("STORAGE_PATH", "data/storefront.json"),
			MaxBytes: int64(envInt("STORAGE_MAX_BYTES", 5*1024*1024)),

			CartTTL:    envDuration("STORAGE_CART_TTL", 0),
			SessionTTL: envDuration("STORAGE_SESSION_TTL", 2*time.Hour),
		},

		Checkout: Checkout{
			FreeShippingThreshold: envFloat("FREE_SHIPPING_THRESHOLD", 200000),
			ShippingFee:           envFloat("SHIPPING_FEE", 15000),
			TaxRate:               envFloat("TAX_RATE", 0.19),
			RetentionMax:          envInt("ORDERS_RETENTION_MAX", 500),
		},

		Payment: Payment{
			Provider: env("PAYMENT_PROVIDER", "mock"),

			BaseURL:   env("PAYMENT_BASE_URL", ""),
			PublicKey: env("PAYMENT_PUBLIC_KEY", ""),
			Timeout:   envDuration("PAYMENT_TIMEOUT", 15*time.Second),

			MockSeed:    int64(envInt("PAYMENT_MOCK_SEED", 0)),
			MockLatency: envDuration("PAYMENT_MOCK_LATENCY", 800*time.Millisecond),
		},

		Notify: Notify{
			WhatsAppPhone: env("WHATSAPP_PHONE", "573001234567"),
		},
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if len(fallback) == 0 {
		return ""
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}
