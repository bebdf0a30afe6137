// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — общая структура для хранения настроек сервиса.
type Config struct {
	Env                    string `yaml:"env" env:"ENV" env-default:"local"`
	LedgerConnectionString string `yaml:"ledger_connection_string" env:"LEDGER_CONNECTION_STRING"`
	MigrationsPath         string `yaml:"migrations_path" env-default:"./migrations"`
	StripeWebhookSecret    string `yaml:"stripe_webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	RabbitConnection       string        `yaml:"rabbit_connection" env:"RABBIT_CONNECTION"`
	RabbitMaxRetries       int           `yaml:"rabbit_max_retries" env-default:"5"`
	RabbitRetryDelay       time.Duration `yaml:"rabbit_retry_delay" env-default:"2s"`
	HTTPServer             `yaml:"http_server"`
	SurrealDB              `yaml:"surrealdb"`
	RedisConnection        `yaml:"redis_connection"`
	SMTPConnection         `yaml:"smtp_connection"`
	Purchases              `yaml:"purchases"`
	Entitlement            `yaml:"entitlement"`
	AdminToken             `yaml:"admin_token"`
}

// HTTPServer — настройки HTTP-сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// SurrealDB — настройки подключения к удалённому key-value хранилищу статусов.
// Запросы уходят на {Endpoint}/sql с bearer-токеном и селекторами NS/DB.
type SurrealDB struct {
	Endpoint  string        `yaml:"endpoint" env:"SURREAL_ENDPOINT"`
	Namespace string        `yaml:"namespace" env:"SURREAL_NAMESPACE"`
	Database  string        `yaml:"database" env:"SURREAL_DATABASE"`
	Token     string        `yaml:"token" env:"SURREAL_TOKEN"`
	Timeout   time.Duration `yaml:"timeout" env-default:"10s"`
}

// RedisConnection — настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"5s"`
	CheckTTL     time.Duration `yaml:"check_ttl" env-default:"1m"`
}

// SMTPConnection — настройки SMTP для писем-подтверждений покупки.
type SMTPConnection struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort string `yaml:"smtp_port" env-default:"587"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass" env:"SMTP_PASS"`
}

// Purchases — настройки клиента SDK покупок (RevenueCat-совместимый REST API).
// Ключ выбирается по платформе сборки: ios, android или test.
type Purchases struct {
	BaseURL       string        `yaml:"base_url" env-default:"https://api.revenuecat.com"`
	Platform      string        `yaml:"platform" env-default:"test"`
	APIKeyIOS     string        `yaml:"api_key_ios" env:"PURCHASES_API_KEY_IOS"`
	APIKeyAndroid string        `yaml:"api_key_android" env:"PURCHASES_API_KEY_ANDROID"`
	APIKeyTest    string        `yaml:"api_key_test" env:"PURCHASES_API_KEY_TEST"`
	Timeout       time.Duration `yaml:"timeout" env-default:"10s"`
}

// ActiveKey возвращает ключ API для текущей платформы.
func (p Purchases) ActiveKey() string {
	switch p.Platform {
	case "ios":
		return p.APIKeyIOS
	case "android":
		return p.APIKeyAndroid
	default:
		return p.APIKeyTest
	}
}

// Entitlement — настройки клиентской сверки премиум-статуса и поллера
// подтверждения оплаты.
type Entitlement struct {
	// AllowList — операторские email-адреса с безусловным премиумом.
	AllowList []string `yaml:"allow_list"`
	// EntitlementID — идентификатор entitlement в SDK покупок.
	EntitlementID string `yaml:"entitlement_id" env-default:"premium"`
	// ConsultRemote включает третий сигнал сверки: чтение серверной записи,
	// созданной webhook-обработчиком. По умолчанию выключен.
	ConsultRemote bool          `yaml:"consult_remote" env-default:"false"`
	PollInterval  time.Duration `yaml:"poll_interval" env-default:"5s"`
	// PollMaxWait ограничивает длительность поллинга; 0 — без ограничения.
	PollMaxWait time.Duration `yaml:"poll_max_wait" env-default:"0"`
}

// AdminToken — настройки сервисных токенов для административных эндпоинтов.
type AdminToken struct {
	Secret string        `yaml:"secret" env:"ADMIN_TOKEN_SECRET"`
	TTL    time.Duration `yaml:"ttl" env-default:"24h"`
}

// MustLoad загружает конфиг из файла, указанного в CONFIG_PATH.
// При любой ошибке завершает процесс.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"SurrealDB:\n"+
			"  Endpoint: %s\n"+
			"  Namespace: %s\n"+
			"  Database: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"Purchases:\n"+
			"  BaseURL: %s\n"+
			"  Platform: %s\n"+
			"Entitlement:\n"+
			"  AllowList: %v\n"+
			"  EntitlementID: %s\n"+
			"  ConsultRemote: %v\n"+
			"  PollInterval: %s\n"+
			"  PollMaxWait: %s\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.SurrealDB.Endpoint,
		c.SurrealDB.Namespace,
		c.SurrealDB.Database,
		c.AddressRedis,
		c.DB,
		c.Purchases.BaseURL,
		c.Purchases.Platform,
		c.AllowList,
		c.EntitlementID,
		c.ConsultRemote,
		c.PollInterval,
		c.PollMaxWait,
	)
}
