package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"logLevel"`
	Server      struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`
	Database struct {
		PostgresDSN         string `mapstructure:"postgresDSN"`
		PostgresAutoMigrate bool   `mapstructure:"postgresAutoMigrate"`
	} `mapstructure:"database"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	CRM      CRMConfig      `mapstructure:"crm"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Metrics  struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
	ChangeLog struct {
		DefaultLimit int `mapstructure:"defaultLimit"` // default page of GET /v1/changelog
		MaxLimit     int `mapstructure:"maxLimit"`
	} `mapstructure:"changeLog"`
}

// UpstreamConfig holds settings for the email-sequencing feed client.
type UpstreamConfig struct {
	BaseURL     string        `mapstructure:"baseURL"`
	APIKey      string        `mapstructure:"apiKey"`
	PageSize    int           `mapstructure:"pageSize"`    // campaign listing page size
	HTTPTimeout time.Duration `mapstructure:"httpTimeout"` // per-request timeout
	MaxElapsed  time.Duration `mapstructure:"maxElapsed"`  // retry budget per call
}

// CRMConfig holds settings for the downstream activity-log publisher.
type CRMConfig struct {
	Transport   string        `mapstructure:"transport"` // "webhook" or "jetstream"
	WebhookURL  string        `mapstructure:"webhookURL"`
	HTTPTimeout time.Duration `mapstructure:"httpTimeout"`
	NATSURL     string        `mapstructure:"natsURL"`
	Subject     string        `mapstructure:"subject"` // JetStream subject for push events
	Stream      string        `mapstructure:"stream"`  // JetStream stream holding push events
}

// SyncConfig holds settings for the reconciliation orchestrator.
type SyncConfig struct {
	LeadPageSize   int `mapstructure:"leadPageSize"`   // store-adapter page size for lead scans
	FetchWorkers   int `mapstructure:"fetchWorkers"`   // concurrent per-campaign lead exports
	LeadSampleSize int `mapstructure:"leadSampleSize"` // added/removed lead samples kept in summaries
}

// LoadConfig reads configuration from file or environment variables
func LoadConfig(path string) (*Config, error) {
	// Create new viper instance
	v := viper.New()

	// Set defaults
	v.SetDefault("environment", "development")
	v.SetDefault("logLevel", "info")
	v.SetDefault("server.port", 8080)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("database.postgresAutoMigrate", true)

	// Upstream feed defaults
	v.SetDefault("upstream.baseURL", "https://api.lemlist.com/api")
	v.SetDefault("upstream.pageSize", 100)
	v.SetDefault("upstream.httpTimeout", 30*time.Second)
	v.SetDefault("upstream.maxElapsed", 2*time.Minute)

	// CRM publisher defaults
	v.SetDefault("crm.transport", "webhook")
	v.SetDefault("crm.httpTimeout", 30*time.Second)
	v.SetDefault("crm.subject", "v1.push_activity.pushed")
	v.SetDefault("crm.stream", "push_activity")

	// Sync defaults
	v.SetDefault("sync.leadPageSize", 1000)
	v.SetDefault("sync.fetchWorkers", 4)
	v.SetDefault("sync.leadSampleSize", 5)

	// Change log defaults
	v.SetDefault("changeLog.defaultLimit", 50)
	v.SetDefault("changeLog.maxLimit", 500)

	// Config file settings
	v.SetConfigName("default") // name of config file (without extension)
	v.SetConfigType("yaml")    // REQUIRED if the config file does not have the extension in the name

	// Add lookup paths
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath("$HOME/.push-activity-service")
	v.AddConfigPath("/etc/push-activity-service")

	// Try to read from config file
	if err := v.ReadInConfig(); err != nil {
		// It's ok if config file is not found, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Map environment variables to config fields
	bindEnvs(v, Config{})

	// Read directly from ENV for critical values
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		v.Set("database.postgresDSN", dsn)
	}
	if lgLevel := os.Getenv("LOG_LEVEL"); lgLevel != "" {
		v.Set("logLevel", lgLevel)
	}
	if apiKey := os.Getenv("LEMLIST_API_KEY"); apiKey != "" {
		v.Set("upstream.apiKey", apiKey)
	}
	if webhookURL := os.Getenv("CRM_WEBHOOK_URL"); webhookURL != "" {
		v.Set("crm.webhookURL", webhookURL)
	}
	if url := os.Getenv("NATS_URL"); url != "" {
		v.Set("crm.natsURL", url)
	}

	// Unmarshal config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &config, nil
}

// bindEnvs recursively binds environment variables to config struct fields
func bindEnvs(v *viper.Viper, cfg interface{}, parts ...string) {
	ifv := reflect.ValueOf(cfg)
	ift := reflect.TypeOf(cfg)
	for i := 0; i < ift.NumField(); i++ {
		fieldVal := ifv.Field(i)
		fieldType := ift.Field(i)

		// Get the field tag value (mapstructure)
		tag := fieldType.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}

		// Build the env var path
		path := append(parts, tag)
		key := strings.Join(path, ".")

		// If it's a struct, recursively bind its fields
		if fieldType.Type.Kind() == reflect.Struct {
			bindEnvs(v, fieldVal.Interface(), path...)
			continue
		}

		// Bind the env var
		_ = v.BindEnv(key)
	}
}
