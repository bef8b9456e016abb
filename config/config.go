package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const DefaultSecret = "CHANGE_ME"

type Configuration struct {
	ApiPort       string   `mapstructure:"api_port"`
	Env           string   `mapstructure:"env"`
	LogLevel      string   `mapstructure:"log_level"`
	SessionSecret string   `mapstructure:"session_secret"`
	CorsOrigins   []string `mapstructure:"cors_origins"`

	Database    string `mapstructure:"database"` // "sqlite3", "postgres" ou "mysql"
	DbHost      string `mapstructure:"db_host"`
	DbPort      string `mapstructure:"db_port"`
	DbUser      string `mapstructure:"db_user"`
	DbName      string `mapstructure:"db_name"`
	DbPass      string `mapstructure:"db_pass"`
	DbPath      string `mapstructure:"db_path"`
	AutoMigrate bool   `mapstructure:"automigrate"`

	Security struct {
		JwtSecret           string `mapstructure:"jwt_secret"`
		AccessTTLMinutes    int    `mapstructure:"access_ttl_minutes"`
		RefreshCodeLen      int    `mapstructure:"refresh_code_len"`
		RefreshCodeMaxValid int    `mapstructure:"refresh_code_max_valid_days"`
		ResetCodeTTLMinutes int    `mapstructure:"reset_code_ttl_minutes"`
		BcryptCost          int    `mapstructure:"bcrypt_cost"`
	} `mapstructure:"security"`

	Billing struct {
		SecretKey      string `mapstructure:"secret_key"`
		PublishableKey string `mapstructure:"publishable_key"`
	} `mapstructure:"billing"`

	Mail struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
	} `mapstructure:"mail"`

	Storage struct {
		Endpoint       string `mapstructure:"endpoint"`
		Region         string `mapstructure:"region"`
		Bucket         string `mapstructure:"bucket"`
		AccessKey      string `mapstructure:"access_key"`
		SecretKey      string `mapstructure:"secret_key"`
		PublicBaseURL  string `mapstructure:"public_base_url"`
		PresignMinutes int    `mapstructure:"presign_minutes"`
	} `mapstructure:"storage"`

	Events struct {
		AmqpURL  string `mapstructure:"amqp_url"`
		Exchange string `mapstructure:"exchange"`
	} `mapstructure:"events"`

	Redis struct {
		URL                string `mapstructure:"url"`
		LoginLimit         int    `mapstructure:"login_limit"`
		LoginWindowSeconds int    `mapstructure:"login_window_seconds"`
	} `mapstructure:"redis"`

	Jobs struct {
		CleanupSchedule  string `mapstructure:"cleanup_schedule"`
		BackfillSchedule string `mapstructure:"backfill_schedule"`
	} `mapstructure:"jobs"`

	Admin struct {
		Username string `mapstructure:"username"`
		Email    string `mapstructure:"email"`
		Password string `mapstructure:"password"`
	} `mapstructure:"admin"`
}

var defaults = map[string]any{
	"api_port":       "8080",
	"env":            "development",
	"log_level":      "info",
	"session_secret": DefaultSecret,
	"cors_origins":   []string{},

	"database":    "sqlite3",
	"db_host":     "",
	"db_port":     "",
	"db_user":     "",
	"db_name":     "",
	"db_pass":     "",
	"db_path":     "db/database.db",
	"automigrate": true,

	"security.jwt_secret":                  DefaultSecret,
	"security.access_ttl_minutes":          24 * 60,
	"security.refresh_code_len":            32,
	"security.refresh_code_max_valid_days": 30,
	"security.reset_code_ttl_minutes":      15,
	"security.bcrypt_cost":                 12,

	"billing.secret_key":      "",
	"billing.publishable_key": "",

	"mail.host":     "",
	"mail.port":     587,
	"mail.username": "",
	"mail.password": "",
	"mail.from":     "support@coursehub.local",

	"storage.endpoint":        "",
	"storage.region":          "us-east-1",
	"storage.bucket":          "",
	"storage.access_key":      "",
	"storage.secret_key":      "",
	"storage.public_base_url": "",
	"storage.presign_minutes": 60,

	"events.amqp_url": "",
	"events.exchange": "coursehub.events",

	"redis.url":                  "",
	"redis.login_limit":          10,
	"redis.login_window_seconds": 60,

	"jobs.cleanup_schedule":  "@hourly",
	"jobs.backfill_schedule": "*/15 * * * *",

	"admin.username": "admin",
	"admin.email":    "",
	"admin.password": "",
}

// Load lê o config.json (opcional) e aplica overrides de ambiente.
// Chaves aninhadas viram COURSEHUB_SECURITY_JWT_SECRET, COURSEHUB_BILLING_SECRET_KEY etc.
func Load(path string) (Configuration, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix("COURSEHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return Configuration{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Configuration{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return Configuration{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

func (c Configuration) Validate() error {
	var problems []string

	switch c.Database {
	case "sqlite3", "postgres", "postgresql", "mysql":
	default:
		problems = append(problems, fmt.Sprintf("database %q não suportado", c.Database))
	}
	if c.Security.AccessTTLMinutes <= 0 {
		problems = append(problems, "security.access_ttl_minutes deve ser > 0")
	}
	if c.Security.RefreshCodeLen <= 0 || c.Security.RefreshCodeMaxValid <= 0 {
		problems = append(problems, "security.refresh_code_* deve ser > 0")
	}
	if c.Security.ResetCodeTTLMinutes <= 0 {
		problems = append(problems, "security.reset_code_ttl_minutes deve ser > 0")
	}
	if c.IsProduction() {
		if c.Security.JwtSecret == DefaultSecret || c.Security.JwtSecret == "" {
			problems = append(problems, "security.jwt_secret precisa ser trocado em produção")
		}
		if c.SessionSecret == DefaultSecret || c.SessionSecret == "" {
			problems = append(problems, "session_secret precisa ser trocado em produção")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c Configuration) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c Configuration) BillingEnabled() bool {
	return strings.TrimSpace(c.Billing.SecretKey) != ""
}

func (c Configuration) StorageEnabled() bool {
	return c.Storage.Bucket != "" && c.Storage.AccessKey != "" && c.Storage.SecretKey != ""
}
