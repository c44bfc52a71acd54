package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration, decoded from config.toml and SOLAR_* variables
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Swagger   SwaggerConfig   `mapstructure:"swagger"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Printing  PrintingConfig  `mapstructure:"printing"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Port    string `mapstructure:"port"`
	Version string `mapstructure:"version"`
}

// DatabaseConfig is the PostgreSQL catalog store
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
	AutoMigrate     bool   `mapstructure:"auto_migrate"`       // apply embedded migrations on server startup
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig configures the recommendation cache
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Backend   string        `mapstructure:"backend"` // redis, memory
	TTL       time.Duration `mapstructure:"ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// StorageConfig points at the S3-compatible bucket holding product images
type StorageConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Endpoint          string        `mapstructure:"endpoint"`
	Region            string        `mapstructure:"region"`
	Bucket            string        `mapstructure:"bucket"`
	AccessKey         string        `mapstructure:"access_key"`
	SecretKey         string        `mapstructure:"secret_key"`
	UseSSL            bool          `mapstructure:"use_ssl"`
	UsePathStyle      bool          `mapstructure:"use_path_style"`
	PresignExpiration time.Duration `mapstructure:"presign_expiration"`
	PublicBaseURL     string        `mapstructure:"public_base_url"` // prefix of stored image URLs
	MaxImageSize      int64         `mapstructure:"max_image_size"`
}

// AuthConfig holds the single admin account and its token settings
type AuthConfig struct {
	AdminUsername         string        `mapstructure:"admin_username"`
	AdminPasswordHash     string        `mapstructure:"admin_password_hash"` // bcrypt
	JWTSecret             string        `mapstructure:"jwt_secret"`
	AccessTokenExpiration time.Duration `mapstructure:"access_token_expiration"`
	Issuer                string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr or a file path
}

type HTTPConfig struct {
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes    int           `mapstructure:"max_header_bytes"`
	MaxBodySize       int64         `mapstructure:"max_body_size"`
	RateLimitEnabled  bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
	CORSAllowOrigins  []string      `mapstructure:"cors_allow_origins"` // empty allows no cross-origin requests
	CORSAllowMethods  []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders  []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies    []string      `mapstructure:"trusted_proxies"`
}

type SwaggerConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	RequireAuth bool     `mapstructure:"require_auth"`
	AllowedIPs  []string `mapstructure:"allowed_ips"` // empty allows every client
}

// TelemetryConfig configures OTLP export and database instrumentation
type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"`
	SamplingRatio     float64       `mapstructure:"sampling_ratio"` // 0.0 to 1.0
	ServiceName       string        `mapstructure:"service_name"`   // defaults to app.name
	Insecure          bool          `mapstructure:"insecure"`
	MetricsEnabled    bool          `mapstructure:"metrics_enabled"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	LogsEnabled       bool          `mapstructure:"logs_enabled"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"` // development only
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`
}

// PrintingConfig configures PDF offers rendered by headless Chrome
type PrintingConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	ChromeRemoteURL string        `mapstructure:"chrome_remote_url"` // empty launches a local Chrome
	NoSandbox       bool          `mapstructure:"no_sandbox"`        // needed when Chrome runs as root in a container
	Timeout         time.Duration `mapstructure:"timeout"`
	CompanyName     string        `mapstructure:"company_name"`
	Language        string        `mapstructure:"language"` // tr, en
	OfferValidDays  int           `mapstructure:"offer_valid_days"`
}

// ProfilingConfig configures Pyroscope continuous profiling
type ProfilingConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	ServerAddress     string   `mapstructure:"server_address"`
	BasicAuthUser     string   `mapstructure:"basic_auth_user"`
	BasicAuthPassword string   `mapstructure:"basic_auth_password"`
	ProfileTypes      []string `mapstructure:"profile_types"` // cpu, alloc_space, inuse_space, goroutines, ...
	SpanProfiles      bool     `mapstructure:"span_profiles"` // link CPU profiles to trace spans
}

// Addr returns the host:port address of the Redis server
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// DSN returns the postgres URL with user and password escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// Load reads config.toml from the working directory or /app and overlays
// SOLAR_* environment variables, so SOLAR_DATABASE_PASSWORD sets
// database.password. Empty variables count as unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SOLAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key, which is also what lets AutomaticEnv
// reach keys that appear in no config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "solar-catalog")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "solar")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.conn_max_idle_time", 30)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.backend", "redis")
	v.SetDefault("cache.ttl", 10 * time.Minute)
	v.SetDefault("cache.key_prefix", "solar:recommend:")

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "solar-images")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.use_path_style", false)
	v.SetDefault("storage.presign_expiration", 15 * time.Minute)
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.max_image_size", 5 << 20)

	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_password_hash", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_expiration", 8 * time.Hour)
	v.SetDefault("auth.issuer", "solar-catalog")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.read_timeout", 15 * time.Second)
	v.SetDefault("http.write_timeout", 15 * time.Second)
	v.SetDefault("http.idle_timeout", time.Minute)
	v.SetDefault("http.shutdown_timeout", 30 * time.Second)
	v.SetDefault("http.max_header_bytes", 1 << 20)
	v.SetDefault("http.max_body_size", 1 << 20)
	v.SetDefault("http.rate_limit_enabled", false)
	v.SetDefault("http.rate_limit_requests", 100)
	v.SetDefault("http.rate_limit_window", time.Minute)
	v.SetDefault("http.cors_allow_origins", []string{})
	v.SetDefault("http.cors_allow_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("http.cors_allow_headers", []string{"Content-Type", "Authorization", "X-Request-ID"})
	v.SetDefault("http.trusted_proxies", []string{})

	v.SetDefault("swagger.enabled", false)
	v.SetDefault("swagger.require_auth", false)
	v.SetDefault("swagger.allowed_ips", []string{})

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.collector_endpoint", "localhost:4317")
	v.SetDefault("telemetry.sampling_ratio", 1.0)
	v.SetDefault("telemetry.service_name", "")
	v.SetDefault("telemetry.insecure", false)
	v.SetDefault("telemetry.metrics_enabled", false)
	v.SetDefault("telemetry.metrics_interval", time.Minute)
	v.SetDefault("telemetry.logs_enabled", false)
	v.SetDefault("telemetry.db_trace_enabled", false)
	v.SetDefault("telemetry.db_log_full_sql", false)
	v.SetDefault("telemetry.db_slow_query_threshold", 200 * time.Millisecond)

	v.SetDefault("printing.enabled", false)
	v.SetDefault("printing.chrome_remote_url", "")
	v.SetDefault("printing.no_sandbox", false)
	v.SetDefault("printing.timeout", 30 * time.Second)
	v.SetDefault("printing.company_name", "")
	v.SetDefault("printing.language", "tr")
	v.SetDefault("printing.offer_valid_days", 30)

	v.SetDefault("profiling.enabled", false)
	v.SetDefault("profiling.server_address", "")
	v.SetDefault("profiling.basic_auth_user", "")
	v.SetDefault("profiling.basic_auth_password", "")
	v.SetDefault("profiling.profile_types", []string{})
	v.SetDefault("profiling.span_profiles", false)
}

// validate reports every problem at once.
func (c *Config) validate() error {
	var problems []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	db := c.Database
	check(db.MaxOpenConns > 0, "database.max_open_conns must be positive")
	check(db.MaxIdleConns >= 0, "database.max_idle_conns cannot be negative")
	check(db.MaxIdleConns <= db.MaxOpenConns,
		"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)

	check(c.Cache.Backend == "redis" || c.Cache.Backend == "memory",
		"cache.backend must be redis or memory, got %q", c.Cache.Backend)

	if c.Storage.Enabled {
		check(c.Storage.AccessKey != "" && c.Storage.SecretKey != "",
			"storage.access_key and storage.secret_key are required when storage is enabled")
		check(c.Storage.PublicBaseURL != "", "storage.public_base_url is required when storage is enabled")
	}

	check(c.Printing.Language == "tr" || c.Printing.Language == "en",
		"printing.language must be tr or en, got %q", c.Printing.Language)
	check(c.Printing.OfferValidDays >= 0, "printing.offer_valid_days cannot be negative")
	check(!c.Profiling.Enabled || c.Profiling.ServerAddress != "",
		"profiling.server_address is required when profiling is enabled")
	check(c.Telemetry.SamplingRatio >= 0 && c.Telemetry.SamplingRatio <= 1,
		"telemetry.sampling_ratio must be between 0.0 and 1.0, got %g", c.Telemetry.SamplingRatio)

	if c.App.Env == "production" {
		check(len(c.Auth.JWTSecret) >= 32, "auth.jwt_secret must be at least 32 characters in production")
		check(c.Auth.AdminPasswordHash != "", "auth.admin_password_hash is required in production")
		check(db.Password != "", "database.password is required in production")
		check(db.SSLMode != "disable", "database.sslmode cannot be 'disable' in production")
		check(!slices.Contains(c.HTTP.CORSAllowOrigins, "*"),
			"http.cors_allow_origins cannot be '*' in production")
		check(!c.Swagger.Enabled || c.Swagger.RequireAuth || len(c.Swagger.AllowedIPs) > 0,
			"swagger endpoint must be disabled, require authentication, or have IP restriction in production")
		check(!c.Telemetry.DBLogFullSQL, "telemetry.db_log_full_sql must be false in production")
	}

	return errors.Join(problems...)
}
