package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Overpass OverpassConfig
	Wikidata WikidataConfig
	Refresh  RefreshConfig
	Admin    AdminConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	OfficeListTTL time.Duration
}

type LogConfig struct {
	Level string
}

// OverpassConfig configures the tag-store client (component C).
type OverpassConfig struct {
	URLs            []string
	ThrottleMS      int
	RequestTimeout  time.Duration
}

// WikidataConfig configures the enrichment client (component F).
type WikidataConfig struct {
	APIURL          string
	EnrichEnabled   bool
	MaxIDsPerCenter int
	StaleDays       int
	ThrottleMS      int
	RequestTimeout  time.Duration
}

// RefreshConfig configures the refresh engine (component H).
type RefreshConfig struct {
	DefaultRadiusM      int
	BatchCentersPerRun  int
	CenterRetryCount    int
	CenterRetryDelayMS  int
	StaleLinkDays       int
	HealthMaxAgeMinutes int
	TickIntervalMinutes int
}

// AdminConfig holds the bearer token required by admin routes.
type AdminConfig struct {
	Token string
}

// CORSConfig configures the allow-origin header.
type CORSConfig struct {
	Origin string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			OfficeListTTL: time.Duration(viper.GetInt("OFFICE_LIST_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Overpass: OverpassConfig{
			URLs:           parseCommaList(viper.GetString("OVERPASS_URL")),
			ThrottleMS:     viper.GetInt("OVERPASS_THROTTLE_MS"),
			RequestTimeout: 25 * time.Second,
		},
		Wikidata: WikidataConfig{
			APIURL:          viper.GetString("WIKIDATA_API_URL"),
			EnrichEnabled:   viper.GetBool("WIKIDATA_ENRICH_ENABLED"),
			MaxIDsPerCenter: viper.GetInt("WIKIDATA_ENRICH_MAX_IDS_PER_CENTER"),
			StaleDays:       viper.GetInt("WIKIDATA_ENRICH_STALE_DAYS"),
			ThrottleMS:      viper.GetInt("WIKIDATA_ENRICH_THROTTLE_MS"),
			RequestTimeout:  15 * time.Second,
		},
		Refresh: RefreshConfig{
			DefaultRadiusM:      viper.GetInt("DEFAULT_RADIUS_M"),
			BatchCentersPerRun:  viper.GetInt("BATCH_CENTERS_PER_RUN"),
			CenterRetryCount:    viper.GetInt("REFRESH_CENTER_RETRY_COUNT"),
			CenterRetryDelayMS:  viper.GetInt("REFRESH_CENTER_RETRY_DELAY_MS"),
			StaleLinkDays:       viper.GetInt("STALE_LINK_DAYS"),
			HealthMaxAgeMinutes: viper.GetInt("REFRESH_HEALTH_MAX_AGE_MINUTES"),
			TickIntervalMinutes: viper.GetInt("REFRESH_TICK_INTERVAL_MINUTES"),
		},
		Admin: AdminConfig{
			Token: viper.GetString("ADMIN_TOKEN"),
		},
		CORS: CORSConfig{
			Origin: viper.GetString("CORS_ORIGIN"),
		},
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Cache.OfficeListTTL == 0 {
		cfg.Cache.OfficeListTTL = 60 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if len(cfg.Overpass.URLs) == 0 {
		cfg.Overpass.URLs = []string{"https://overpass-api.de/api/interpreter"}
	}
	if cfg.Overpass.ThrottleMS == 0 {
		cfg.Overpass.ThrottleMS = 1200
	}
	if cfg.Wikidata.APIURL == "" {
		cfg.Wikidata.APIURL = "https://www.wikidata.org/w/api.php"
	}
	if !viperHasKey("WIKIDATA_ENRICH_ENABLED") {
		cfg.Wikidata.EnrichEnabled = true
	}
	if cfg.Wikidata.MaxIDsPerCenter == 0 {
		cfg.Wikidata.MaxIDsPerCenter = 30
	}
	if cfg.Wikidata.StaleDays == 0 {
		cfg.Wikidata.StaleDays = 14
	}
	if cfg.Wikidata.ThrottleMS == 0 {
		cfg.Wikidata.ThrottleMS = 250
	}
	if cfg.Refresh.DefaultRadiusM == 0 {
		cfg.Refresh.DefaultRadiusM = 100000
	}
	if cfg.Refresh.BatchCentersPerRun == 0 {
		cfg.Refresh.BatchCentersPerRun = 10
	}
	if !viperHasKey("REFRESH_CENTER_RETRY_COUNT") {
		cfg.Refresh.CenterRetryCount = 3
	}
	if cfg.Refresh.CenterRetryDelayMS == 0 {
		cfg.Refresh.CenterRetryDelayMS = 2000
	}
	if cfg.Refresh.StaleLinkDays == 0 {
		cfg.Refresh.StaleLinkDays = 30
	}
	if cfg.Refresh.HealthMaxAgeMinutes == 0 {
		cfg.Refresh.HealthMaxAgeMinutes = 130
	}
	if cfg.Refresh.TickIntervalMinutes == 0 {
		cfg.Refresh.TickIntervalMinutes = 60
	}
	if cfg.CORS.Origin == "" {
		cfg.CORS.Origin = "*"
	}
}

func viperHasKey(key string) bool {
	return viper.IsSet(key)
}

func parseCommaList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
