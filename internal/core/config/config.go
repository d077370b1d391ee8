package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Migration modes.
const (
	MigrationVersioned = "versioned"
	MigrationSkip      = "skip"
)

type Config struct {
	Server struct {
		Port            int           `mapstructure:"port"`
		Host            string        `mapstructure:"host"`
		CORSOrigins     []string      `mapstructure:"cors_origins"`
		Playground      bool          `mapstructure:"playground"`
		Metrics         bool          `mapstructure:"metrics"`
		AdminUsername   string        `mapstructure:"admin_username"`
		AdminPassword   string        `mapstructure:"admin_password"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`
	Database struct {
		Driver        string `mapstructure:"driver"`
		Path          string `mapstructure:"path"`
		DSN           string `mapstructure:"dsn"`
		MigrationMode string `mapstructure:"migration_mode"`
		MaxOpenConns  int    `mapstructure:"max_open_conns"`
	} `mapstructure:"database"`
	Auth struct {
		JWTSecret  string        `mapstructure:"jwt_secret"`
		TokenTTL   time.Duration `mapstructure:"token_ttl"`
		BcryptCost int           `mapstructure:"bcrypt_cost"`
	} `mapstructure:"auth"`
	GraphQL struct {
		ComplexityLimit int `mapstructure:"complexity_limit"`
		MaxDepth        int `mapstructure:"max_depth"`
		MaxParallelism  int `mapstructure:"max_parallelism"`
	} `mapstructure:"graphql"`
	Log struct {
		Level  string    `mapstructure:"level"`
		Levels LogLevels `mapstructure:"levels"`
	} `mapstructure:"log"`
	App struct {
		Environment string `mapstructure:"environment"`
	} `mapstructure:"app"`
}

// Load reads configuration from cfgFile (or ./config.toml when empty),
// environment variables prefixed with POSTBOARD_ and built-in defaults.
// A missing default config file is not an error; a missing explicit one is.
func Load(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("POSTBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		LogLevelsDecodeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := viper.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	levels, err := readLogLevels(viper.ConfigFileUsed())
	if err != nil {
		return nil, err
	}
	cfg.Log.Levels = levels

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 4000)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.cors_origins", []string{"*"})
	viper.SetDefault("server.playground", true)
	viper.SetDefault("server.metrics", true)
	viper.SetDefault("server.shutdown_timeout", 5*time.Second)
	viper.SetDefault("server.admin_username", "")
	viper.SetDefault("server.admin_password", "")
	viper.SetDefault("database.driver", DriverSQLite)
	viper.SetDefault("database.path", "postboard.db")
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.migration_mode", MigrationVersioned)
	viper.SetDefault("database.max_open_conns", 10)
	viper.SetDefault("auth.jwt_secret", "")
	viper.SetDefault("auth.token_ttl", time.Hour)
	viper.SetDefault("auth.bcrypt_cost", 12)
	viper.SetDefault("graphql.complexity_limit", 200)
	viper.SetDefault("graphql.max_depth", 10)
	viper.SetDefault("graphql.max_parallelism", 10)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("app.environment", "production")
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}

	switch c.Database.MigrationMode {
	case MigrationVersioned, MigrationSkip:
	default:
		return fmt.Errorf("unsupported database.migration_mode %q", c.Database.MigrationMode)
	}

	if c.Auth.JWTSecret == "" && !c.IsDevelopment() {
		return errors.New("auth.jwt_secret must be set outside development")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost %d out of range [4, 31]", c.Auth.BcryptCost)
	}
	return nil
}

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsAdminAuthEnabled reports whether basic auth guards the admin routes.
func (c *Config) IsAdminAuthEnabled() bool {
	return c.Server.AdminUsername != "" && c.Server.AdminPassword != ""
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func BindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "config file (default is ./config.toml)")
	cmd.PersistentFlags().Int("port", 4000, "Port to run the server on")
	_ = viper.BindPFlag("server.port", cmd.PersistentFlags().Lookup("port"))
}
