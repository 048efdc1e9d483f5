package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	Auth struct {
		SecretKey       string `mapstructure:"secret_key"`
		TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
		BcryptCost      int    `mapstructure:"bcrypt_cost"`
		StrictSignup    bool   `mapstructure:"strict_signup"`
	} `mapstructure:"auth"`
	Store struct {
		URL string `mapstructure:"url"`
		Key string `mapstructure:"key"`
	} `mapstructure:"store"`
	Storage struct {
		Bucket    string `mapstructure:"bucket"`
		KeyPrefix string `mapstructure:"key_prefix"`
		Region    string `mapstructure:"region"`
		Endpoint  string `mapstructure:"endpoint"`
	} `mapstructure:"storage"`
	AWS struct {
		Profile string `mapstructure:"profile"`
	} `mapstructure:"aws"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// legacyEnv maps config keys to the unprefixed variable names used by
// existing deployments. Prefixed MODELHUB_* variables take precedence.
var legacyEnv = map[string]string{
	"auth.secret_key": "SECRET_KEY",
	"store.url":       "STORE_URL",
	"store.key":       "STORE_KEY",
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetEnvPrefix("MODELHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.token_ttl_minutes", 30)
	v.SetDefault("auth.bcrypt_cost", 0)
	v.SetDefault("auth.strict_signup", false)
	v.SetDefault("store.url", "sqlite://data/modelhub.db")
	v.SetDefault("store.key", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.key_prefix", "users")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	for key, env := range legacyEnv {
		prefixed := "MODELHUB_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.SecretKey) == "" {
		return errors.New("auth secret key is required (SECRET_KEY)")
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("auth token ttl must be positive, got %d minutes", c.Auth.TokenTTLMinutes)
	}
	if strings.TrimSpace(c.Store.URL) == "" {
		return errors.New("store url is required (STORE_URL)")
	}
	return nil
}

// TokenTTL returns the access token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
