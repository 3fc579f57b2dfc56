// Package config loads and validates the service configuration.
//
// Values come from, lowest to highest precedence: built-in defaults, a YAML
// config file, environment variables and command line flags. The token lists
// and the rate limit keep the environment variable names the service has always
// used (API_TOKENS, BLOCKED_TOKENS, RATE_LIMIT_RPM); everything else is read
// from SCOUR_* variables.
//
// A variable that is set but empty still counts as set: API_TOKENS="" leaves the
// service with no allowed tokens instead of falling back to the default.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/jmylchreest/scour/internal/logger"
)

// Keys used in config files and with viper.
const (
	KeyAddr              = "addr"
	KeyTokens            = "tokens"
	KeyBlockedTokens     = "blocked_tokens"
	KeyRateLimitRequests = "rate_limit.requests"
	KeyRateLimitWindow   = "rate_limit.window"
	KeySweepInterval     = "rate_limit.sweep_interval"
	KeyMaxBodySize       = "max_body_size"
	KeyShutdownTimeout   = "shutdown_timeout"
	KeyDebug             = "debug"
	KeyQuiet             = "quiet"
	KeyLogJSON           = "log_json"
)

const (
	envPrefix         = "SCOUR"
	defaultConfigName = ".scour"
)

// Defaults applied by SetDefaults.
const (
	DefaultAddr            = ":8000"
	DefaultTokens          = "dev-token"
	DefaultRateLimit       = 60
	DefaultRateLimitWindow = 60 * time.Second
	DefaultSweepInterval   = time.Minute
	DefaultMaxBodySize     = "1MB"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config is the resolved service configuration.
type Config struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	Tokens          []string      `mapstructure:"tokens"`
	BlockedTokens   []string      `mapstructure:"blocked_tokens"`
	RateLimit       RateLimit     `mapstructure:"rate_limit"`
	MaxBodySize     int64         `mapstructure:"max_body_size" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
	Debug           bool          `mapstructure:"debug"`
	Quiet           bool          `mapstructure:"quiet"`
	LogJSON         bool          `mapstructure:"log_json"`
}

// RateLimit configures the per-token sliding window.
type RateLimit struct {
	Requests      int           `mapstructure:"requests" validate:"gt=0"`
	Window        time.Duration `mapstructure:"window" validate:"gt=0"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"gt=0"`
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAddr, DefaultAddr)
	v.SetDefault(KeyTokens, DefaultTokens)
	v.SetDefault(KeyBlockedTokens, "")
	v.SetDefault(KeyRateLimitRequests, DefaultRateLimit)
	v.SetDefault(KeyRateLimitWindow, DefaultRateLimitWindow)
	v.SetDefault(KeySweepInterval, DefaultSweepInterval)
	v.SetDefault(KeyMaxBodySize, DefaultMaxBodySize)
	v.SetDefault(KeyShutdownTimeout, DefaultShutdownTimeout)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyQuiet, false)
	v.SetDefault(KeyLogJSON, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	_ = v.BindEnv(KeyTokens, "API_TOKENS", "SCOUR_TOKENS")
	_ = v.BindEnv(KeyBlockedTokens, "BLOCKED_TOKENS", "SCOUR_BLOCKED_TOKENS")
	_ = v.BindEnv(KeyRateLimitRequests, "RATE_LIMIT_RPM", "SCOUR_RATE_LIMIT_REQUESTS")
}

// ReadFile points v at cfgFile, or searches the working directory and the home
// directory for .scour.yaml when cfgFile is empty. A missing default file is not
// an error; a missing explicit file is.
func ReadFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	logger.Debug("config file loaded", "path", v.ConfigFileUsed())
	return nil
}

// Load resolves the configuration held by v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	maxBody, err := parseSize(v.Get(KeyMaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyMaxBodySize, err)
	}

	cfg := &Config{
		Addr:          v.GetString(KeyAddr),
		Tokens:        toList(v.Get(KeyTokens)),
		BlockedTokens: toList(v.Get(KeyBlockedTokens)),
		RateLimit: RateLimit{
			Requests:      v.GetInt(KeyRateLimitRequests),
			Window:        v.GetDuration(KeyRateLimitWindow),
			SweepInterval: v.GetDuration(KeySweepInterval),
		},
		MaxBodySize:     maxBody,
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
		Debug:           v.GetBool(KeyDebug),
		Quiet:           v.GetBool(KeyQuiet),
		LogJSON:         v.GetBool(KeyLogJSON),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Watch reloads the configuration whenever the config file changes and passes
// each valid result to onChange. Invalid edits are logged and ignored. Watch
// does nothing when no config file is in use.
func Watch(v *viper.Viper, onChange func(*Config)) bool {
	if v.ConfigFileUsed() == "" {
		return false
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := Load(v)
		if err != nil {
			logger.Warn("config reload rejected", "file", e.Name, "error", err)
			return
		}
		logger.Info("config reloaded", "file", e.Name, "op", e.Op.String())
		onChange(cfg)
	})
	v.WatchConfig()
	return true
}

var validate = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return val
}

// Validate checks cfg and returns one error listing every failing key.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", keyOf(e), formatValidationError(e)))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// keyOf turns a namespace like "Config.rate_limit.requests" into the config key.
func keyOf(e validator.FieldError) string {
	_, key, found := strings.Cut(e.Namespace(), ".")
	if !found {
		return e.Field()
	}
	return key
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}

// toList accepts a comma-separated string (as env vars provide) or a YAML list.
func toList(val any) []string {
	var parts []string
	if s, ok := val.(string); ok {
		parts = strings.Split(s, ",")
	} else {
		parts = cast.ToStringSlice(val)
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseSize accepts a byte count or a human-readable size such as "1MB".
func parseSize(val any) (int64, error) {
	s := strings.TrimSpace(cast.ToString(val))
	if s == "" {
		return 0, errors.New("empty size")
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("size %s too large", s)
	}
	return int64(n), nil
}
