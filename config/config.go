package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

const prefix = "JOBPORTAL_"

// Environment variable names
const (
	EnvSigningKey   = prefix + "SIGNING_KEY"
	EnvTokenTTL     = prefix + "TOKEN_TTL"
	EnvIssuer       = prefix + "ISSUER"
	EnvAudience     = prefix + "AUDIENCE"
	EnvCookieSecure = prefix + "COOKIE_SECURE"
	EnvBcryptCost   = prefix + "BCRYPT_COST"
	EnvDatabaseDSN  = prefix + "DATABASE_DSN"
	EnvAddress      = prefix + "ADDRESS"
	EnvCORSOrigins  = prefix + "CORS_ORIGINS"
	EnvLogLevel     = prefix + "LOG_LEVEL"
	EnvHashidIDs    = prefix + "HASHID_IDS"
)

// Defaults
const (
	DefaultTokenTTL    = 24 * time.Hour
	DefaultBcryptCost  = 10
	DefaultAddress     = ":8000"
	DefaultDatabaseDSN = "file:jobportal.db?cache=shared"
	DefaultLogLevel    = "info"
	DefaultContextKey  = "user"
	DefaultTokenLookup = "cookie:token"
	MinSigningKeyLen   = 32
)

// Config is the process configuration. It is built once at start up and
// only read afterwards.
type Config struct {
	signingKey   string
	tokenTTL     time.Duration
	issuer       string
	audience     []string
	cookieSecure bool
	bcryptCost   int
	databaseDSN  string
	address      string
	corsOrigins  []string
	logLevel     string
	hashidIDs    bool
}

// Lookup resolves a variable, os.LookupEnv is the usual source
type Lookup func(key string) (string, bool)

// Overrides are applied on top of the environment, empty values are ignored
type Overrides struct {
	SigningKey  string
	Address     string
	DatabaseDSN string
	LogLevel    string
}

// LoadDotEnv seeds the process environment from the given files. Missing
// files are skipped and variables already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// FromEnvFile reads variables from a dotenv file without touching the process
// environment. Handy for tests.
func FromEnvFile(path string) (Lookup, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}, nil
}

// Load builds and validates a Config. A nil lookup reads the process environment.
func Load(lookup Lookup, overrides ...Overrides) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		signingKey:  get(EnvSigningKey, ""),
		issuer:      get(EnvIssuer, ""),
		audience:    splitCSV(get(EnvAudience, "")),
		databaseDSN: get(EnvDatabaseDSN, DefaultDatabaseDSN),
		address:     get(EnvAddress, DefaultAddress),
		corsOrigins: splitCSV(get(EnvCORSOrigins, "")),
		logLevel:    strings.ToLower(get(EnvLogLevel, DefaultLogLevel)),
	}

	var err error
	if cfg.tokenTTL, err = time.ParseDuration(get(EnvTokenTTL, DefaultTokenTTL.String())); err != nil {
		return Config{}, parseError(EnvTokenTTL, err)
	}
	if cfg.bcryptCost, err = strconv.Atoi(get(EnvBcryptCost, strconv.Itoa(DefaultBcryptCost))); err != nil {
		return Config{}, parseError(EnvBcryptCost, err)
	}
	if cfg.cookieSecure, err = strconv.ParseBool(get(EnvCookieSecure, "false")); err != nil {
		return Config{}, parseError(EnvCookieSecure, err)
	}
	if cfg.hashidIDs, err = strconv.ParseBool(get(EnvHashidIDs, "false")); err != nil {
		return Config{}, parseError(EnvHashidIDs, err)
	}

	for _, o := range overrides {
		cfg = cfg.apply(o)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parseError(key string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid value for "+key).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode("CONFIG_PARSE_ERROR").
		WithMetadata(map[string]any{"env": key})
}

func (c Config) apply(o Overrides) Config {
	if o.SigningKey != "" {
		c.signingKey = o.SigningKey
	}
	if o.Address != "" {
		c.address = o.Address
	}
	if o.DatabaseDSN != "" {
		c.databaseDSN = o.DatabaseDSN
	}
	if o.LogLevel != "" {
		c.logLevel = strings.ToLower(o.LogLevel)
	}
	return c
}

// Validate checks the loaded values
func (c Config) Validate() error {
	return validation.Errors{
		"signing_key": validation.Validate(c.signingKey,
			validation.Required,
			validation.Length(MinSigningKeyLen, 0),
		),
		"token_ttl": validation.Validate(int64(c.tokenTTL),
			validation.Required,
			validation.Min(int64(time.Minute)),
		),
		"bcrypt_cost": validation.Validate(c.bcryptCost,
			validation.Min(4),
			validation.Max(31),
		),
		"database_dsn": validation.Validate(c.databaseDSN, validation.Required),
		"address":      validation.Validate(c.address, validation.Required),
		"log_level": validation.Validate(c.logLevel,
			validation.In("trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"),
		),
	}.Filter()
}

func (c Config) GetSigningKey() string             { return c.signingKey }
func (c Config) GetTokenExpiration() time.Duration { return c.tokenTTL }
func (c Config) GetContextKey() string             { return DefaultContextKey }
func (c Config) GetTokenLookup() string            { return DefaultTokenLookup }
func (c Config) GetIssuer() string                 { return c.issuer }
func (c Config) GetCookieSecure() bool             { return c.cookieSecure }
func (c Config) GetPasswordCost() int              { return c.bcryptCost }
func (c Config) DatabaseDSN() string               { return c.databaseDSN }
func (c Config) Address() string                   { return c.address }
func (c Config) LogLevel() string                  { return c.logLevel }
func (c Config) UseHashidIDs() bool                { return c.hashidIDs }

// GetAudience returns a copy of the audience list
func (c Config) GetAudience() []string {
	return append([]string(nil), c.audience...)
}

// CORSOrigins returns a copy of the allowed origins
func (c Config) CORSOrigins() []string {
	return append([]string(nil), c.corsOrigins...)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
