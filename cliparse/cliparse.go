package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported store backends
const (
	DatabaseMongo    = "mongo"
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

// Role update policies for PUT /users/updateRole/{email}
const (
	RolePolicySelf  = "self"
	RolePolicyAdmin = "admin"
)

const (
	defaultPort     = 5000
	defaultDBName   = "contestHub"
	defaultDBHost   = "localhost:27017"
	defaultTokenTTL = time.Hour
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	DatabaseName string
	TokenSecret  string
	TokenTTL     time.Duration

	// EnforceAdmin puts the admin guard on contest mutations and user listing
	EnforceAdmin bool
	RolePolicy   string
}

// LoadEnvFile loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set.
// Missing files are skipped.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ParseFlags reads flags, falling back to env variables and defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var ttl string

	fs := flag.NewFlagSet("contesthub", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (mongo, postgres or sqlite)")
	fs.StringVar(&cfg.DatabaseName, "db-name", "", "Database name (mongo only)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.TokenSecret, "secret", "", "Token signing secret (prefer env)")
	fs.StringVar(&ttl, "token-ttl", "", "Token lifetime, e.g. 1h")

	fs.BoolVar(&cfg.EnforceAdmin, "enforce-admin", true, "Require an admin token for contest mutations and user listing")
	fs.StringVar(&cfg.RolePolicy, "role-policy", "", "Who may change a role: self or admin")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseMongo
		}
	}
	switch cfg.DatabaseType {
	case DatabaseMongo, DatabasePostgres, DatabaseSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseName == "" {
		cfg.DatabaseName = os.Getenv("DB_NAME")
		if cfg.DatabaseName == "" {
			cfg.DatabaseName = defaultDBName
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != DatabaseMongo {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = mongoURL(os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_HOST"))
	}

	// Secrets - MUST be provided
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = os.Getenv("ACCESS_TOKEN_SECRET")
	}
	if cfg.TokenSecret == "" {
		return Config{}, errors.New("ACCESS_TOKEN_SECRET required")
	}

	if ttl == "" {
		ttl = os.Getenv("TOKEN_TTL")
	}
	cfg.TokenTTL = defaultTokenTTL
	if ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid token TTL %q", ttl)
		}
		cfg.TokenTTL = d
	}

	if !set["enforce-admin"] {
		if v := os.Getenv("ENFORCE_ADMIN"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid ENFORCE_ADMIN env variable")
			}
			cfg.EnforceAdmin = b
		}
	}

	if cfg.RolePolicy == "" {
		cfg.RolePolicy = os.Getenv("ROLE_UPDATE_POLICY")
		if cfg.RolePolicy == "" {
			cfg.RolePolicy = RolePolicySelf
		}
	}
	if cfg.RolePolicy != RolePolicySelf && cfg.RolePolicy != RolePolicyAdmin {
		return Config{}, fmt.Errorf("unsupported role policy %q", cfg.RolePolicy)
	}

	return cfg, nil
}

// mongoURL builds a connection string from split credentials
func mongoURL(user, pass, host string) string {
	if host == "" {
		host = defaultDBHost
	}
	u := url.URL{Scheme: "mongodb", Host: host, Path: "/"}
	if user != "" {
		u.User = url.UserPassword(user, pass)
		u.RawQuery = "retryWrites=true&w=majority"
	}
	return u.String()
}
