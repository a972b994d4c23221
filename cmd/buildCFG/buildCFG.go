package buildCFG

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"registrar/internal/mailer"
	"registrar/pkg/validator"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StoreSupabase = "supabase"
	StorePostgres = "postgres"
)

// Getter is the part of *config.Config the builders read from.
type Getter interface {
	GetString(key string) string
	GetInt(key string) int
}

var _ Getter = (*config.Config)(nil)

// Loader is the part of *config.Config that reads files.
type Loader interface {
	Load(configPath, envPath, envPrefix string) error
}

var _ Loader = (*config.Config)(nil)

// LoadConfig loads configPath and, when it exists, envPath. Deployments that
// pass settings as real environment variables ship no .env file, so a missing
// one is logged and skipped.
func LoadConfig(cfg Loader, configPath, envPath string, log *zerolog.Logger) error {
	if envPath != "" {
		if _, err := os.Stat(envPath); errors.Is(err, fs.ErrNotExist) {
			log.Info().Msgf("%s not found, reading settings from the environment", envPath)
			envPath = ""
		}
	}
	if err := cfg.Load(configPath, envPath, ""); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return nil
}

type ServerConfig struct {
	Port            string `validate:"required,numeric"`
	Env             string `validate:"required"`
	ShutdownTimeout time.Duration
	AllowOrigins    []string
}

type StoreConfig struct {
	Driver      string `validate:"required"`
	SupabaseURL string
	SupabaseKey string
	Table       string
}

type RabbitConfig struct {
	Url      string `validate:"required"`
	Exchange string `validate:"required"`
	Queue    string `validate:"required"`
}

func BuildServerConfig(cfg Getter, log *zerolog.Logger) ServerConfig {
	s := ServerConfig{
		Port:            cfg.GetString("server.port"),
		Env:             strings.ToLower(cfg.GetString("app.env")),
		ShutdownTimeout: time.Duration(cfg.GetInt("server.shutdown_timeout_seconds")) * time.Second,
		AllowOrigins:    splitList(cfg.GetString("cors.allow_origins")),
	}
	if s.Port == "" {
		s.Port = "8080"
	}
	if s.Env == "" {
		s.Env = EnvDevelopment
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = 10 * time.Second
	}
	if err := validator.Validate(context.Background(), s); err != nil {
		log.Warn().Err(err).Msg("server config is not valid, using defaults")
		s.Port = "8080"
	}
	return s
}

// BuildStoreConfig reads the store driver and the Supabase credentials. The
// SUPABASE_URL and SUPABASE_ANON_KEY variables are used when the config file
// leaves them empty. Missing credentials are logged but not fatal: every insert
// then fails with a store error.
func BuildStoreConfig(cfg Getter, env string, log *zerolog.Logger) StoreConfig {
	s := StoreConfig{
		Driver:      strings.ToLower(cfg.GetString("store.driver")),
		SupabaseURL: firstNonEmpty(cfg.GetString("supabase.url"), os.Getenv("SUPABASE_URL")),
		SupabaseKey: firstNonEmpty(cfg.GetString("supabase.key"), os.Getenv("SUPABASE_ANON_KEY")),
		Table:       cfg.GetString("supabase.table"),
	}
	if s.Driver == "" {
		s.Driver = StoreSupabase
	}

	if s.Driver == StoreSupabase && (s.SupabaseURL == "" || s.SupabaseKey == "") {
		if env == EnvProduction {
			log.Error().Msg("Missing required environment variables.")
		} else {
			log.Error().Msg("Missing Supabase environment variables. Please check your .env file.")
		}
	}
	return s
}

func BuildDBConfig(cfg Getter, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("postgres.master_dsn")
	if masterDSN == "" {
		host := cfg.GetString("postgres.host")
		port := cfg.GetString("postgres.port")
		user := cfg.GetString("postgres.user")
		password := cfg.GetString("postgres.password")
		dbname := cfg.GetString("postgres.dbname")
		if host == "" || user == "" || dbname == "" {
			return "", nil, nil, fmt.Errorf("postgres host, user and dbname are required")
		}
		if port == "" {
			port = "5432"
		}
		sslmode := cfg.GetString("postgres.sslmode")
		if sslmode == "" {
			sslmode = "disable"
		}
		masterDSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	slaves := splitList(cfg.GetString("postgres.slave_dsns"))

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("postgres.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("postgres.max_idle_conns"),
		ConnMaxLifetime: time.Duration(cfg.GetInt("postgres.conn_max_lifetime_seconds")) * time.Second,
	}
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 5
	}

	log.Debug().Int("slaves", len(slaves)).Msg("postgres config built")
	return masterDSN, slaves, opts, nil
}

// BuildRabbitConfig returns ok=false when no broker url is configured; the
// server then runs without publishing registration events.
func BuildRabbitConfig(cfg Getter, log *zerolog.Logger) (RabbitConfig, bool, error) {
	r := RabbitConfig{
		Url:      cfg.GetString("rabbitmq.url"),
		Exchange: cfg.GetString("rabbitmq.exchange"),
		Queue:    cfg.GetString("rabbitmq.queue"),
	}
	if r.Url == "" {
		log.Info().Msg("RabbitMQ url is not set, registration events are disabled")
		return r, false, nil
	}
	if r.Exchange == "" {
		r.Exchange = "registrations"
	}
	if r.Queue == "" {
		r.Queue = "registrations.created"
	}
	if err := validator.Validate(context.Background(), r); err != nil {
		return r, false, fmt.Errorf("invalid rabbitmq config: %w", err)
	}
	return r, true, nil
}

func BuildMailConfig(cfg Getter) mailer.Config {
	return mailer.Config{
		Host:      cfg.GetString("mail.host"),
		Port:      firstNonEmpty(cfg.GetString("mail.port"), "587"),
		Username:  cfg.GetString("mail.username"),
		Password:  firstNonEmpty(cfg.GetString("mail.password"), os.Getenv("SMTP_PASSWORD")),
		From:      cfg.GetString("mail.from"),
		Organizer: cfg.GetString("mail.organizer"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
