package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lymhealth/coachcore/internal/analytics"
	"github.com/lymhealth/coachcore/internal/api"
	"github.com/lymhealth/coachcore/internal/coach"
	"github.com/lymhealth/coachcore/internal/genai"
	"github.com/lymhealth/coachcore/internal/intent"
	"github.com/lymhealth/coachcore/internal/lockfile"
	"github.com/lymhealth/coachcore/internal/store"
	"github.com/lymhealth/coachcore/internal/util"
)

// Default configuration constants.
const (
	// DefaultStateDir is the default directory for CoachCore state data.
	DefaultStateDir = "/var/lib/coachcore"
	// DefaultDBFileName is the default SQLite database filename.
	DefaultDBFileName = "coachcore.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	// The SQLite backend owns its state directory exclusively.
	if *flags.dbDriver == "sqlite3" {
		lock, err := lockfile.AcquireLock(*flags.stateDir)
		if err != nil {
			slog.Error("Failed to acquire state directory lock", "error", err)
			os.Exit(1)
		}
		defer lock.Release()
	}

	st, err := buildStore(flags)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	labeler := buildLabeler(flags)

	engine := coach.NewEngine(st, analytics.NewSlogSink(), labeler)
	server := api.NewServer(engine, api.WithAddr(*flags.apiAddr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Bootstrapping CoachCore", "addr", *flags.apiAddr, "db_driver", *flags.dbDriver, "genai_enabled", labeler != nil)
	if err := server.Run(ctx); err != nil {
		slog.Error("CoachCore failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("CoachCore exited successfully")
}

// Config holds environment configuration.
type Config struct {
	DbDriver  string
	DbDSN     string
	StateDir  string
	OpenAIKey string
	APIAddr   string
	DebugLog  bool
}

// Flags holds command line flag values.
type Flags struct {
	stateDir  *string
	dbDriver  *string
	dbDSN     *string
	openaiKey *string
	apiAddr   *string
}

// initializeLogger sets up structured logging.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("COACHCORE_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file.
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DbDriver:  os.Getenv("COACHCORE_DB_DRIVER"),
		DbDSN:     os.Getenv("DATABASE_URL"),
		StateDir:  util.EnvOrDefault("COACHCORE_STATE_DIR", DefaultStateDir),
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
		APIAddr:   os.Getenv("API_ADDR"),
	}

	if config.DbDriver == "" {
		if strings.HasPrefix(config.DbDSN, "postgres://") || strings.HasPrefix(config.DbDSN, "postgresql://") {
			config.DbDriver = "postgres"
		} else {
			config.DbDriver = "sqlite3"
		}
	}

	if config.DbDSN == "" && config.DbDriver == "sqlite3" {
		config.DbDSN = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DbDSN)
	}

	slog.Debug("environment variables loaded",
		"COACHCORE_DB_DRIVER", config.DbDriver,
		"DATABASE_URL_SET", config.DbDSN != "",
		"COACHCORE_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults.
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:  flag.String("state-dir", config.StateDir, "state directory for CoachCore data (overrides $COACHCORE_STATE_DIR)"),
		dbDriver:  flag.String("db-driver", config.DbDriver, "database driver: sqlite3, postgres, or memory (overrides $COACHCORE_DB_DRIVER)"),
		dbDSN:     flag.String("db-dsn", config.DbDSN, "database DSN (overrides $DATABASE_URL)"),
		openaiKey: flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key for the optional intent fallback (overrides $OPENAI_API_KEY)"),
		apiAddr:   flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
	}
	flag.Parse()
	if *flags.apiAddr == "" {
		*flags.apiAddr = api.DefaultAddr
	}
	return flags
}

// buildStore selects the storage backend from flags.
func buildStore(flags Flags) (store.Store, error) {
	switch *flags.dbDriver {
	case "postgres":
		return store.NewPostgresStore(store.WithDSN(*flags.dbDSN))
	case "memory":
		return store.NewInMemoryStore(), nil
	default:
		return store.NewSQLiteStore(store.WithDSN(*flags.dbDSN))
	}
}

// buildLabeler creates the optional GenAI intent labeler. Missing credentials
// leave the classifier rules-only.
func buildLabeler(flags Flags) intent.Labeler {
	if *flags.openaiKey == "" {
		slog.Info("No OpenAI API key configured, classifier runs rules-only")
		return nil
	}
	client, err := genai.NewClient(genai.WithAPIKey(*flags.openaiKey))
	if err != nil {
		slog.Warn("Failed to create GenAI client, classifier runs rules-only", "error", err)
		return nil
	}
	return client
}
