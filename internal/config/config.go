package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	AdminToken         string
	LogLevel           logging.Level

	DBURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string
	RedisTimeout  time.Duration

	ProviderEnabled              bool
	ProviderBaseURL              string
	ProviderToken                string
	ProviderTimeout              time.Duration
	ProviderMaxRetries           int
	ProviderCircuitEnabled       bool
	ProviderCircuitFailureCount  int
	ProviderCircuitOpenTimeout   time.Duration
	ProviderCircuitHalfOpenMaxRq int
	ProviderLeagueID             int64
	ProviderSeasonID             int64

	SeasonStart time.Time

	SchedulerEnabled       bool
	SchedulerSlateInterval time.Duration
	SchedulerPollInterval  time.Duration
	MatchDuration          time.Duration
	SettlementGraceDelay   time.Duration

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	redisDB, err := getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	redisTimeout, err := time.ParseDuration(getEnv("REDIS_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_TIMEOUT: %w", err)
	}

	providerEnabled, err := strconv.ParseBool(getEnv("SPORTMONKS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_ENABLED: %w", err)
	}
	providerToken := strings.TrimSpace(getEnv("SPORTMONKS_TOKEN", ""))
	if providerEnabled && providerToken == "" {
		return Config{}, fmt.Errorf("SPORTMONKS_TOKEN is required when SPORTMONKS_ENABLED=true")
	}
	providerTimeout, err := time.ParseDuration(getEnv("SPORTMONKS_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_TIMEOUT: %w", err)
	}
	if providerTimeout <= 0 {
		return Config{}, fmt.Errorf("SPORTMONKS_TIMEOUT must be > 0")
	}
	providerMaxRetries, err := getEnvAsInt("SPORTMONKS_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_MAX_RETRIES: %w", err)
	}
	if providerMaxRetries < 0 {
		return Config{}, fmt.Errorf("SPORTMONKS_MAX_RETRIES must be >= 0")
	}
	providerCircuitEnabled, err := strconv.ParseBool(getEnv("SPORTMONKS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_CIRCUIT_ENABLED: %w", err)
	}
	providerCircuitFailureCount, err := getEnvAsInt("SPORTMONKS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if providerCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SPORTMONKS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	providerCircuitOpenTimeout, err := time.ParseDuration(getEnv("SPORTMONKS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	providerCircuitHalfOpenMaxRq, err := getEnvAsInt("SPORTMONKS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	providerLeagueID, err := getEnvAsInt64("SPORTMONKS_LEAGUE_ID", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_LEAGUE_ID: %w", err)
	}
	providerSeasonID, err := getEnvAsInt64("SPORTMONKS_SEASON_ID", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_SEASON_ID: %w", err)
	}
	if providerEnabled && providerSeasonID == 0 {
		return Config{}, fmt.Errorf("SPORTMONKS_SEASON_ID is required when SPORTMONKS_ENABLED=true")
	}

	seasonStart, err := time.Parse("2006-01-02", getEnv("SEASON_START", "2026-07-25"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_START: %w", err)
	}

	schedulerEnabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_ENABLED: %w", err)
	}
	slateInterval, err := time.ParseDuration(getEnv("SCHEDULER_SLATE_INTERVAL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_SLATE_INTERVAL: %w", err)
	}
	if slateInterval <= 0 {
		return Config{}, fmt.Errorf("SCHEDULER_SLATE_INTERVAL must be > 0")
	}
	pollInterval, err := time.ParseDuration(getEnv("SCHEDULER_POLL_INTERVAL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_POLL_INTERVAL: %w", err)
	}
	if pollInterval <= 0 {
		return Config{}, fmt.Errorf("SCHEDULER_POLL_INTERVAL must be > 0")
	}
	matchDuration, err := time.ParseDuration(getEnv("MATCH_DURATION", "2h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_DURATION: %w", err)
	}
	if matchDuration <= 0 {
		return Config{}, fmt.Errorf("MATCH_DURATION must be > 0")
	}
	graceDelay, err := time.ParseDuration(getEnv("SETTLEMENT_GRACE_DELAY", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SETTLEMENT_GRACE_DELAY: %w", err)
	}
	if graceDelay <= 0 {
		return Config{}, fmt.Errorf("SETTLEMENT_GRACE_DELAY must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	serviceName := strings.TrimSpace(getEnv("SERVICE_NAME", "quiniela"))

	return Config{
		AppEnv:             appEnv,
		ServiceName:        serviceName,
		ServiceVersion:     strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AdminToken:         strings.TrimSpace(getEnv("ADMIN_TOKEN", "")),
		LogLevel:           parseLogLevel(getEnv("LOG_LEVEL", "info")),

		DBURL: strings.TrimSpace(getEnv("DB_URL", "")),

		RedisAddr:     strings.TrimSpace(getEnv("REDIS_ADDR", "")),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		RedisChannel:  strings.TrimSpace(getEnv("REDIS_CHANNEL", "quiniela.events")),
		RedisTimeout:  redisTimeout,

		ProviderEnabled:              providerEnabled,
		ProviderBaseURL:              strings.TrimSpace(getEnv("SPORTMONKS_BASE_URL", "https://api.sportmonks.com/v3/football")),
		ProviderToken:                providerToken,
		ProviderTimeout:              providerTimeout,
		ProviderMaxRetries:           providerMaxRetries,
		ProviderCircuitEnabled:       providerCircuitEnabled,
		ProviderCircuitFailureCount:  providerCircuitFailureCount,
		ProviderCircuitOpenTimeout:   providerCircuitOpenTimeout,
		ProviderCircuitHalfOpenMaxRq: providerCircuitHalfOpenMaxRq,
		ProviderLeagueID:             providerLeagueID,
		ProviderSeasonID:             providerSeasonID,

		SeasonStart: seasonStart,

		SchedulerEnabled:       schedulerEnabled,
		SchedulerSlateInterval: slateInterval,
		SchedulerPollInterval:  pollInterval,
		MatchDuration:          matchDuration,
		SettlementGraceDelay:   graceDelay,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName)),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,
	}, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.Atoi(value)
}

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.ParseInt(value, 10, 64)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
