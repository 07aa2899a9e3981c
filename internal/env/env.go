package env

import (
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"issuebridge/internal/logger"

	"github.com/joho/godotenv"
)

// actual environment variables
var MONGO_URI string
var MONGO_DATABASE string
var REDIS_ADDR string
var REDIS_DB int
var JWT_SECRET []byte
var GITHUB_WEBHOOK_SECRET string
var PAGERDUTY_ROUTING_KEY string
var PAGERDUTY_EVENTS_URL string
var PAGERDUTY_TIMEOUT time.Duration
var TRIGGER_ACTION string
var ALERT_SEVERITY string
var DELIVERY_TTL time.Duration
var AUDIT_TIMEZONE string
var PREFORK bool

// this is required
var VERSION string

const (
	defaultMongoDatabase = "issuebridge"
	defaultRedisAddr     = "127.0.0.1:6379"
	defaultEventsURL     = "https://events.pagerduty.com/v2/enqueue"
	defaultTriggerAction = "trigger"
	defaultSeverity      = "critical"
	defaultTimezone      = "UTC"
	defaultEmitTimeout   = 10 * time.Second
	defaultDeliveryTTL   = 24 * time.Hour
)

func Init(envRoot string, appVersion string) {
	loadEnv(envRoot)
	loadVersion(appVersion)

	PREFORK, _ = strconv.ParseBool(os.Getenv("PREFORK"))
	MONGO_URI = os.Getenv("MONGO_URI")
	MONGO_DATABASE = stringOr("MONGO_DATABASE", defaultMongoDatabase)
	REDIS_ADDR = stringOr("REDIS_ADDR", defaultRedisAddr)
	REDIS_DB = intOr("REDIS_DB", 0)
	JWT_SECRET = []byte(os.Getenv("JWT_SECRET"))
	GITHUB_WEBHOOK_SECRET = strings.TrimSpace(os.Getenv("GITHUB_WEBHOOK_SECRET"))
	PAGERDUTY_ROUTING_KEY = strings.TrimSpace(os.Getenv("PAGERDUTY_ROUTING_KEY"))
	PAGERDUTY_EVENTS_URL = stringOr("PAGERDUTY_EVENTS_URL", defaultEventsURL)
	PAGERDUTY_TIMEOUT = durationOr("PAGERDUTY_TIMEOUT", defaultEmitTimeout)
	TRIGGER_ACTION = stringOr("TRIGGER_ACTION", defaultTriggerAction)
	ALERT_SEVERITY = stringOr("ALERT_SEVERITY", defaultSeverity)
	DELIVERY_TTL = durationOr("DELIVERY_TTL", defaultDeliveryTTL)
	AUDIT_TIMEZONE = stringOr("AUDIT_TIMEZONE", defaultTimezone)
}

func loadEnv(envRoot string) {
	if envRoot == "" {
		envRoot = repoRoot()
	}

	path := path.Join(envRoot, ".env")
	if err := godotenv.Overload(path); err != nil {
		// Deployments may inject the environment directly.
		logger.Warn("env file not loaded", "path", path, "error", err)
	}
}

func loadVersion(appVersion string) {
	if appVersion != "" {
		VERSION = appVersion
		return
	}

	data, err := os.ReadFile(filepath.Join(repoRoot(), "VERSION"))
	if err != nil {
		logger.Warn("version file not readable", "error", err)
		VERSION = "unknown"
		return
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed != "" {
		VERSION = trimmed
	} else {
		VERSION = "unknown"
	}
}

func stringOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Warn("invalid duration, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return d
}

func repoRoot() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "../..")
}
