package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config는 애플리케이션 전체 설정을 보유한다.
// 환경 변수에서 기동 시 1회 읽어 들여 이뮤터블로 취급한다.
type Config struct {
	// Backend (원격 데이터 서비스 자격 증명)
	BackendURL        string
	BackendServiceKey string
	DatabaseURL       string // 직접 지정 시 BackendURL에서 파생된 DSN보다 우선
	OverrideFilePath  string

	// AI (생성형 언어 API)
	AIAPIKey         string
	AIChatModel      string
	AISynthesisModel string

	// Session
	SessionMaxAge int

	// Contact
	ContactWebhookURL string

	// Demo
	DemoStateFile string

	// News fetch
	FetchTimeout       time.Duration
	FetchMaxSize       int64
	FetchMaxConcurrent int
	FetchInterval      time.Duration

	// Cleanup
	CleanupInterval time.Duration
	FlowTTL         time.Duration

	// Rate Limit
	RateLimitGeneral int
	RateLimitWrite   int

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// Load는 환경 변수에서 Config를 읽어 들인다.
// 백엔드 자격 증명은 필수가 아니며, 미설정 시 데모 모드로 기동한다.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.BackendURL = os.Getenv("BACKEND_URL")
	cfg.BackendServiceKey = os.Getenv("BACKEND_SERVICE_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.OverrideFilePath = getEnvString("CONFIG_OVERRIDE_FILE", "aibuup_override.json")

	cfg.AIAPIKey = os.Getenv("AI_API_KEY")
	cfg.AIChatModel = getEnvString("AI_CHAT_MODEL", "gemini-3-flash-preview")
	cfg.AISynthesisModel = getEnvString("AI_SYNTHESIS_MODEL", "gemini-3-pro-preview")

	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.ContactWebhookURL = getEnvString("CONTACT_WEBHOOK_URL", "")
	cfg.DemoStateFile = getEnvString("DEMO_STATE_FILE", "demo_state.json")

	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.FetchMaxSize = getEnvInt64("FETCH_MAX_SIZE", 5242880)
	cfg.FetchMaxConcurrent = getEnvInt("FETCH_MAX_CONCURRENT", 5)
	cfg.FetchInterval = getEnvDuration("FETCH_INTERVAL", 30*time.Minute)

	cfg.CleanupInterval = getEnvDuration("CLEANUP_INTERVAL", 10*time.Minute)
	cfg.FlowTTL = getEnvDuration("FLOW_TTL", 30*time.Minute)

	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitWrite = getEnvInt("RATE_LIMIT_WRITE", 10)

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
