package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig는 레이트 제한 설정을 보관한다.
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // API 전반의 레이트(req/sec). 120/60 = 2 req/sec
	GeneralBurst    int           // API 전반의 버스트 크기
	WriteRate       rate.Limit    // 작성 계열(게시글/댓글/문의)의 레이트(req/sec). 10/60
	WriteBurst      int           // 작성 계열의 버스트 크기
	CleanupInterval time.Duration // 만료 엔트리 정리 간격
}

// DefaultRateLimiterConfig는 기본 레이트 제한 설정을 반환한다.
// API 전반 120 req/min, 작성 계열 10 req/min.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(120.0 / 60.0), // 2 req/sec
		GeneralBurst:    120,
		WriteRate:       rate.Limit(10.0 / 60.0), // ~0.167 req/sec
		WriteBurst:      10,
		CleanupInterval: 5 * time.Minute,
	}
}

// clientLimiter는 클라이언트별 리미터와 접근 시각을 보관한다.
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter는 클라이언트별 레이트 제한을 관리한다.
// API 전반의 제한과 작성 계열 전용 제한 두 종류를 제공한다.
// 로그인 사용자는 사용자 ID, 비로그인 요청은 접속 IP로 구분한다.
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.RWMutex
	generalLimiters map[string]*clientLimiter

	writeMu       sync.RWMutex
	writeLimiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewRateLimiter는 새 RateLimiter를 생성한다.
// 백그라운드에서 만료 엔트리 정리를 시작한다.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:          config,
		generalLimiters: make(map[string]*clientLimiter),
		writeLimiters:   make(map[string]*clientLimiter),
		stopCh:          make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop은 정리용 백그라운드 고루틴을 정지한다.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// clientKey는 요청의 레이트 제한 키를 결정한다.
// 로그인 사용자는 사용자 ID, 그 외에는 접속 IP를 사용한다.
func clientKey(r *http.Request) string {
	if session, _, ok := IdentityFromContext(r.Context()); ok {
		return "user:" + session.UserID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// GeneralMiddleware는 API 전반의 레이트 제한 미들웨어를 반환한다.
// SessionMiddleware 뒤에 배치한다.
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			limiter := rl.getOrCreateGeneralLimiter(key)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GeneralRate)
				slog.Warn("rate limit exceeded",
					slog.String("client", key),
					slog.String("limit_type", "general"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WriteMiddleware는 작성 계열 전용 레이트 제한 미들웨어를 반환한다.
// API 전반의 제한과는 독립적으로 동작한다.
func (rl *RateLimiter) WriteMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			limiter := rl.getOrCreateWriteLimiter(key)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.WriteRate)
				slog.Warn("rate limit exceeded",
					slog.String("client", key),
					slog.String("limit_type", "write"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GeneralLimiterCount는 현재 관리 중인 API 전반 리미터의 엔트리 수를 반환한다.
// 테스트와 메트릭 용도.
func (rl *RateLimiter) GeneralLimiterCount() int {
	rl.generalMu.RLock()
	defer rl.generalMu.RUnlock()
	return len(rl.generalLimiters)
}

// WriteLimiterCount는 현재 관리 중인 작성 계열 리미터의 엔트리 수를 반환한다.
// 테스트와 메트릭 용도.
func (rl *RateLimiter) WriteLimiterCount() int {
	rl.writeMu.RLock()
	defer rl.writeMu.RUnlock()
	return len(rl.writeLimiters)
}

// getOrCreateGeneralLimiter는 클라이언트의 API 전반 리미터를 취득 또는 생성한다.
func (rl *RateLimiter) getOrCreateGeneralLimiter(key string) *rate.Limiter {
	rl.generalMu.RLock()
	cl, exists := rl.generalLimiters[key]
	rl.generalMu.RUnlock()

	if exists {
		rl.generalMu.Lock()
		cl.lastAccess = time.Now()
		rl.generalMu.Unlock()
		return cl.limiter
	}

	rl.generalMu.Lock()
	defer rl.generalMu.Unlock()

	// 더블 체크
	if cl, exists := rl.generalLimiters[key]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.config.GeneralRate, rl.config.GeneralBurst)
	rl.generalLimiters[key] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// getOrCreateWriteLimiter는 클라이언트의 작성 계열 리미터를 취득 또는 생성한다.
func (rl *RateLimiter) getOrCreateWriteLimiter(key string) *rate.Limiter {
	rl.writeMu.RLock()
	cl, exists := rl.writeLimiters[key]
	rl.writeMu.RUnlock()

	if exists {
		rl.writeMu.Lock()
		cl.lastAccess = time.Now()
		rl.writeMu.Unlock()
		return cl.limiter
	}

	rl.writeMu.Lock()
	defer rl.writeMu.Unlock()

	// 더블 체크
	if cl, exists := rl.writeLimiters[key]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.config.WriteRate, rl.config.WriteBurst)
	rl.writeLimiters[key] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop는 백그라운드에서 만료 엔트리를 주기적으로 정리한다.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup은 마지막 접근 시각이 CleanupInterval의 2배를 넘은 엔트리를 삭제한다.
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2

	now := time.Now()

	rl.generalMu.Lock()
	for key, cl := range rl.generalLimiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.generalLimiters, key)
		}
	}
	rl.generalMu.Unlock()

	rl.writeMu.Lock()
	for key, cl := range rl.writeLimiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.writeLimiters, key)
		}
	}
	rl.writeMu.Unlock()
}

// writeRateLimitResponse는 429 Too Many Requests 응답을 기록한다.
// Retry-After 헤더에는 토큰이 충전될 때까지의 추정 초를 설정한다.
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	// Retry-After 산출: 토큰 1개가 충전될 때까지의 초
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]string{
		"code":     "RATE_LIMIT_EXCEEDED",
		"message":  "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요.",
		"category": "system",
		"action":   "표시된 시간만큼 기다린 뒤 다시 시도해 주세요.",
	})
}
