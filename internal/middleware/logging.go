package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder는 http.ResponseWriter를 감싸 상태 코드를 기록한다.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader는 상태 코드를 기록한 뒤 위임한다.
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write는 데이터를 기록한다. WriteHeader가 호출되지 않았다면 200을 기록한다.
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// NewLoggingMiddleware는 요청의 JSON 구조화 로그를 출력하는 미들웨어를 반환한다.
// 로그에는 method, path, status, duration_ms, user_id(로그인한 경우)를 포함한다.
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			durationMs := float64(duration.Nanoseconds()) / float64(time.Millisecond)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", durationMs),
			}

			// 로그인 사용자라면 사용자 ID를 추가
			if session, _, ok := IdentityFromContext(r.Context()); ok {
				attrs = append(attrs, slog.String("user_id", session.UserID))
			}

			// 상태 코드에 따라 로그 레벨을 조정
			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}

			// slog.Attr를 any 슬라이스로 변환
			args := make([]any, len(attrs))
			for i, attr := range attrs {
				args[i] = attr
			}

			logger.Log(r.Context(), level, "http_request", args...)
		})
	}
}
