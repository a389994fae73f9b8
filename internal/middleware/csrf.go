package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	// csrfCookieName은 CSRF 토큰을 보관하는 Cookie 이름.
	// 프런트엔드가 JavaScript로 읽을 수 있도록 HttpOnly가 아니다.
	csrfCookieName = "csrf_token"

	// csrfHeaderName은 요청 헤더에서 CSRF 토큰을 읽는 헤더 이름.
	csrfHeaderName = "X-CSRF-Token"
)

// CSRFConfig는 CSRF 미들웨어의 설정.
type CSRFConfig struct {
	CookieSecure bool
	CookieDomain string
}

// NewCSRFMiddleware는 CSRF 토큰의 발급과 검증 미들웨어를 반환한다.
// 안전한 메서드(GET, HEAD, OPTIONS)는 토큰 검증을 건너뛰고
// CSRF 토큰 Cookie를 설정한다.
// 상태 변경 메서드(POST, PUT, PATCH, DELETE)는 토큰 검증을 필수로 한다.
func NewCSRFMiddleware(config CSRFConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 안전한 메서드는 토큰 검증을 건너뛴다
			if isSafeMethod(r.Method) {
				// CSRF 토큰 Cookie가 없으면 설정한다
				ensureCSRFCookie(w, r, config)
				next.ServeHTTP(w, r)
				return
			}

			// 상태 변경 메서드: CSRF 토큰을 검증
			cookieToken, err := r.Cookie(csrfCookieName)
			if err != nil || cookieToken.Value == "" {
				slog.Warn("CSRF validation failed: missing cookie token",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}

			headerToken := r.Header.Get(csrfHeaderName)
			if headerToken == "" {
				slog.Warn("CSRF validation failed: missing header token",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}

			if cookieToken.Value != headerToken {
				slog.Warn("CSRF validation failed: token mismatch",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewCSRFTokenHandler는 CSRF 토큰 취득 엔드포인트의 핸들러를 반환한다.
// GET /api/csrf-token
// 기존 CSRF 토큰 Cookie가 있으면 그것을 반환하고 없으면 새로 발급한다.
func NewCSRFTokenHandler(config CSRFConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string

		// 기존 CSRF 토큰 Cookie를 확인
		cookie, err := r.Cookie(csrfCookieName)
		if err == nil && cookie.Value != "" {
			token = cookie.Value
		} else {
			// 새 토큰을 발급
			token, err = generateCSRFToken()
			if err != nil {
				slog.Error("failed to generate CSRF token", slog.String("error", err.Error()))
				WriteInternalServerError(w)
				return
			}

			// Cookie에 CSRF 토큰을 설정
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookieName,
				Value:    token,
				Path:     "/",
				Domain:   config.CookieDomain,
				MaxAge:   86400, // 24시간
				HttpOnly: false, // 프런트엔드에서 읽을 수 있어야 한다
				Secure:   config.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		// JSON으로 토큰을 반환
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"token": token,
		})
	})
}

// isSafeMethod는 HTTP 메서드가 안전(읽기 전용)한지 판별한다.
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// ensureCSRFCookie는 CSRF 토큰 Cookie가 없으면 설정한다.
func ensureCSRFCookie(w http.ResponseWriter, r *http.Request, config CSRFConfig) {
	_, err := r.Cookie(csrfCookieName)
	if err == nil {
		// 이미 Cookie가 설정되어 있다
		return
	}

	token, err := generateCSRFToken()
	if err != nil {
		slog.Error("failed to generate CSRF token", slog.String("error", err.Error()))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		Domain:   config.CookieDomain,
		MaxAge:   86400, // 24시간
		HttpOnly: false, // 프런트엔드에서 읽을 수 있어야 한다
		Secure:   config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// generateCSRFToken은 암호학적으로 안전한 CSRF 토큰을 생성한다.
func generateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
