package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gwonyoung/aibuup/internal/middleware"
	"github.com/gwonyoung/aibuup/internal/model"
)

const sessionCookieName = "session_id"

// AuthServiceInterface는 인증 핸들러가 필요로 하는 서비스 인터페이스.
type AuthServiceInterface interface {
	// Signup은 계정과 프로필을 생성하고 세션을 발급한다.
	Signup(ctx context.Context, email, password, nickname string) (*model.Session, *model.Profile, error)
	// Signin은 자격 증명을 검증하고 세션을 발급한다.
	Signin(ctx context.Context, email, password string) (*model.Session, *model.Profile, error)
	// Signout은 세션을 파기한다.
	Signout(ctx context.Context, sessionID string) error
}

// AuthHandlerConfig는 인증 핸들러의 설정.
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // 세션 쿠키의 유효 기간(초)
	// DemoMode가 true이면 회원가입/로그인을 거부한다.
	// 데모 모드에서는 데모 운영자 계정으로 자동 로그인된다.
	DemoMode bool
}

// AuthHandler는 회원가입, 로그인, 세션 부트스트랩의 HTTP 핸들러.
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler는 AuthHandler를 생성한다.
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse는 세션 정보의 API 응답.
// 세션 식별자 자체는 HttpOnly 쿠키로만 전달한다.
type sessionResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at"`
}

// profileResponse는 회원 정보의 API 응답.
type profileResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// bootstrapResponse는 세션 부트스트랩 응답. 미로그인 시 둘 다 null이다.
type bootstrapResponse struct {
	Session *sessionResponse `json:"session"`
	Profile *profileResponse `json:"profile"`
}

// Signup은 회원가입을 처리하고 세션 쿠키를 발급한다.
// POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if h.config.DemoMode {
		writeAPIErrorResponse(w, http.StatusServiceUnavailable, model.NewDemoModeError())
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	session, profile, err := h.service.Signup(r.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, session.ID)
	writeJSON(w, http.StatusCreated, bootstrapResponse{
		Session: toSessionResponse(session),
		Profile: toProfileResponse(profile),
	})
}

// Signin은 로그인을 처리하고 세션 쿠키를 발급한다.
// POST /api/auth/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	if h.config.DemoMode {
		writeAPIErrorResponse(w, http.StatusServiceUnavailable, model.NewDemoModeError())
		return
	}

	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	session, profile, err := h.service.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, session.ID)
	writeJSON(w, http.StatusOK, bootstrapResponse{
		Session: toSessionResponse(session),
		Profile: toProfileResponse(profile),
	})
}

// Signout은 세션을 파기하고 쿠키를 비운다.
// POST /api/auth/signout
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		if signoutErr := h.service.Signout(r.Context(), cookie.Value); signoutErr != nil {
			// 파기 실패여도 쿠키는 비운다
			slog.Error("failed to signout", slog.String("error", signoutErr.Error()))
		}
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me는 현재 세션과 프로필을 반환한다. 미로그인 요청에는 null 쌍을 반환한다.
// 호출할 때마다 프로필을 다시 조회하므로 등급 변경 후의 새로고침에도 쓰인다.
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, profile, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, bootstrapResponse{})
		return
	}

	writeJSON(w, http.StatusOK, bootstrapResponse{
		Session: toSessionResponse(session),
		Profile: toProfileResponse(profile),
	})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func toSessionResponse(session *model.Session) *sessionResponse {
	if session == nil {
		return nil
	}
	return &sessionResponse{
		UserID:    session.UserID,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

func toProfileResponse(profile *model.Profile) *profileResponse {
	if profile == nil {
		return nil
	}
	return &profileResponse{
		ID:       profile.ID,
		Email:    profile.Email,
		Nickname: profile.Nickname,
		Role:     string(profile.Role),
	}
}
