package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gwonyoung/aibuup/internal/model"
)

// --- 모의 구현 ---

type mockIdentityResolver struct {
	currentIdentityFn func(ctx context.Context, sessionID string) (*model.Session, *model.Profile, error)
}

func (m *mockIdentityResolver) CurrentIdentity(ctx context.Context, sessionID string) (*model.Session, *model.Profile, error) {
	if m.currentIdentityFn != nil {
		return m.currentIdentityFn(ctx, sessionID)
	}
	return nil, nil, nil
}

func validIdentity(userID string) (*model.Session, *model.Profile) {
	return &model.Session{
			ID:        "valid-session-id",
			UserID:    userID,
			ExpiresAt: time.Now().Add(1 * time.Hour),
		}, &model.Profile{
			ID:       userID,
			Nickname: "테스터",
			Role:     model.RoleSilver,
		}
}

// --- 테스트 ---

func TestSessionMiddleware_ValidSession_InjectsIdentity(t *testing.T) {
	resolver := &mockIdentityResolver{
		currentIdentityFn: func(ctx context.Context, sessionID string) (*model.Session, *model.Profile, error) {
			if sessionID == "valid-session-id" {
				s, p := validIdentity("user-123")
				return s, p, nil
			}
			return nil, nil, nil
		},
	}

	mw := NewSessionMiddleware(resolver)

	var capturedUserID, capturedProfileID string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, profile, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Error("expected identity in context")
		}
		capturedUserID = session.UserID
		capturedProfileID = profile.ID
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "valid-session-id"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if capturedUserID != "user-123" {
		t.Errorf("userID = %q, want %q", capturedUserID, "user-123")
	}
	// 프로필 ID와 세션 사용자 ID는 항상 일치한다
	if capturedProfileID != capturedUserID {
		t.Errorf("profile ID %q does not match session user ID %q", capturedProfileID, capturedUserID)
	}
}

func TestSessionMiddleware_NoCookie_PassesAsAnonymous(t *testing.T) {
	resolver := &mockIdentityResolver{}
	mw := NewSessionMiddleware(resolver)

	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, _, ok := IdentityFromContext(r.Context()); ok {
			t.Error("expected no identity for anonymous request")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Fatal("handler should have been called for anonymous request")
	}
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestSessionMiddleware_ExpiredSession_PassesAsAnonymous(t *testing.T) {
	resolver := &mockIdentityResolver{
		currentIdentityFn: func(ctx context.Context, sessionID string) (*model.Session, *model.Profile, error) {
			// 기한 만료는 nil로 보고된다
			return nil, nil, nil
		},
	}
	mw := NewSessionMiddleware(resolver)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := IdentityFromContext(r.Context()); ok {
			t.Error("expected no identity for expired session")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "expired-session"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestSessionMiddleware_ResolverError_PassesAsAnonymous(t *testing.T) {
	resolver := &mockIdentityResolver{
		currentIdentityFn: func(ctx context.Context, sessionID string) (*model.Session, *model.Profile, error) {
			return nil, nil, context.DeadlineExceeded
		},
	}
	mw := NewSessionMiddleware(resolver)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := IdentityFromContext(r.Context()); ok {
			t.Error("expected no identity when resolver fails")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "some-session"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestRequireAuth_NoIdentity_Returns401(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestRequireAuth_WithIdentity_CallsHandler(t *testing.T) {
	called := false
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	session, profile := validIdentity("user-456")
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req = req.WithContext(ContextWithIdentity(req.Context(), session, profile))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Fatal("handler should have been called")
	}
}

func TestIdentityFromContext_NoValue_ReturnsNotOK(t *testing.T) {
	if _, _, ok := IdentityFromContext(context.Background()); ok {
		t.Error("expected ok=false for missing identity in context")
	}
	if p := ProfileFromContext(context.Background()); p != nil {
		t.Error("expected nil profile for missing identity in context")
	}
}

func TestProfileFromContext_ValidValue_ReturnsProfile(t *testing.T) {
	session, profile := validIdentity("user-789")
	ctx := ContextWithIdentity(context.Background(), session, profile)

	got := ProfileFromContext(ctx)
	if got == nil || got.ID != "user-789" {
		t.Errorf("profile = %+v, want ID user-789", got)
	}
}
