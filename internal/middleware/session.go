// Package middleware는 HTTP 미들웨어를 제공한다.
package middleware

import (
	"context"
	"net/http"

	"github.com/gwonyoung/aibuup/internal/model"
)

const sessionCookieName = "session_id"

// contextKey는 컨텍스트에 값을 저장하기 위한 타입 안전 키.
type contextKey string

// identityContextKey는 요청 컨텍스트에 인증 정보를 저장하는 키.
var identityContextKey = contextKey("identity")

// identity는 세션과 프로필 한 쌍을 보관한다.
// 프로필 ID는 세션 사용자 ID와 항상 일치한다.
type identity struct {
	session *model.Session
	profile *model.Profile
}

// IdentityResolver는 세션 ID에서 현재 인증 정보를 해석하는 인터페이스.
// auth.Service의 부분집합으로 정의한다.
type IdentityResolver interface {
	CurrentIdentity(ctx context.Context, sessionID string) (*model.Session, *model.Profile, error)
}

// NewSessionMiddleware는 HTTP Only Cookie에서 세션을 읽어
// 인증 정보를 요청 컨텍스트에 주입하는 미들웨어를 반환한다.
// 비로그인 요청도 통과시킨다. 인증이 필수인 엔드포인트는
// RequireAuth를 뒤에 배치한다.
func NewSessionMiddleware(resolver IdentityResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			// 세션 무효, 기한 만료, 프로필 미존재는 모두 비로그인 취급
			session, profile, err := resolver.CurrentIdentity(r.Context(), cookie.Value)
			if err != nil || session == nil || profile == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ContextWithIdentity(r.Context(), session, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth는 인증 정보가 없는 요청에 401을 반환하는 미들웨어.
// SessionMiddleware 뒤에 배치한다.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := IdentityFromContext(r.Context()); !ok {
			WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext는 요청 컨텍스트에서 세션과 프로필을 꺼낸다.
// 비로그인 요청에서는 ok=false를 반환한다.
func IdentityFromContext(ctx context.Context) (*model.Session, *model.Profile, bool) {
	id, ok := ctx.Value(identityContextKey).(*identity)
	if !ok || id == nil {
		return nil, nil, false
	}
	return id.session, id.profile, true
}

// ProfileFromContext는 요청 컨텍스트에서 프로필만 꺼낸다.
// 비로그인 요청에서는 nil을 반환한다.
func ProfileFromContext(ctx context.Context) *model.Profile {
	_, profile, ok := IdentityFromContext(ctx)
	if !ok {
		return nil
	}
	return profile
}

// ContextWithIdentity는 컨텍스트에 인증 정보를 주입한다.
// 테스트나 미들웨어 이외의 컨텍스트 생성에 사용한다.
func ContextWithIdentity(ctx context.Context, session *model.Session, profile *model.Profile) context.Context {
	return context.WithValue(ctx, identityContextKey, &identity{session: session, profile: profile})
}
