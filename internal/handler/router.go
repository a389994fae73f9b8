package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gwonyoung/aibuup/internal/middleware"
)

// RouterDeps는 NewRouter에 필요한 의존 관계를 모은 구조체.
type RouterDeps struct {
	// 미들웨어 의존
	IdentityResolver  middleware.IdentityResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	Logger            *slog.Logger
	HTTPMetrics       middleware.HTTPStatusRecorder

	// 인증
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 게시판
	BoardService BoardServiceInterface
	BoardMetrics BoardMetricsRecorder

	// 뉴스
	NewsService NewsServiceInterface

	// 문의
	ContactService ContactServiceInterface

	// 인터뷰
	InterviewService InterviewServiceInterface
	GenerateMetrics  GenerateMetricsRecorder

	// 관리 콘솔
	AdminService AdminServiceInterface
}

// NewRouter는 전체 API 엔드포인트의 라우팅과 미들웨어 체인을 구성한 chi.Router를 반환한다.
//
// 미들웨어 스택의 실행 순서:
//
//	CORS → SecurityHeaders → Recovery → Logging → Metrics → Session → CSRF → RateLimit(General)
//
// Session 미들웨어는 미로그인 요청도 통과시키며, 로그인이 필요한 경로는
// RequireAuth로 감싼다. 상태 변경 경로에는 쓰기 전용 레이트 리밋을 추가한다.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}
	r.Use(middleware.NewSessionMiddleware(deps.IdentityResolver))
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
	r.Use(deps.RateLimiter.GeneralMiddleware())

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	postHandler := NewPostHandler(deps.BoardService, deps.BoardMetrics)
	newsHandler := NewNewsHandler(deps.NewsService)
	contactHandler := NewContactHandler(deps.ContactService)
	interviewHandler := NewInterviewHandler(deps.InterviewService, deps.GenerateMetrics)
	adminHandler := NewAdminHandler(deps.AdminService)

	writeLimiter := deps.RateLimiter.WriteMiddleware()

	// CSRF 토큰 발급
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// 인증
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)
		r.Post("/signout", authHandler.Signout)
		// 세션 부트스트랩. 미로그인에는 null 쌍을 반환한다
		r.Get("/me", authHandler.Me)
	})

	// 게시판: 조회는 공개, 작성류는 로그인 필수
	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", postHandler.ListPosts)
		r.Get("/{id}", postHandler.GetPost)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.With(writeLimiter).Post("/", postHandler.CreatePost)
			r.Post("/{id}/like", postHandler.LikePost)
			r.With(writeLimiter).Post("/{id}/comments", postHandler.CreateComment)
		})
	})
	r.With(middleware.RequireAuth).Delete("/api/comments/{id}", postHandler.DeleteComment)

	// 뉴스: 공개 조회
	r.Route("/api/news", func(r chi.Router) {
		r.Get("/", newsHandler.ListNews)
		r.Get("/{id}", newsHandler.GetNews)
	})

	// 문의: 미로그인도 접수 가능, 쓰기 레이트 리밋만 적용
	r.With(writeLimiter).Post("/api/contact", contactHandler.Submit)

	// 가이드형 인터뷰: 로그인 필수
	r.Route("/api/interview", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post("/scam/start", interviewHandler.StartScamReport)
		r.Post("/scam/answer", interviewHandler.AnswerScamReport)
		r.Post("/assisted/start", interviewHandler.StartAssisted)
		r.Post("/assisted/message", interviewHandler.SendAssisted)
		r.Post("/assisted/finalize", interviewHandler.FinalizeAssisted)
	})

	// 관리 콘솔: 로그인 필수, 운영자 검증은 서비스 계층에서 수행
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Delete("/posts/{id}", adminHandler.DeletePost)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", adminHandler.ListProfiles)
			r.Put("/{id}/role", adminHandler.UpdateProfileRole)
			r.Delete("/{id}", adminHandler.DeleteProfile)
		})

		r.Route("/news", func(r chi.Router) {
			r.Post("/", adminHandler.CreateNews)
			r.Delete("/{id}", adminHandler.DeleteNews)
		})

		r.Route("/news-sources", func(r chi.Router) {
			r.Get("/", adminHandler.ListNewsSources)
			r.Post("/", adminHandler.AddNewsSource)
			r.Delete("/{id}", adminHandler.DeleteNewsSource)
		})

		r.Post("/seed", adminHandler.SeedSampleData)
	})

	return r
}
