// Package app은 애플리케이션의 초기화와 기동을 담당한다.
// 백엔드 자격 증명의 해석 결과에 따라 라이브 모드와 데모 모드를 전환한다.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/gwonyoung/aibuup/internal/admin"
	"github.com/gwonyoung/aibuup/internal/auth"
	"github.com/gwonyoung/aibuup/internal/board"
	"github.com/gwonyoung/aibuup/internal/config"
	"github.com/gwonyoung/aibuup/internal/contact"
	"github.com/gwonyoung/aibuup/internal/database"
	"github.com/gwonyoung/aibuup/internal/handler"
	"github.com/gwonyoung/aibuup/internal/identity"
	"github.com/gwonyoung/aibuup/internal/intelligence"
	"github.com/gwonyoung/aibuup/internal/interview"
	"github.com/gwonyoung/aibuup/internal/localstore"
	"github.com/gwonyoung/aibuup/internal/logger"
	"github.com/gwonyoung/aibuup/internal/metrics"
	"github.com/gwonyoung/aibuup/internal/middleware"
	"github.com/gwonyoung/aibuup/internal/model"
	"github.com/gwonyoung/aibuup/internal/news"
	"github.com/gwonyoung/aibuup/internal/repository"
	"github.com/gwonyoung/aibuup/internal/security"
	"github.com/gwonyoung/aibuup/internal/worker/cleanup"
	"github.com/gwonyoung/aibuup/internal/worker/newsfetch"
)

// newsImportMaxItems는 수집 사이클당 소스별 최대 등록 건수.
const newsImportMaxItems = 5

// Init은 애플리케이션의 초기화를 수행한다.
// JSON 구조화 로그를 설정하고 환경 변수에서 Config를 읽어 들인다.
// writer가 지정되면 로그 출력처로 해당 writer를 사용한다.
func Init(w io.Writer) (*config.Config, error) {
	// 1. 로그 초기화(설정 읽기 전에 로그를 쓸 수 있게 한다)
	logger.SetupDefault(w)

	// 2. 환경 변수에서 설정을 읽어 들인다
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run은 애플리케이션의 메인 엔트리 포인트.
// 커맨드라인 인수에서 서브커맨드를 해석해 해당 모드로 기동한다.
// args에는 os.Args[1:]을 전달한다.
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck는 경량 서브커맨드이므로 전체 초기화를 생략한다
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// resolveDatabaseURL은 접속 DSN을 결정한다.
// DATABASE_URL 직접 지정이 백엔드 자격 증명에서 파생한 DSN보다 우선한다.
// 빈 문자열은 데모 모드를 의미한다.
func resolveDatabaseURL(cfg *config.Config, res config.Resolution) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	return res.DatabaseURL()
}

// runServe는 API 서버 모드로 기동한다.
// 자격 증명이 해석되면 PostgreSQL을, 아니면 로컬 JSON 저장소를 사용해
// 전체 의존 관계를 연결하고 HTTP 서버를 기동한다.
// SIGINT 또는 SIGTERM 수신 시 그레이스풀 셧다운한다.
func runServe(cfg *config.Config) error {
	// 1. 자격 증명 해석(오버라이드 파일 → 환경 변수 순)
	override, err := config.LoadOverrideFile(cfg.OverrideFilePath)
	if err != nil {
		return fmt.Errorf("failed to load override file: %w", err)
	}
	res := config.ResolveBackend(cfg, override)
	aiKey := config.ResolveAIKey(cfg, override)
	databaseURL := resolveDatabaseURL(cfg, res)
	live := databaseURL != ""

	// 2. 저장소 초기화(라이브: PostgreSQL / 데모: 로컬 JSON 파일)
	var (
		db    *sql.DB
		store *localstore.Store

		userRepo    repository.UserRepository
		profileRepo repository.ProfileRepository
		sessionRepo repository.SessionRepository
		postRepo    repository.PostRepository
		commentRepo repository.CommentRepository
		newsRepo    repository.NewsRepository
		sourceRepo  repository.NewsSourceRepository
		contactRepo repository.ContactRepository
	)

	if live {
		db, err = database.Open(databaseURL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		slog.Info("database connection established",
			slog.String("credential_source", res.Source),
		)

		userRepo = repository.NewPostgresUserRepo(db)
		profileRepo = repository.NewPostgresProfileRepo(db)
		sessionRepo = repository.NewPostgresSessionRepo(db)
		postRepo = repository.NewPostgresPostRepo(db)
		commentRepo = repository.NewPostgresCommentRepo(db)
		newsRepo = repository.NewPostgresNewsRepo(db)
		sourceRepo = repository.NewPostgresNewsSourceRepo(db)
		contactRepo = repository.NewPostgresContactRepo(db)
	} else {
		store, err = localstore.Open(cfg.DemoStateFile)
		if err != nil {
			return fmt.Errorf("failed to open demo state: %w", err)
		}

		// 데모 사용자 기록이 없으면 운영자 등급으로 합성한다
		if session, _ := store.DemoIdentity(); session == nil {
			if err := store.SetDemoUser("데모관리자", model.RoleAdmin, "demo@aibuup.local"); err != nil {
				return fmt.Errorf("failed to seed demo user: %w", err)
			}
		}

		slog.Info("backend credentials not configured, running in demo mode",
			slog.String("state_file", cfg.DemoStateFile),
		)

		postRepo = localstore.PostStore{Store: store}
		commentRepo = localstore.CommentStore{Store: store}
		newsRepo = localstore.NewsStore{Store: store}
		sourceRepo = localstore.NewsSourceStore{Store: store}
		contactRepo = localstore.ContactStore{Store: store}
		profileRepo = localstore.ProfileStore{Store: store}
	}

	// 3. 보안 서비스와 생성 모델 클라이언트
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewContentSanitizer()

	var gen intelligence.Generator = intelligence.Disabled{}
	if aiKey != "" {
		client, err := intelligence.NewGeminiClient(context.Background(), aiKey)
		if err != nil {
			return fmt.Errorf("failed to create generative client: %w", err)
		}
		defer client.Close()
		gen = client
	} else {
		slog.Warn("generative api key not configured, interview synthesis will fall back")
	}

	// 4. 메트릭 수집기
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	// 5. 도메인 서비스
	boardService := board.NewService(postRepo, commentRepo)
	newsService := news.NewService(newsRepo)
	contactService := contact.NewService(
		contactRepo, cfg.ContactWebhookURL,
		ssrfGuard.NewSafeClient(10*time.Second, 1<<20),
	)
	interviewService := interview.NewService(gen, postRepo, interview.ServiceConfig{
		ChatModel:      cfg.AIChatModel,
		SynthesisModel: cfg.AISynthesisModel,
		FlowTTL:        cfg.FlowTTL,
	})
	adminService := admin.NewService(postRepo, profileRepo, sourceRepo, newsService, ssrfGuard)

	var (
		resolver   middleware.IdentityResolver
		authFacade handler.AuthServiceInterface
	)
	if live {
		authService := auth.NewService(userRepo, profileRepo, sessionRepo,
			auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge})
		resolver = authService
		authFacade = authService
	} else {
		// 데모 모드는 프로세스 전체가 단일 신원이므로 관찰 가능한
		// 신원 저장소를 통해 세션과 프로필 쌍을 유지한다
		idStore := identity.NewStore(profileRepo)
		defer idStore.Close()
		unsubscribe := idStore.Subscribe(func(st identity.State) {
			slog.Info("auth state changed", slog.Bool("logged_in", st.LoggedIn()))
		})
		defer unsubscribe()
		if session, _ := store.DemoIdentity(); session != nil {
			idStore.Apply(context.Background(), session)
		}

		resolver = &demoIdentityResolver{store: store, identity: idStore}
		authFacade = demoAuthService{}
	}

	// 6. 라우터 구성
	rlCfg := middleware.DefaultRateLimiterConfig()
	rlCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rlCfg.GeneralBurst = cfg.RateLimitGeneral
	rlCfg.WriteRate = rate.Limit(float64(cfg.RateLimitWrite) / 60.0)
	rlCfg.WriteBurst = cfg.RateLimitWrite
	rl := middleware.NewRateLimiter(rlCfg)
	defer rl.Stop()

	deps := &handler.RouterDeps{
		IdentityResolver:  resolver,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rl,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		Logger:      slog.Default(),
		HTTPMetrics: collector,

		AuthService: authFacade,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
			DemoMode:      !live,
		},

		BoardService: boardService,
		BoardMetrics: collector,

		NewsService:    newsService,
		ContactService: contactService,

		InterviewService: interviewService,
		GenerateMetrics:  collector,

		AdminService: adminService,
	}

	var apiHandler http.Handler = handler.NewRouter(deps)
	if !live {
		// 데모 모드는 모든 요청을 데모 계정으로 자동 로그인 처리한다
		apiHandler = demoAutoLogin(store, apiHandler)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.SetupMetricsRoute(reg))
	mux.HandleFunc("/healthz", newHealthzHandler(db))
	mux.Handle("/", apiHandler)

	// 7. 백그라운드 워커(뉴스 수집, 만료 데이터 정리)
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	importer := newsfetch.NewImporter(
		sourceRepo, newsRepo, ssrfGuard, sanitizer, collector,
		slog.Default(), cfg.FetchTimeout, cfg.FetchMaxSize, newsImportMaxItems,
	)
	go importer.Start(workerCtx, cfg.FetchInterval)

	cleanupJob := cleanup.NewCleanupJob(sessionRepo, interviewService.Flows(), slog.Default())
	go cleanupJob.Start(workerCtx, cfg.CleanupInterval)

	// 8. HTTP 서버 기동
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
			slog.Bool("demo_mode", !live),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")
	cancelWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker는 워커 모드로 기동한다.
// API 서버 없이 뉴스 수집과 만료 데이터 정리만 수행한다.
// 데모 모드에서는 워커를 분리 기동할 필요가 없으므로 라이브 설정을 필수로 한다.
func runWorker(cfg *config.Config) error {
	override, err := config.LoadOverrideFile(cfg.OverrideFilePath)
	if err != nil {
		return fmt.Errorf("failed to load override file: %w", err)
	}
	databaseURL := resolveDatabaseURL(cfg, config.ResolveBackend(cfg, override))
	if databaseURL == "" {
		return fmt.Errorf("worker mode requires backend credentials")
	}

	db, err := database.Open(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established (worker)")

	newsRepo := repository.NewPostgresNewsRepo(db)
	sourceRepo := repository.NewPostgresNewsSourceRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)

	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewContentSanitizer()

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	importer := newsfetch.NewImporter(
		sourceRepo, newsRepo, ssrfGuard, sanitizer, collector,
		slog.Default(), cfg.FetchTimeout, cfg.FetchMaxSize, newsImportMaxItems,
	)
	cleanupJob := cleanup.NewCleanupJob(sessionRepo, nil, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("fetch_interval", cfg.FetchInterval),
		slog.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	go cleanupJob.Start(ctx, cfg.CleanupInterval)

	// 뉴스 수집은 메인 goroutine에서 실행한다(블로킹)
	importer.Start(ctx, cfg.FetchInterval)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate는 데이터베이스 마이그레이션을 실행한다.
// 미적용 마이그레이션을 순서대로 모두 적용한다.
func runMigrate(cfg *config.Config) error {
	override, err := config.LoadOverrideFile(cfg.OverrideFilePath)
	if err != nil {
		return fmt.Errorf("failed to load override file: %w", err)
	}
	databaseURL := resolveDatabaseURL(cfg, config.ResolveBackend(cfg, override))
	if databaseURL == "" {
		return fmt.Errorf("migrate requires backend credentials")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(databaseURL)),
	)

	if err := database.RunMigrations(databaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck는 헬스 체크를 실행한다.
// distroless 환경의 Docker 헬스 체크용 서브커맨드.
// /healthz 엔드포인트에 HTTP 요청을 보내 결과를 반환한다.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/healthz", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// newHealthzHandler는 헬스 체크 핸들러를 반환한다.
// 라이브 모드에서는 DB 접속까지 확인한다. db는 데모 모드에서 nil.
func newHealthzHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "database unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}

// demoIdentityResolver는 세션 ID와 무관하게 데모 신원을 반환한다.
// 신원 저장소의 스냅샷을 우선하고, 프로필 조회가 끝나지 않은 동안에는
// 로컬 저장소에서 합성한 쌍으로 대신한다.
type demoIdentityResolver struct {
	store    *localstore.Store
	identity *identity.Store
}

func (r *demoIdentityResolver) CurrentIdentity(ctx context.Context, sessionID string) (*model.Session, *model.Profile, error) {
	if r.identity != nil {
		if st := r.identity.Current(); st.Session != nil && st.Profile != nil {
			return st.Session, st.Profile, nil
		}
	}
	session, profile := r.store.DemoIdentity()
	if session == nil {
		return nil, nil, model.NewUnauthorizedError()
	}
	return session, profile, nil
}

// demoAuthService는 데모 모드의 인증 파사드.
// 회원가입과 로그인은 거부하고 로그아웃은 쿠키 제거만으로 끝낸다.
type demoAuthService struct{}

func (demoAuthService) Signup(ctx context.Context, email, password, nickname string) (*model.Session, *model.Profile, error) {
	return nil, nil, model.NewDemoModeError()
}

func (demoAuthService) Signin(ctx context.Context, email, password string) (*model.Session, *model.Profile, error) {
	return nil, nil, model.NewDemoModeError()
}

func (demoAuthService) Signout(ctx context.Context, sessionID string) error {
	return nil
}

var (
	_ middleware.IdentityResolver  = (*demoIdentityResolver)(nil)
	_ handler.AuthServiceInterface = demoAuthService{}
)

// demoAutoLogin은 모든 요청 컨텍스트에 데모 신원을 주입한다.
// 세션 미들웨어는 쿠키가 없는 요청을 그대로 통과시키므로
// 주입된 신원이 유지된다.
func demoAutoLogin(store *localstore.Store, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, profile := store.DemoIdentity()
		if session != nil {
			r = r.WithContext(middleware.ContextWithIdentity(r.Context(), session, profile))
		}
		next.ServeHTTP(w, r)
	})
}

// maskDatabaseURL은 데이터베이스 URL의 자격 증명을 마스킹한다.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
