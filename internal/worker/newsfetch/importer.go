// Package newsfetch는 등록된 RSS 소스에서 뉴스 초안을 수집하는
// 백그라운드 워커를 제공한다. 스케줄링, SSRF 방지 페치,
// HTML 정화, 표지 이미지 추출, 제목 중복 제거를 포함한다.
package newsfetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/gwonyoung/aibuup/internal/model"
	"github.com/gwonyoung/aibuup/internal/repository"
)

// SSRFValidator는 SSRF 검증 인터페이스.
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// Sanitizer는 HTML 정화 인터페이스.
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

// Recorder는 수집 메트릭 기록의 인터페이스.
// metrics.MetricsCollector의 부분집합으로 정의한다.
type Recorder interface {
	RecordNewsImported(count int)
	RecordNewsImportFailure(reason string)
}

// Importer는 수집 소스의 HTTP 페치와 뉴스 초안 생성을 수행한다.
// gofeed로 파싱하고, 본문은 정화 후 저장하며, 동일 제목 뉴스는 건너뛴다.
type Importer struct {
	sourceRepo  repository.NewsSourceRepository
	newsRepo    repository.NewsRepository
	ssrfGuard   SSRFValidator
	sanitizer   Sanitizer
	metrics     Recorder
	logger      *slog.Logger
	timeout     time.Duration
	maxBodySize int64
	maxItems    int

	mu     sync.Mutex
	states map[string]*sourceState
}

// NewImporter는 Importer의 새 인스턴스를 생성한다.
// maxItems가 0 이하이면 소스당 기본 5건을 수집한다.
func NewImporter(
	sourceRepo repository.NewsSourceRepository,
	newsRepo repository.NewsRepository,
	ssrfGuard SSRFValidator,
	sanitizer Sanitizer,
	metrics Recorder,
	logger *slog.Logger,
	timeout time.Duration,
	maxBodySize int64,
	maxItems int,
) *Importer {
	if maxItems <= 0 {
		maxItems = 5
	}
	return &Importer{
		sourceRepo:  sourceRepo,
		newsRepo:    newsRepo,
		ssrfGuard:   ssrfGuard,
		sanitizer:   sanitizer,
		metrics:     metrics,
		logger:      logger,
		timeout:     timeout,
		maxBodySize: maxBodySize,
		maxItems:    maxItems,
		states:      make(map[string]*sourceState),
	}
}

// Start는 지정 간격의 티커로 수집 사이클을 반복 실행한다.
// 컨텍스트가 취소될 때까지 계속된다.
func (im *Importer) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	im.logger.Info("뉴스 수집 워커를 시작했습니다",
		slog.Duration("interval", interval),
	)

	// 기동 직후 1회 실행
	if err := im.RunOnce(ctx); err != nil {
		im.logger.Error("뉴스 수집 사이클 실행에 실패했습니다",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			im.logger.Info("뉴스 수집 워커를 정지했습니다")
			return
		case <-ticker.C:
			if err := im.RunOnce(ctx); err != nil {
				im.logger.Error("뉴스 수집 사이클 실행에 실패했습니다",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce는 등록된 소스 전체를 1회 순회하며 뉴스 초안을 수집한다.
// 백오프 중이거나 중단된 소스는 건너뛴다.
func (im *Importer) RunOnce(ctx context.Context) error {
	start := time.Now()

	sources, err := im.sourceRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list news sources: %w", err)
	}

	if len(sources) == 0 {
		im.logger.Info("수집 대상 소스가 없습니다")
		return nil
	}

	total := 0
	for _, source := range sources {
		state := im.stateFor(source.ID)
		if !state.due(time.Now()) {
			continue
		}

		imported, err := im.importSource(ctx, source, state)
		if err != nil {
			im.logger.Error("소스 수집에 실패했습니다",
				slog.String("source_id", source.ID),
				slog.String("url", source.URL),
				slog.String("error", err.Error()),
			)
			continue
		}
		total += imported
	}

	if total > 0 {
		im.metrics.RecordNewsImported(total)
	}

	duration := time.Since(start)
	im.logger.Info("뉴스 수집 사이클이 완료되었습니다",
		slog.Int("source_count", len(sources)),
		slog.Int("imported", total),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// stateFor는 소스의 실패 이력 상태를 취득 또는 생성한다.
func (im *Importer) stateFor(sourceID string) *sourceState {
	im.mu.Lock()
	defer im.mu.Unlock()

	state, ok := im.states[sourceID]
	if !ok {
		state = &sourceState{}
		im.states[sourceID] = state
	}
	return state
}

// importSource는 단일 소스를 페치해 뉴스 초안을 등록하고 등록 건수를 반환한다.
func (im *Importer) importSource(ctx context.Context, source *model.NewsSource, state *sourceState) (int, error) {
	// SSRF 검증: 등록 후 DNS가 내부로 바뀌었을 수 있으므로 매 수집마다 확인한다
	if err := im.ssrfGuard.ValidateURL(source.URL); err != nil {
		state.applyStop()
		im.metrics.RecordNewsImportFailure("ssrf_blocked")
		return 0, fmt.Errorf("SSRF validation failed: %w", err)
	}

	client := im.ssrfGuard.NewSafeClient(im.timeout, im.maxBodySize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "AiBuUp/1.0 News Importer")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		state.applyBackoff(time.Now())
		im.metrics.RecordNewsImportFailure("fetch_error")
		return 0, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	switch ClassifyHTTPStatus(resp.StatusCode) {
	case FetchResultOK:
		// 계속 진행
	case FetchResultNotModified:
		state.applySuccess()
		return 0, nil
	case FetchResultStop:
		state.applyStop()
		im.metrics.RecordNewsImportFailure("http_stop")
		im.logger.Warn("소스 수집을 중단합니다",
			slog.String("source_id", source.ID),
			slog.Int("http_status", resp.StatusCode),
		)
		return 0, nil
	default:
		state.applyBackoff(time.Now())
		im.metrics.RecordNewsImportFailure("http_error")
		im.logger.Warn("소스 수집에 백오프를 적용합니다",
			slog.String("source_id", source.ID),
			slog.Int("http_status", resp.StatusCode),
			slog.Int("consecutive_errors", state.consecutiveErrors),
		)
		return 0, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, im.maxBodySize))
	if err != nil {
		state.applyBackoff(time.Now())
		im.metrics.RecordNewsImportFailure("read_error")
		return 0, fmt.Errorf("failed to read response body: %w", err)
	}

	parser := gofeed.NewParser()
	parsedFeed, err := parser.ParseString(string(body))
	if err != nil {
		state.applyBackoff(time.Now())
		im.metrics.RecordNewsImportFailure("parse_error")
		return 0, fmt.Errorf("failed to parse feed: %w", err)
	}

	imported := 0
	for i, item := range parsedFeed.Items {
		if i >= im.maxItems {
			break
		}
		if item == nil || item.Title == "" {
			continue
		}

		exists, err := im.newsRepo.ExistsByTitle(ctx, item.Title)
		if err != nil {
			return imported, fmt.Errorf("failed to check duplicate title: %w", err)
		}
		if exists {
			continue
		}

		news := im.buildNews(source, item)
		if err := im.newsRepo.Create(ctx, news); err != nil {
			return imported, fmt.Errorf("failed to create news: %w", err)
		}
		imported++
	}

	state.applySuccess()

	now := time.Now()
	if err := im.sourceRepo.UpdateLastFetchedAt(ctx, source.ID, now); err != nil {
		im.logger.Error("소스의 마지막 수집 시각 갱신에 실패했습니다",
			slog.String("source_id", source.ID),
			slog.String("error", err.Error()),
		)
	}

	if imported > 0 {
		im.logger.Info("소스 수집이 완료되었습니다",
			slog.String("source_id", source.ID),
			slog.String("url", source.URL),
			slog.Int("imported", imported),
		)
	}

	return imported, nil
}

// buildNews는 파싱된 기사에서 뉴스 초안을 만든다.
func (im *Importer) buildNews(source *model.NewsSource, item *gofeed.Item) *model.News {
	rawContent := item.Content
	if rawContent == "" {
		rawContent = item.Description
	}
	content := im.sanitizer.Sanitize(rawContent)

	// 표지 이미지: 본문에서 추출하고, 없으면 피드의 이미지 정보를 사용
	imageURL := ExtractCoverImage(rawContent)
	if imageURL == "" && item.Image != nil {
		imageURL = item.Image.URL
	}

	date := time.Now().Format("2006.01.02")
	if item.PublishedParsed != nil {
		date = item.PublishedParsed.Format("2006.01.02")
	}

	return &model.News{
		ID:        uuid.New().String(),
		Title:     item.Title,
		Category:  source.Category,
		Date:      date,
		Summary:   Summarize(item.Description, 160),
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	}
}
