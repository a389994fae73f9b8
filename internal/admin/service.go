// Package admin은 운영자 콘솔 기능을 제공한다.
// 모든 조작은 ADMIN 등급 검증을 서버 측에서 수행한다.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gwonyoung/aibuup/internal/localstore"
	"github.com/gwonyoung/aibuup/internal/model"
	"github.com/gwonyoung/aibuup/internal/news"
	"github.com/gwonyoung/aibuup/internal/repository"
	"github.com/gwonyoung/aibuup/internal/security"
)

// Service는 운영자 콘솔의 비즈니스 로직을 제공한다.
type Service struct {
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
	sourceRepo  repository.NewsSourceRepository
	newsService *news.Service
	ssrfGuard   security.SSRFGuardService
}

// NewService는 Service를 생성한다.
func NewService(
	postRepo repository.PostRepository,
	profileRepo repository.ProfileRepository,
	sourceRepo repository.NewsSourceRepository,
	newsService *news.Service,
	ssrfGuard security.SSRFGuardService,
) *Service {
	return &Service{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		sourceRepo:  sourceRepo,
		newsService: newsService,
		ssrfGuard:   ssrfGuard,
	}
}

// requireAdmin은 조작 주체가 ADMIN 등급인지 검증한다.
func requireAdmin(actor *model.Profile) error {
	if actor == nil || actor.Role != model.RoleAdmin {
		return model.NewAdminOnlyError()
	}
	return nil
}

// DeletePost는 게시글을 삭제한다.
func (s *Service) DeletePost(ctx context.Context, actor *model.Profile, postID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return model.NewPostNotFoundError(postID)
	}
	if err := s.postRepo.DeleteByID(ctx, postID); err != nil {
		return err
	}
	slog.Info("post deleted by admin",
		slog.String("post_id", postID),
		slog.String("admin_id", actor.ID),
	)
	return nil
}

// ListProfiles는 전체 회원 목록을 가입일 내림차순으로 반환한다.
func (s *Service) ListProfiles(ctx context.Context, actor *model.Profile) ([]*model.Profile, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.profileRepo.List(ctx)
}

// UpdateProfileRole은 회원의 등급을 변경한다.
func (s *Service) UpdateProfileRole(ctx context.Context, actor *model.Profile, targetID string, role model.Role) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if !role.Valid() {
		return model.NewValidationError(fmt.Sprintf("정의되지 않은 등급입니다: %s", role))
	}
	target, err := s.profileRepo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return model.NewProfileNotFoundError()
	}
	if err := s.profileRepo.UpdateRole(ctx, targetID, role); err != nil {
		return err
	}
	slog.Info("profile role updated",
		slog.String("profile_id", targetID),
		slog.String("role", string(role)),
		slog.String("admin_id", actor.ID),
	)
	return nil
}

// DeleteProfile은 회원을 강제 탈퇴시킨다.
// 자기 자신의 삭제는 허용하지 않는다.
func (s *Service) DeleteProfile(ctx context.Context, actor *model.Profile, targetID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if targetID == actor.ID {
		return model.NewSelfWithdrawalError()
	}
	target, err := s.profileRepo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return model.NewProfileNotFoundError()
	}
	if err := s.profileRepo.DeleteByID(ctx, targetID); err != nil {
		return err
	}
	slog.Info("profile deleted by admin",
		slog.String("profile_id", targetID),
		slog.String("admin_id", actor.ID),
	)
	return nil
}

// CreateNews는 뉴스를 등록한다.
func (s *Service) CreateNews(ctx context.Context, actor *model.Profile, input news.CreateInput) (*model.News, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.newsService.Create(ctx, input)
}

// DeleteNews는 뉴스를 삭제한다.
func (s *Service) DeleteNews(ctx context.Context, actor *model.Profile, newsID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.newsService.Delete(ctx, newsID)
}

// ListNewsSources는 등록된 뉴스 수집 소스 목록을 반환한다.
func (s *Service) ListNewsSources(ctx context.Context, actor *model.Profile) ([]*model.NewsSource, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.sourceRepo.List(ctx)
}

// AddNewsSource는 뉴스 수집 소스를 등록한다.
// 등록 전에 URL의 안전성을 정적 검증한다.
func (s *Service) AddNewsSource(ctx context.Context, actor *model.Profile, rawURL, category string) (*model.NewsSource, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !model.IsValidNewsCategory(category) {
		return nil, model.NewValidationError("올바르지 않은 뉴스 카테고리입니다: " + category)
	}
	if err := s.ssrfGuard.ValidateURL(rawURL); err != nil {
		slog.Warn("news source URL rejected",
			slog.String("url", rawURL),
			slog.String("error", err.Error()),
		)
		return nil, model.NewSSRFBlockedError()
	}

	source := &model.NewsSource{
		ID:        uuid.New().String(),
		URL:       rawURL,
		Category:  category,
		CreatedAt: time.Now(),
	}
	if err := s.sourceRepo.Create(ctx, source); err != nil {
		return nil, err
	}
	slog.Info("news source added",
		slog.String("source_id", source.ID),
		slog.String("url", rawURL),
	)
	return source, nil
}

// DeleteNewsSource는 뉴스 수집 소스를 삭제한다.
func (s *Service) DeleteNewsSource(ctx context.Context, actor *model.Profile, sourceID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.sourceRepo.DeleteByID(ctx, sourceID)
}

// SeedSampleData는 내장 샘플 게시글을 seed- 접두사 ID로 게시판에 투입한다.
// 운영 환경의 시연용 초기 데이터 구성에 사용한다.
func (s *Service) SeedSampleData(ctx context.Context, actor *model.Profile) (int, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}

	now := time.Now()
	inserted := 0
	for _, sample := range localstore.SamplePosts(now) {
		post := *sample
		post.ID = "seed-" + uuid.New().String()
		post.UserID = actor.ID
		if err := s.postRepo.Create(ctx, &post); err != nil {
			return inserted, err
		}
		inserted++
	}

	slog.Info("sample data seeded",
		slog.Int("count", inserted),
		slog.String("admin_id", actor.ID),
	)
	return inserted, nil
}
