// Package news는 AI 소식 콘텐츠의 조회와 관리를 제공한다.
package news

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gwonyoung/aibuup/internal/model"
	"github.com/gwonyoung/aibuup/internal/repository"
)

// Service는 뉴스 비즈니스 로직을 제공한다.
type Service struct {
	newsRepo repository.NewsRepository
}

// NewService는 Service를 생성한다.
func NewService(newsRepo repository.NewsRepository) *Service {
	return &Service{newsRepo: newsRepo}
}

// List는 뉴스 목록을 등록일 내림차순으로 반환한다.
func (s *Service) List(ctx context.Context) ([]*model.News, error) {
	return s.newsRepo.List(ctx)
}

// Get은 지정 ID의 뉴스를 조회한다.
func (s *Service) Get(ctx context.Context, id string) (*model.News, error) {
	news, err := s.newsRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if news == nil {
		return nil, model.NewNewsNotFoundError(id)
	}
	return news, nil
}

// CreateInput은 뉴스 등록 입력값.
type CreateInput struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Date     string `json:"date"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// Create는 뉴스를 등록한다.
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.News, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, model.NewValidationError("제목을 입력해주세요.")
	}
	if !model.IsValidNewsCategory(input.Category) {
		return nil, model.NewValidationError("올바르지 않은 뉴스 카테고리입니다: " + input.Category)
	}

	date := input.Date
	if date == "" {
		date = time.Now().Format("2006.01.02")
	}

	news := &model.News{
		ID:        uuid.New().String(),
		Title:     title,
		Category:  input.Category,
		Date:      date,
		Summary:   input.Summary,
		Content:   input.Content,
		ImageURL:  input.ImageURL,
		CreatedAt: time.Now(),
	}
	if err := s.newsRepo.Create(ctx, news); err != nil {
		return nil, err
	}

	slog.Info("news created",
		slog.String("news_id", news.ID),
		slog.String("category", news.Category),
	)
	return news, nil
}

// Delete는 뉴스를 삭제한다.
func (s *Service) Delete(ctx context.Context, id string) error {
	news, err := s.newsRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if news == nil {
		return model.NewNewsNotFoundError(id)
	}
	return s.newsRepo.DeleteByID(ctx, id)
}
