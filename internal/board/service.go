// Package board는 게시글, 댓글, 좋아요에 관한 비즈니스 로직을 제공한다.
package board

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gwonyoung/aibuup/internal/model"
	"github.com/gwonyoung/aibuup/internal/repository"
)

// Service는 게시판 비즈니스 로직을 제공한다.
type Service struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

// NewService는 Service를 생성한다.
func NewService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) *Service {
	return &Service{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// PostList는 페이지 단위 게시글 목록.
type PostList struct {
	Posts      []*model.Post `json:"posts"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

// ListPosts는 카테고리별 게시글 목록을 반환한다.
//
// category가 전체이거나 비어 있으면 고수의 방 카테고리를 제외한
// 전체 게시글을 대상으로 한다. 고수의 방 카테고리는 GOLD 등급
// 이상만 조회할 수 있다.
func (s *Service) ListPosts(ctx context.Context, category string, role model.Role, page int) (*PostList, error) {
	if category == "" {
		category = model.CategoryAll
	}
	if category != model.CategoryAll && !model.IsValidCategory(category) {
		return nil, model.NewInvalidCategoryError(category)
	}
	if model.IsVIPCategory(category) && !role.CanAccessVIP() {
		return nil, model.NewRoleRequiredError()
	}
	if page < 1 {
		page = 1
	}

	filter := category
	var exclude []string
	if category == model.CategoryAll {
		filter = ""
		exclude = model.VIPCategories
	}

	offset := (page - 1) * model.PostsPerPage
	posts, total, err := s.postRepo.List(ctx, filter, exclude, model.PostsPerPage, offset)
	if err != nil {
		return nil, err
	}

	totalPages := (total + model.PostsPerPage - 1) / model.PostsPerPage
	if totalPages < 1 {
		totalPages = 1
	}

	return &PostList{
		Posts:      posts,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// PostDetail은 게시글과 그 댓글.
type PostDetail struct {
	Post     *model.Post      `json:"post"`
	Comments []*model.Comment `json:"comments"`
}

// GetPost는 게시글과 댓글을 조회한다.
// 고수의 방 게시글은 GOLD 등급 이상만 조회할 수 있다.
func (s *Service) GetPost(ctx context.Context, id string, role model.Role) (*PostDetail, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(id)
	}
	if model.IsVIPCategory(post.Category) && !role.CanAccessVIP() {
		return nil, model.NewRoleRequiredError()
	}

	comments, err := s.commentRepo.ListByPostID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PostDetail{Post: post, Comments: comments}, nil
}

// CreatePostInput은 게시글 작성 입력값.
type CreatePostInput struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	Content   string `json:"content"`
	Tool      string `json:"tool"`
	Cost      string `json:"cost"`
	DailyTime string `json:"daily_time"`
	Result    string `json:"result"`
}

// CreatePost는 게시글을 작성한다.
// 고수의 방 카테고리는 GOLD 등급 이상만 작성할 수 있다.
func (s *Service) CreatePost(ctx context.Context, input CreatePostInput, profile *model.Profile) (*model.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, model.NewValidationError("제목을 입력해주세요.")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, model.NewValidationError("내용을 입력해주세요.")
	}
	if !model.IsValidCategory(input.Category) {
		return nil, model.NewInvalidCategoryError(input.Category)
	}
	if model.IsVIPCategory(input.Category) && !profile.Role.CanAccessVIP() {
		return nil, model.NewRoleRequiredError()
	}

	post := &model.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Author:    profile.Nickname,
		Category:  input.Category,
		Content:   input.Content,
		Tool:      input.Tool,
		Cost:      input.Cost,
		DailyTime: input.DailyTime,
		Result:    input.Result,
		UserID:    profile.ID,
		CreatedAt: time.Now(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	slog.Info("post created",
		slog.String("post_id", post.ID),
		slog.String("category", post.Category),
		slog.String("user_id", profile.ID),
	)
	return post, nil
}

// LikePost는 좋아요를 기록하고 갱신된 수를 반환한다.
// 같은 사용자의 두 번째 좋아요는 에러로 보고한다.
func (s *Service) LikePost(ctx context.Context, postID, userID string) (int, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return 0, err
	}
	if post == nil {
		return 0, model.NewPostNotFoundError(postID)
	}

	likes, alreadyLiked, err := s.postRepo.Like(ctx, postID, userID)
	if err != nil {
		return 0, err
	}
	if alreadyLiked {
		return likes, model.NewAlreadyLikedError()
	}
	return likes, nil
}

// CreateComment는 댓글을 작성한다.
// 작성 시점의 닉네임과 등급을 함께 기록한다.
func (s *Service) CreateComment(ctx context.Context, postID, text string, profile *model.Profile) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, model.NewValidationError("댓글 내용을 입력해주세요.")
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, model.NewPostNotFoundError(postID)
	}

	comment := &model.Comment{
		ID:         uuid.New().String(),
		PostID:     postID,
		UserID:     profile.ID,
		AuthorName: profile.Nickname,
		Role:       profile.Role,
		Text:       text,
		CreatedAt:  time.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment는 본인의 댓글을 삭제한다. 관리자는 모든 댓글을 삭제할 수 있다.
func (s *Service) DeleteComment(ctx context.Context, commentID string, profile *model.Profile) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return model.NewCommentNotFoundError(commentID)
	}
	if comment.UserID != profile.ID && profile.Role != model.RoleAdmin {
		return model.NewUnauthorizedError()
	}

	return s.commentRepo.DeleteByID(ctx, commentID)
}
