package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gwonyoung/aibuup/internal/board"
	"github.com/gwonyoung/aibuup/internal/middleware"
	"github.com/gwonyoung/aibuup/internal/model"
)

// BoardServiceInterface는 게시판 핸들러가 필요로 하는 서비스 인터페이스.
type BoardServiceInterface interface {
	// ListPosts는 카테고리별 게시글 목록을 반환한다.
	ListPosts(ctx context.Context, category string, role model.Role, page int) (*board.PostList, error)
	// GetPost는 게시글과 댓글을 조회한다.
	GetPost(ctx context.Context, id string, role model.Role) (*board.PostDetail, error)
	// CreatePost는 게시글을 작성한다.
	CreatePost(ctx context.Context, input board.CreatePostInput, profile *model.Profile) (*model.Post, error)
	// LikePost는 좋아요를 기록하고 갱신된 수를 반환한다.
	LikePost(ctx context.Context, postID, userID string) (int, error)
	// CreateComment는 댓글을 작성한다.
	CreateComment(ctx context.Context, postID, text string, profile *model.Profile) (*model.Comment, error)
	// DeleteComment는 본인 또는 운영자의 댓글 삭제를 처리한다.
	DeleteComment(ctx context.Context, commentID string, profile *model.Profile) error
}

// BoardMetricsRecorder는 게시판 이벤트 메트릭 기록의 인터페이스.
// metrics.MetricsCollector의 부분집합으로 정의한다.
type BoardMetricsRecorder interface {
	RecordPostCreated(category string)
	RecordCommentCreated()
	RecordLikeRecorded()
}

// PostHandler는 게시글, 댓글, 좋아요의 HTTP 핸들러.
type PostHandler struct {
	service BoardServiceInterface
	metrics BoardMetricsRecorder
}

// NewPostHandler는 PostHandler를 생성한다. metrics는 nil 허용.
func NewPostHandler(service BoardServiceInterface, metrics BoardMetricsRecorder) *PostHandler {
	return &PostHandler{
		service: service,
		metrics: metrics,
	}
}

type createCommentRequest struct {
	Text string `json:"text"`
}

type likeResponse struct {
	Likes int `json:"likes"`
}

// currentRole은 요청 컨텍스트의 프로필 등급을 반환한다. 미로그인이면 빈 등급.
func currentRole(r *http.Request) model.Role {
	if profile := middleware.ProfileFromContext(r.Context()); profile != nil {
		return profile.Role
	}
	return model.Role("")
}

// ListPosts는 게시글 목록을 반환한다. 미로그인도 조회할 수 있다.
// GET /api/posts?category=수익인증&page=1
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	list, err := h.service.ListPosts(r.Context(), category, currentRole(r), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostListResponse(list))
}

// GetPost는 게시글 상세와 댓글을 반환한다.
// GET /api/posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	detail, err := h.service.GetPost(r.Context(), postID, currentRole(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostDetailResponse(detail))
}

// CreatePost는 게시글 작성을 처리한다.
// POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	profile := middleware.ProfileFromContext(r.Context())
	if profile == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var input board.CreatePostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeInvalidRequest(w)
		return
	}

	post, err := h.service.CreatePost(r.Context(), input, profile)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordPostCreated(post.Category)
	}
	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

// LikePost는 좋아요를 기록한다. 중복 좋아요는 409로 거부한다.
// POST /api/posts/{id}/like
func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	profile := middleware.ProfileFromContext(r.Context())
	if profile == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	postID := chi.URLParam(r, "id")

	likes, err := h.service.LikePost(r.Context(), postID, profile.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLikeRecorded()
	}
	writeJSON(w, http.StatusOK, likeResponse{Likes: likes})
}

// CreateComment는 댓글 작성을 처리한다.
// POST /api/posts/{id}/comments
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	profile := middleware.ProfileFromContext(r.Context())
	if profile == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	postID := chi.URLParam(r, "id")

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	comment, err := h.service.CreateComment(r.Context(), postID, req.Text, profile)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCommentCreated()
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// DeleteComment는 댓글 삭제를 처리한다.
// DELETE /api/comments/{id}
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	profile := middleware.ProfileFromContext(r.Context())
	if profile == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	commentID := chi.URLParam(r, "id")

	if err := h.service.DeleteComment(r.Context(), commentID, profile); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
