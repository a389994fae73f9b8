package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gwonyoung/aibuup/internal/board"
	"github.com/gwonyoung/aibuup/internal/middleware"
	"github.com/gwonyoung/aibuup/internal/model"
)

// mockBoardService는 테스트용 BoardServiceInterface 구현.
type mockBoardService struct {
	listPostsFn     func(ctx context.Context, category string, role model.Role, page int) (*board.PostList, error)
	getPostFn       func(ctx context.Context, id string, role model.Role) (*board.PostDetail, error)
	createPostFn    func(ctx context.Context, input board.CreatePostInput, profile *model.Profile) (*model.Post, error)
	likePostFn      func(ctx context.Context, postID, userID string) (int, error)
	createCommentFn func(ctx context.Context, postID, text string, profile *model.Profile) (*model.Comment, error)
	deleteCommentFn func(ctx context.Context, commentID string, profile *model.Profile) error
}

func (m *mockBoardService) ListPosts(ctx context.Context, category string, role model.Role, page int) (*board.PostList, error) {
	return m.listPostsFn(ctx, category, role, page)
}

func (m *mockBoardService) GetPost(ctx context.Context, id string, role model.Role) (*board.PostDetail, error) {
	return m.getPostFn(ctx, id, role)
}

func (m *mockBoardService) CreatePost(ctx context.Context, input board.CreatePostInput, profile *model.Profile) (*model.Post, error) {
	return m.createPostFn(ctx, input, profile)
}

func (m *mockBoardService) LikePost(ctx context.Context, postID, userID string) (int, error) {
	return m.likePostFn(ctx, postID, userID)
}

func (m *mockBoardService) CreateComment(ctx context.Context, postID, text string, profile *model.Profile) (*model.Comment, error) {
	return m.createCommentFn(ctx, postID, text, profile)
}

func (m *mockBoardService) DeleteComment(ctx context.Context, commentID string, profile *model.Profile) error {
	return m.deleteCommentFn(ctx, commentID, profile)
}

var _ BoardServiceInterface = (*mockBoardService)(nil)

// boardMetricsSpy는 메트릭 호출을 기록한다.
type boardMetricsSpy struct {
	postsCreated    []string
	commentsCreated int
	likesRecorded   int
}

func (s *boardMetricsSpy) RecordPostCreated(category string) {
	s.postsCreated = append(s.postsCreated, category)
}

func (s *boardMetricsSpy) RecordCommentCreated() { s.commentsCreated++ }
func (s *boardMetricsSpy) RecordLikeRecorded()   { s.likesRecorded++ }

func silverIdentityRequest(req *http.Request) *http.Request {
	session := &model.Session{ID: "sess-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}
	profile := &model.Profile{ID: "user-1", Nickname: "테스터", Role: model.RoleSilver}
	return req.WithContext(middleware.ContextWithIdentity(req.Context(), session, profile))
}

// withURLParam은 chi 라우트 파라미터를 주입한다.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func samplePost() *model.Post {
	return &model.Post{
		ID:        "post-1",
		Title:     "쿠팡파트너스로 월 50 벌었습니다",
		Author:    "테스터",
		Category:  model.CategoryProfit,
		Content:   "후기 본문",
		Likes:     3,
		UserID:    "user-1",
		CreatedAt: time.Now(),
	}
}

func TestListPosts_Anonymous(t *testing.T) {
	service := &mockBoardService{
		listPostsFn: func(_ context.Context, category string, role model.Role, page int) (*board.PostList, error) {
			if role != model.Role("") {
				t.Errorf("role = %q, 미로그인은 빈 등급이어야 한다", role)
			}
			if category != model.CategoryProfit {
				t.Errorf("category = %q, want %q", category, model.CategoryProfit)
			}
			if page != 2 {
				t.Errorf("page = %d, want 2", page)
			}
			return &board.PostList{Posts: []*model.Post{samplePost()}, Total: 11, Page: 2, TotalPages: 2}, nil
		},
	}
	h := NewPostHandler(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/posts?category="+model.CategoryProfit+"&page=2", nil)
	w := httptest.NewRecorder()

	h.ListPosts(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got postListResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(got.Posts) != 1 || got.Total != 11 || got.TotalPages != 2 {
		t.Errorf("unexpected list: %+v", got)
	}
}

func TestListPosts_VIPCategoryWithoutRole(t *testing.T) {
	service := &mockBoardService{
		listPostsFn: func(_ context.Context, _ string, _ model.Role, _ int) (*board.PostList, error) {
			return nil, model.NewRoleRequiredError()
		},
	}
	h := NewPostHandler(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/posts?category=회원노하우전수", nil)
	w := httptest.NewRecorder()

	h.ListPosts(w, req)

	if w.Result().StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusForbidden)
	}
}

func TestGetPost_ReturnsDetailWithComments(t *testing.T) {
	service := &mockBoardService{
		getPostFn: func(_ context.Context, id string, _ model.Role) (*board.PostDetail, error) {
			if id != "post-1" {
				t.Errorf("id = %q, want post-1", id)
			}
			return &board.PostDetail{
				Post: samplePost(),
				Comments: []*model.Comment{
					{ID: "c-1", PostID: "post-1", AuthorName: "댓글러", Role: model.RoleGold, Text: "저도 해봤어요", CreatedAt: time.Now()},
				},
			}, nil
		},
	}
	h := NewPostHandler(service, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/posts/post-1", nil), "id", "post-1")
	w := httptest.NewRecorder()

	h.GetPost(w, req)

	var got postDetailResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got.Post.ID != "post-1" || len(got.Comments) != 1 {
		t.Errorf("unexpected detail: %+v", got)
	}
	if got.Comments[0].Role != "GOLD" {
		t.Errorf("comment role = %q, want GOLD", got.Comments[0].Role)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	service := &mockBoardService{
		getPostFn: func(_ context.Context, id string, _ model.Role) (*board.PostDetail, error) {
			return nil, model.NewPostNotFoundError(id)
		},
	}
	h := NewPostHandler(service, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/posts/none", nil), "id", "none")
	w := httptest.NewRecorder()

	h.GetPost(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}

func TestCreatePost_RequiresLogin(t *testing.T) {
	h := NewPostHandler(&mockBoardService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h.CreatePost(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestCreatePost_RecordsMetric(t *testing.T) {
	service := &mockBoardService{
		createPostFn: func(_ context.Context, input board.CreatePostInput, profile *model.Profile) (*model.Post, error) {
			if profile.ID != "user-1" {
				t.Errorf("profile.ID = %q, want user-1", profile.ID)
			}
			post := samplePost()
			post.Title = input.Title
			return post, nil
		},
	}
	spy := &boardMetricsSpy{}
	h := NewPostHandler(service, spy)

	body := `{"title":"새 글","category":"수익인증","content":"본문"}`
	req := silverIdentityRequest(httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(body)))
	w := httptest.NewRecorder()

	h.CreatePost(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if len(spy.postsCreated) != 1 || spy.postsCreated[0] != model.CategoryProfit {
		t.Errorf("postsCreated = %v, want [수익인증]", spy.postsCreated)
	}
}

func TestLikePost_ReturnsUpdatedCount(t *testing.T) {
	service := &mockBoardService{
		likePostFn: func(_ context.Context, postID, userID string) (int, error) {
			if postID != "post-1" || userID != "user-1" {
				t.Errorf("args = %q %q", postID, userID)
			}
			return 4, nil
		},
	}
	spy := &boardMetricsSpy{}
	h := NewPostHandler(service, spy)

	req := silverIdentityRequest(withURLParam(httptest.NewRequest(http.MethodPost, "/api/posts/post-1/like", nil), "id", "post-1"))
	w := httptest.NewRecorder()

	h.LikePost(w, req)

	var got likeResponse
	if err := json.NewDecoder(w.Result().Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got.Likes != 4 {
		t.Errorf("likes = %d, want 4", got.Likes)
	}
	if spy.likesRecorded != 1 {
		t.Errorf("likesRecorded = %d, want 1", spy.likesRecorded)
	}
}

func TestLikePost_AlreadyLiked(t *testing.T) {
	service := &mockBoardService{
		likePostFn: func(_ context.Context, _, _ string) (int, error) {
			return 4, model.NewAlreadyLikedError()
		},
	}
	spy := &boardMetricsSpy{}
	h := NewPostHandler(service, spy)

	req := silverIdentityRequest(withURLParam(httptest.NewRequest(http.MethodPost, "/api/posts/post-1/like", nil), "id", "post-1"))
	w := httptest.NewRecorder()

	h.LikePost(w, req)

	if w.Result().StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusConflict)
	}
	if spy.likesRecorded != 0 {
		t.Error("중복 좋아요는 메트릭에 기록하지 않는다")
	}
}

func TestCreateComment_RecordsMetric(t *testing.T) {
	service := &mockBoardService{
		createCommentFn: func(_ context.Context, postID, text string, profile *model.Profile) (*model.Comment, error) {
			return &model.Comment{
				ID:         "c-1",
				PostID:     postID,
				UserID:     profile.ID,
				AuthorName: profile.Nickname,
				Role:       profile.Role,
				Text:       text,
				CreatedAt:  time.Now(),
			}, nil
		},
	}
	spy := &boardMetricsSpy{}
	h := NewPostHandler(service, spy)

	body := `{"text":"응원합니다"}`
	req := silverIdentityRequest(withURLParam(
		httptest.NewRequest(http.MethodPost, "/api/posts/post-1/comments", strings.NewReader(body)), "id", "post-1"))
	w := httptest.NewRecorder()

	h.CreateComment(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var got commentResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got.Text != "응원합니다" || got.AuthorName != "테스터" {
		t.Errorf("unexpected comment: %+v", got)
	}
	if spy.commentsCreated != 1 {
		t.Errorf("commentsCreated = %d, want 1", spy.commentsCreated)
	}
}

func TestDeleteComment_Forbidden(t *testing.T) {
	service := &mockBoardService{
		deleteCommentFn: func(_ context.Context, _ string, _ *model.Profile) error {
			return model.NewUnauthorizedError()
		},
	}
	h := NewPostHandler(service, nil)

	req := silverIdentityRequest(withURLParam(
		httptest.NewRequest(http.MethodDelete, "/api/comments/c-1", nil), "id", "c-1"))
	w := httptest.NewRecorder()

	h.DeleteComment(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestDeleteComment_Success(t *testing.T) {
	deleted := ""
	service := &mockBoardService{
		deleteCommentFn: func(_ context.Context, commentID string, _ *model.Profile) error {
			deleted = commentID
			return nil
		},
	}
	h := NewPostHandler(service, nil)

	req := silverIdentityRequest(withURLParam(
		httptest.NewRequest(http.MethodDelete, "/api/comments/c-1", nil), "id", "c-1"))
	w := httptest.NewRecorder()

	h.DeleteComment(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
	if deleted != "c-1" {
		t.Errorf("deleted = %q, want c-1", deleted)
	}
}
